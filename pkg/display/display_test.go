package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitials(t *testing.T) {
	assert.Equal(t, "MS", Initials("Maria Santos"))
	assert.Equal(t, "C", Initials("Cher"))
	assert.Equal(t, "", Initials(""))
	assert.Equal(t, "", Initials("   "))
	assert.Equal(t, "JS", Initials("  joão   silva  "))
	assert.Equal(t, "CF", Initials("Carlos Ferreira Neto"))
	assert.Equal(t, "ÉA", Initials("élodie alves"))
}

func TestColorForName_Deterministic(t *testing.T) {
	first := ColorForName("João Silva")
	second := ColorForName("João Silva")
	assert.Equal(t, first, second)
	assert.Equal(t, Palette[4], first)
}

func TestColorForName_KnownSums(t *testing.T) {
	assert.Equal(t, Palette[2], ColorForName("Maria Santos"))
	assert.Equal(t, Palette[0], ColorForName("Ana Costa"))
	assert.Equal(t, Palette[0], ColorForName(""))
	// astral characters count as their high surrogate (0xD83D)
	assert.Equal(t, Palette[1], ColorForName("😀"))
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2024-03-18")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDate("2024-3-5")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDate("2024-01-15T23:30:00-03:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("not a date")
	assert.False(t, ok)
	_, ok = ParseDate("2024-02-30")
	assert.False(t, ok)
}

func TestCanonicalDate(t *testing.T) {
	got, ok := CanonicalDate("2024-1-5")
	require.True(t, ok)
	assert.Equal(t, "2024-01-05", got)

	_, ok = CanonicalDate("05/01/2024")
	assert.False(t, ok)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "18 Mar 2024", FormatDate("2024-03-18"))
	assert.Equal(t, "05 Jan 2024", FormatDate("2024-1-5"))
	assert.Equal(t, Placeholder, FormatDate(""))
	assert.Equal(t, Placeholder, FormatDate("garbage"))
	assert.Equal(t, "—", Placeholder)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, Placeholder, FormatTime(time.Time{}))
	assert.Equal(t, "23 Jul 1979", FormatTime(time.Date(1979, 7, 23, 18, 0, 0, 0, time.UTC)))
}

type visit struct {
	id   string
	date string
}

func visitDate(v visit) string { return v.date }

func TestPartitionByDate(t *testing.T) {
	ref := time.Date(2024, 2, 12, 15, 45, 0, 0, time.UTC)
	in := []visit{
		{"a", "2024-03-18"},
		{"b", "2024-02-12"},
		{"c", "2024-02-11"},
		{"d", "bogus"},
		{"e", "2024-01-05"},
	}

	past, future := PartitionByDate(in, visitDate, ref)

	assert.Equal(t, []visit{{"c", "2024-02-11"}, {"e", "2024-01-05"}}, past)
	assert.Equal(t, []visit{{"a", "2024-03-18"}, {"b", "2024-02-12"}, {"d", "bogus"}}, future)
}

func TestPartitionByDate_TotalPartition(t *testing.T) {
	in := []visit{{"1", "2023-12-31"}, {"2", "2024-01-01"}, {"3", "2024-01-02"}, {"4", ""}}
	refs := []time.Time{
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC),
		time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, ref := range refs {
		past, future := PartitionByDate(in, visitDate, ref)
		require.Len(t, append(append([]visit{}, past...), future...), len(in), "ref %s", ref)

		seen := map[string]int{}
		for _, v := range past {
			seen[v.id]++
		}
		for _, v := range future {
			seen[v.id]++
		}
		for _, v := range in {
			assert.Equal(t, 1, seen[v.id], "ref %s id %s", ref, v.id)
		}
	}
}

func TestPartitionByDate_Empty(t *testing.T) {
	past, future := PartitionByDate(nil, visitDate, time.Now())
	assert.Empty(t, past)
	assert.Empty(t, future)
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, BadgeActive, StatusBadge("active"))
	assert.Equal(t, BadgeOngoing, StatusBadge("ongoing"))
	assert.Equal(t, BadgeOverdue, StatusBadge("overdue"))
	assert.Equal(t, BadgeCompleted, StatusBadge("completed"))
	assert.Equal(t, BadgeCompleted, StatusBadge(""))
	assert.Equal(t, BadgeCompleted, StatusBadge("archived"))
}

func TestVisitBadge(t *testing.T) {
	assert.Equal(t, "Completed", VisitBadge(true).Label)
	assert.Equal(t, "Scheduled", VisitBadge(false).Label)
}

func TestMatchName(t *testing.T) {
	assert.True(t, MatchName("Maria Santos", ""))
	assert.True(t, MatchName("Maria Santos", "maria"))
	assert.True(t, MatchName("Maria Santos", "SANTOS"))
	assert.True(t, MatchName("João Silva", "JOÃO"))
	assert.False(t, MatchName("Ana Costa", "silva"))
}

func TestBirthYear(t *testing.T) {
	assert.Equal(t, 1979, BirthYear(45, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
}
