package presenter

import (
	"context"
	"sync"
	"time"

	"github.com/docapp/docapp/internal/domain/patient"
	"github.com/docapp/docapp/pkg/display"
)

type Tab string

const (
	TabFuture  Tab = "future"
	TabPast    Tab = "past"
	TabPlanned Tab = "planned"
)

func (t Tab) valid() bool {
	return t == TabFuture || t == TabPast || t == TabPlanned
}

// Empty-tab notices.
const (
	NoFutureVisits = "No future visits scheduled"
	NoPastVisits   = "No past visits recorded"
	NoPlanned      = "No planned treatments"
)

// VisitRow is one consultation as the profile page renders it.
type VisitRow struct {
	ID        string
	Date      string
	Diagnosis string
	Doctor    string
	Notes     string
	Badge     display.Badge
}

// ProfileView is everything the profile page shows, derived at one instant.
type ProfileView struct {
	PatientState LoadState
	HistoryState LoadState
	Found        bool

	Name       string
	Initials   string
	Color      display.AvatarColor
	Email      string
	Phone      string
	Age        int
	BirthYear  int
	Registered string
	Status     display.Badge
	LastVisit  string

	Past   []VisitRow
	Future []VisitRow

	Tab     Tab
	Visible []VisitRow
	Empty   string
}

// ProfilePage is the single-patient screen.
type ProfilePage struct {
	api Fetcher
	id  string
	now func() time.Time

	mu           sync.Mutex
	patientState LoadState
	patient      *patient.Patient
	history      History
	tab          Tab
}

func NewProfilePage(api Fetcher, id string) *ProfilePage {
	return &ProfilePage{api: api, id: id, now: time.Now, tab: TabPast}
}

// Load fetches the patient and the history concurrently. Either may fail
// without affecting the other; the first error is returned.
func (p *ProfilePage) Load(ctx context.Context) error {
	p.mu.Lock()
	p.patientState = Loading
	p.history = History{State: Loading}
	p.mu.Unlock()

	var (
		wg         sync.WaitGroup
		pat        *patient.Patient
		items      []*patient.Consultation
		patErr     error
		historyErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pat, patErr = p.api.GetPatient(ctx, p.id)
	}()
	go func() {
		defer wg.Done()
		items, historyErr = p.api.ListConsultations(ctx, p.id)
	}()
	wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if patErr != nil {
		p.patientState = Errored
		p.patient = nil
	} else {
		p.patientState = Ready
		p.patient = pat
	}
	if historyErr != nil {
		p.history = History{State: Errored}
	} else {
		p.history = History{State: Ready, Items: items}
	}

	if patErr != nil {
		return patErr
	}
	return historyErr
}

func (p *ProfilePage) SetTab(t Tab) error {
	if !t.valid() {
		return ErrUnknownTab
	}
	p.mu.Lock()
	p.tab = t
	p.mu.Unlock()
	return nil
}

// View derives the page against the current day.
func (p *ProfilePage) View() ProfileView {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := ProfileView{
		PatientState: p.patientState,
		HistoryState: p.history.State,
		Tab:          p.tab,
	}

	now := p.now()
	past, future := display.PartitionByDate(p.history.Items,
		func(c *patient.Consultation) string { return c.Date }, now)
	v.Past = visitRows(past, true)
	v.Future = visitRows(future, false)

	if pat := p.patient; pat != nil {
		v.Found = true
		v.Name = pat.Name
		v.Initials = display.Initials(pat.Name)
		v.Color = display.ColorForName(pat.Name)
		v.Email = pat.Email
		v.Phone = pat.Phone
		v.Age = pat.Age
		v.BirthYear = display.BirthYear(pat.Age, now)
		v.Registered = display.FormatTime(pat.CreatedAt)
		status := ""
		if pat.Status != nil {
			status = string(*pat.Status)
		}
		v.Status = display.StatusBadge(status)
		v.LastVisit = display.Placeholder
		if pat.LastVisit != nil {
			v.LastVisit = display.FormatDate(*pat.LastVisit)
		}
	}

	switch p.tab {
	case TabFuture:
		v.Visible, v.Empty = v.Future, NoFutureVisits
	case TabPast:
		v.Visible, v.Empty = v.Past, NoPastVisits
	default:
		v.Visible, v.Empty = []VisitRow{}, NoPlanned
	}
	if len(v.Visible) > 0 {
		v.Empty = ""
	}
	return v
}

func visitRows(cs []*patient.Consultation, past bool) []VisitRow {
	out := make([]VisitRow, 0, len(cs))
	for _, c := range cs {
		out = append(out, VisitRow{
			ID:        c.ID,
			Date:      display.FormatDate(c.Date),
			Diagnosis: c.Diagnosis,
			Doctor:    c.Doctor,
			Notes:     c.Notes,
			Badge:     display.VisitBadge(past),
		})
	}
	return out
}
