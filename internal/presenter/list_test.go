package presenter

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docapp/docapp/internal/client"
)

func loadedPage(t *testing.T, f *fakeFetcher) *ListPage {
	t.Helper()
	page := NewListPage(f)
	require.Equal(t, Idle, page.State())
	require.NoError(t, page.Load(context.Background()))
	return page
}

func TestListPage_Load(t *testing.T) {
	page := loadedPage(t, newFakeFetcher())
	assert.Equal(t, Ready, page.State())
	assert.Len(t, page.Patients(), 3)
	assert.Empty(t, page.EmptyMessage())
}

func TestListPage_LoadError(t *testing.T) {
	f := newFakeFetcher()
	f.listErr = errBoom
	page := NewListPage(f)

	err := page.Load(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Errored, page.State())
	assert.Empty(t, page.Patients())
	assert.Equal(t, "No patients registered", page.EmptyMessage())
}

func TestListPage_RefreshKeepsRowsOnFailure(t *testing.T) {
	f := newFakeFetcher()
	page := loadedPage(t, f)

	f.listErr = errBoom
	assert.Error(t, page.Refresh(context.Background()))
	assert.False(t, page.Refreshing())
	assert.Len(t, page.Patients(), 3)
	assert.Equal(t, Ready, page.State())
	assert.ErrorIs(t, page.Err(), errBoom)
}

func TestListPage_Search(t *testing.T) {
	page := loadedPage(t, newFakeFetcher())

	page.SetQuery("JOÃO")
	rows := page.Filtered()
	require.Len(t, rows, 1)
	assert.Equal(t, "p1", rows[0].ID)

	page.SetQuery("zzz")
	assert.Empty(t, page.Filtered())
	assert.Equal(t, "No patients found", page.EmptyMessage())

	page.SetQuery("")
	assert.Len(t, page.Filtered(), 3)
}

func TestListPage_SelectLoadsHistory(t *testing.T) {
	page := loadedPage(t, newFakeFetcher())

	require.NoError(t, page.Select(context.Background(), "p2"))
	sel := page.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "Ana Costa", sel.Name)
	assert.Equal(t, Draft{Name: "Ana Costa", Age: 55}, page.Draft())
	assert.Equal(t, Viewing, page.EditState())

	h := page.History()
	assert.Equal(t, Ready, h.State)
	require.Len(t, h.Items, 3)
	assert.Equal(t, "2024-03-18", h.Items[0].Date)
}

func TestListPage_SelectHistoryFailureIsIsolated(t *testing.T) {
	f := newFakeFetcher()
	page := loadedPage(t, f)
	f.historyErr = errBoom

	assert.Error(t, page.Select(context.Background(), "p2"))
	h := page.History()
	assert.Equal(t, Errored, h.State)
	assert.Empty(t, h.Items)
	assert.Equal(t, Ready, page.State())
	assert.Len(t, page.Patients(), 3)
	assert.NotNil(t, page.Selected())
}

func TestListPage_SelectUnknown(t *testing.T) {
	page := loadedPage(t, newFakeFetcher())
	assert.ErrorIs(t, page.Select(context.Background(), "nope"), ErrUnknownPatient)
}

func TestListPage_EditAndSave(t *testing.T) {
	f := newFakeFetcher()
	page := loadedPage(t, f)
	ctx := context.Background()
	require.NoError(t, page.Select(ctx, "p2"))

	assert.ErrorIs(t, page.SetAge(56), ErrNotEditing)
	require.NoError(t, page.BeginEdit())
	require.NoError(t, page.SetAge(56))
	require.NoError(t, page.Save(ctx))

	assert.Equal(t, Viewing, page.EditState())
	assert.Equal(t, 56, page.Selected().Age)
	for _, p := range page.Patients() {
		if p.ID == "p2" {
			assert.Equal(t, 56, p.Age)
			require.NotNil(t, p.LastVisit)
			assert.Equal(t, "2024-03-18", *p.LastVisit)
		}
	}
	assert.Empty(t, page.Alert())
}

func TestListPage_SaveFailureKeepsDraft(t *testing.T) {
	f := newFakeFetcher()
	f.updateErr = &client.APIError{Status: http.StatusBadRequest, Message: "invalid input: name is required"}
	page := loadedPage(t, f)
	ctx := context.Background()
	require.NoError(t, page.Select(ctx, "p3"))
	require.NoError(t, page.BeginEdit())
	require.NoError(t, page.SetName(""))

	assert.Error(t, page.Save(ctx))
	assert.Equal(t, Editing, page.EditState())
	assert.Equal(t, "", page.Draft().Name)
	assert.Equal(t, "Error saving changes: invalid input: name is required", page.Alert())
	assert.Equal(t, "Maria Santos", page.Selected().Name)

	page.DismissAlert()
	assert.Empty(t, page.Alert())
}

func TestListPage_Cancel(t *testing.T) {
	page := loadedPage(t, newFakeFetcher())
	require.NoError(t, page.Select(context.Background(), "p1"))
	require.NoError(t, page.BeginEdit())
	require.NoError(t, page.SetName("Someone Else"))
	require.NoError(t, page.SetAge(99))

	require.NoError(t, page.Cancel())
	assert.Equal(t, Viewing, page.EditState())
	assert.Equal(t, Draft{Name: "João Silva", Age: 45}, page.Draft())
}

func TestListPage_SaveInFlightRejectsChanges(t *testing.T) {
	f := newFakeFetcher()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 1)
	page := loadedPage(t, f)
	ctx := context.Background()
	require.NoError(t, page.Select(ctx, "p1"))
	require.NoError(t, page.BeginEdit())
	require.NoError(t, page.SetAge(46))

	done := make(chan error, 1)
	go func() { done <- page.Save(ctx) }()
	<-f.entered

	assert.Equal(t, Saving, page.EditState())
	assert.ErrorIs(t, page.Save(ctx), ErrSaveInFlight)
	assert.ErrorIs(t, page.Select(ctx, "p2"), ErrSaveInFlight)
	assert.ErrorIs(t, page.Close(), ErrSaveInFlight)
	assert.ErrorIs(t, page.Cancel(), ErrSaveInFlight)
	assert.ErrorIs(t, page.BeginEdit(), ErrSaveInFlight)
	assert.ErrorIs(t, page.SetName("x"), ErrNotEditing)

	close(f.gate)
	require.NoError(t, <-done)
	assert.Equal(t, Viewing, page.EditState())
	assert.Equal(t, "p1", page.Selected().ID)
	assert.Len(t, f.updates, 1)
}

func TestListPage_Close(t *testing.T) {
	page := loadedPage(t, newFakeFetcher())
	require.NoError(t, page.Select(context.Background(), "p2"))
	require.NoError(t, page.Close())
	assert.Nil(t, page.Selected())
	assert.Equal(t, Idle, page.History().State)
	assert.ErrorIs(t, page.BeginEdit(), ErrNoSelection)
}
