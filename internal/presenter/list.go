package presenter

import (
	"context"
	"sync"

	"github.com/docapp/docapp/internal/domain/patient"
	"github.com/docapp/docapp/pkg/display"
)

const (
	emptyNoMatch = "No patients found"
	emptyNoData  = "No patients registered"
	alertPrefix  = "Error saving changes: "
)

// ListPage is the patients list with its detail dialog.
type ListPage struct {
	api Fetcher

	mu         sync.Mutex
	state      LoadState
	patients   []*patient.Patient
	loadErr    error
	refreshing bool
	query      string

	selected *patient.Patient
	history  History
	// selection guards late history responses after the dialog changed.
	selection uint64
	edit      EditState
	draft     Draft
	alert     string
}

func NewListPage(api Fetcher) *ListPage {
	return &ListPage{api: api}
}

// Load fetches the list. On failure the list is empty and the page is Errored.
func (l *ListPage) Load(ctx context.Context) error {
	l.mu.Lock()
	l.state = Loading
	l.loadErr = nil
	l.mu.Unlock()

	items, err := l.api.ListPatients(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = Errored
		l.patients = nil
		l.loadErr = err
		return err
	}
	l.state = Ready
	l.patients = items
	return nil
}

// Refresh refetches the list. Current rows survive a failed refresh.
func (l *ListPage) Refresh(ctx context.Context) error {
	l.mu.Lock()
	if l.refreshing {
		l.mu.Unlock()
		return nil
	}
	l.refreshing = true
	l.mu.Unlock()

	items, err := l.api.ListPatients(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshing = false
	if err != nil {
		l.loadErr = err
		return err
	}
	l.state = Ready
	l.loadErr = nil
	l.patients = items
	return nil
}

func (l *ListPage) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *ListPage) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadErr
}

func (l *ListPage) Refreshing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshing
}

func (l *ListPage) Patients() []*patient.Patient {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clonePatients(l.patients)
}

func (l *ListPage) SetQuery(q string) {
	l.mu.Lock()
	l.query = q
	l.mu.Unlock()
}

func (l *ListPage) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Filtered returns the rows whose name matches the search query.
func (l *ListPage) Filtered() []*patient.Patient {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filteredLocked()
}

func (l *ListPage) filteredLocked() []*patient.Patient {
	out := []*patient.Patient{}
	for _, p := range l.patients {
		if display.MatchName(p.Name, l.query) {
			out = append(out, clonePatient(p))
		}
	}
	return out
}

// EmptyMessage is shown in place of the table when no row is visible.
func (l *ListPage) EmptyMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.filteredLocked()) > 0 {
		return ""
	}
	if l.query != "" {
		return emptyNoMatch
	}
	return emptyNoData
}

// Select opens the detail dialog for id and loads its history. A history
// failure leaves an empty Errored history and does not touch the list.
func (l *ListPage) Select(ctx context.Context, id string) error {
	l.mu.Lock()
	if l.edit == Saving {
		l.mu.Unlock()
		return ErrSaveInFlight
	}
	p := l.findLocked(id)
	if p == nil {
		l.mu.Unlock()
		return ErrUnknownPatient
	}
	l.selected = clonePatient(p)
	l.draft = Draft{Name: p.Name, Age: p.Age}
	l.edit = Viewing
	l.alert = ""
	l.history = History{State: Loading}
	l.selection++
	token := l.selection
	l.mu.Unlock()

	items, err := l.api.ListConsultations(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.selection {
		return nil
	}
	if err != nil {
		l.history = History{State: Errored}
		return err
	}
	l.history = History{State: Ready, Items: items}
	return nil
}

func (l *ListPage) findLocked(id string) *patient.Patient {
	for _, p := range l.patients {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Close dismisses the detail dialog.
func (l *ListPage) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.edit == Saving {
		return ErrSaveInFlight
	}
	l.selected = nil
	l.history = History{}
	l.selection++
	l.edit = Viewing
	l.draft = Draft{}
	l.alert = ""
	return nil
}

func (l *ListPage) Selected() *patient.Patient {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clonePatient(l.selected)
}

func (l *ListPage) History() History {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneHistory(l.history)
}

func (l *ListPage) EditState() EditState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.edit
}

func (l *ListPage) Draft() Draft {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draft
}

func (l *ListPage) BeginEdit() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.edit == Saving:
		return ErrSaveInFlight
	case l.selected == nil:
		return ErrNoSelection
	}
	l.edit = Editing
	return nil
}

func (l *ListPage) SetName(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.edit != Editing {
		return ErrNotEditing
	}
	l.draft.Name = name
	return nil
}

func (l *ListPage) SetAge(age int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.edit != Editing {
		return ErrNotEditing
	}
	l.draft.Age = age
	return nil
}

// Cancel drops the edits and returns to Viewing.
func (l *ListPage) Cancel() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.edit == Saving:
		return ErrSaveInFlight
	case l.selected == nil:
		return ErrNoSelection
	}
	l.draft = Draft{Name: l.selected.Name, Age: l.selected.Age}
	l.edit = Viewing
	return nil
}

// Save sends the draft. On success the list row and the selection become the
// server's copy. On failure the draft is kept, the dialog returns to Editing
// and an alert is raised.
func (l *ListPage) Save(ctx context.Context) error {
	l.mu.Lock()
	switch l.edit {
	case Saving:
		l.mu.Unlock()
		return ErrSaveInFlight
	case Viewing:
		l.mu.Unlock()
		return ErrNotEditing
	}
	l.edit = Saving
	l.alert = ""
	id := l.selected.ID
	u := patient.PatientUpdate{Name: l.draft.Name, Age: l.draft.Age}
	l.mu.Unlock()

	updated, err := l.api.UpdatePatient(ctx, id, u)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.edit = Editing
		l.alert = alertPrefix + alertText(err)
		return err
	}

	// The update echo carries no derived lastVisit; keep the row's.
	for i, p := range l.patients {
		if p.ID == updated.ID {
			if updated.LastVisit == nil {
				updated.LastVisit = p.LastVisit
			}
			l.patients[i] = clonePatient(updated)
		}
	}
	l.selected = clonePatient(updated)
	l.draft = Draft{Name: updated.Name, Age: updated.Age}
	l.edit = Viewing
	return nil
}

// Alert is the pending error notice, if any.
func (l *ListPage) Alert() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alert
}

func (l *ListPage) DismissAlert() {
	l.mu.Lock()
	l.alert = ""
	l.mu.Unlock()
}
