// Package presenter holds the client-side state of the patients screens,
// independent of any UI toolkit. Every exported method is safe for
// concurrent use; the lock is not held across network calls.
package presenter

import (
	"context"
	"errors"

	"github.com/docapp/docapp/internal/domain/patient"
)

// Fetcher is the API surface the screens read and write through.
// *client.Client implements it.
type Fetcher interface {
	ListPatients(ctx context.Context) ([]*patient.Patient, error)
	GetPatient(ctx context.Context, id string) (*patient.Patient, error)
	UpdatePatient(ctx context.Context, id string, u patient.PatientUpdate) (*patient.Patient, error)
	ListConsultations(ctx context.Context, patientID string) ([]*patient.Consultation, error)
}

var (
	ErrSaveInFlight   = errors.New("a save is in progress")
	ErrNoSelection    = errors.New("no patient selected")
	ErrNotEditing     = errors.New("not editing")
	ErrUnknownPatient = errors.New("patient is not in the list")
	ErrUnknownTab     = errors.New("unknown tab")
)

type LoadState int

const (
	Idle LoadState = iota
	Loading
	Ready
	Errored
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "errored"
	default:
		return "idle"
	}
}

type EditState int

const (
	Viewing EditState = iota
	Editing
	Saving
)

func (s EditState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "viewing"
	}
}

// History is a consultation list with its own load state.
type History struct {
	State LoadState
	Items []*patient.Consultation
}

// Draft is the edit buffer of the detail dialog.
type Draft struct {
	Name string
	Age  int
}

func clonePatient(p *patient.Patient) *patient.Patient {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func clonePatients(ps []*patient.Patient) []*patient.Patient {
	out := make([]*patient.Patient, len(ps))
	for i, p := range ps {
		out[i] = clonePatient(p)
	}
	return out
}

func cloneHistory(h History) History {
	items := make([]*patient.Consultation, len(h.Items))
	for i, c := range h.Items {
		cp := *c
		items[i] = &cp
	}
	return History{State: h.State, Items: items}
}
