package presenter

import (
	"context"
	"errors"
	"sync"

	"github.com/docapp/docapp/internal/domain/patient"
)

var errBoom = errors.New("connection refused")

// fakeFetcher serves canned data. When gate is set, UpdatePatient blocks on it
// after signalling entered.
type fakeFetcher struct {
	mu            sync.Mutex
	patients      []*patient.Patient
	consultations map[string][]*patient.Consultation

	listErr    error
	getErr     error
	historyErr error
	updateErr  error

	gate    chan struct{}
	entered chan struct{}

	updates []patient.PatientUpdate
}

func newFakeFetcher() *fakeFetcher {
	last := "2024-03-18"
	return &fakeFetcher{
		patients: []*patient.Patient{
			{ID: "p1", Name: "João Silva", Age: 45, Email: "joao.silva@email.com"},
			{ID: "p2", Name: "Ana Costa", Age: 55, LastVisit: &last},
			{ID: "p3", Name: "Maria Santos", Age: 32},
		},
		consultations: map[string][]*patient.Consultation{
			"p2": {
				{ID: "c3", PatientID: "p2", Date: "2024-03-18", Diagnosis: "Check-up"},
				{ID: "c2", PatientID: "p2", Date: "2024-02-12", Diagnosis: "Follow-up"},
				{ID: "c1", PatientID: "p2", Date: "2024-01-05", Diagnosis: "Migraine"},
			},
		},
	}
}

func (f *fakeFetcher) ListPatients(context.Context) ([]*patient.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return clonePatients(f.patients), nil
}

func (f *fakeFetcher) GetPatient(_ context.Context, id string) (*patient.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.patients {
		if p.ID == id {
			return clonePatient(p), nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeFetcher) UpdatePatient(_ context.Context, id string, u patient.PatientUpdate) (*patient.Patient, error) {
	f.mu.Lock()
	f.updates = append(f.updates, u)
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, p := range f.patients {
		if p.ID == id {
			p.Name, p.Age = u.Name, u.Age
			out := clonePatient(p)
			out.LastVisit = nil
			return out, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeFetcher) ListConsultations(_ context.Context, id string) ([]*patient.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.consultations[id], nil
}
