package patient

import (
	"context"

	"github.com/docapp/docapp/pkg/display"
)

type Service struct {
	patients      PatientRepository
	consultations ConsultationRepository
}

func NewService(patients PatientRepository, consultations ConsultationRepository) *Service {
	return &Service{patients: patients, consultations: consultations}
}

// ListPatients returns every patient in store order with LastVisit derived
// from one batch read of all consultations.
func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	visits, err := s.consultations.ListVisits(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	JoinLastVisits(patients, visits)
	if patients == nil {
		patients = []*Patient{}
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	return p, storeErr(err)
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.ID = ""
	p.LastVisit = nil
	return storeErr(s.patients.Create(ctx, p))
}

// UpdatePatient changes name and age. Invalid input is rejected before the
// store is touched.
func (s *Service) UpdatePatient(ctx context.Context, id string, u PatientUpdate) (*Patient, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	p, err := s.patients.UpdateNameAge(ctx, id, u)
	return p, storeErr(err)
}

// ListConsultations returns the history for patientID, latest first. An
// unknown patient simply has no history.
func (s *Service) ListConsultations(ctx context.Context, patientID string) ([]*Consultation, error) {
	cs, err := s.consultations.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, storeErr(err)
	}
	if cs == nil {
		cs = []*Consultation{}
	}
	return cs, nil
}

// CreateConsultation records a visit for patientID without checking that the
// patient exists.
func (s *Service) CreateConsultation(ctx context.Context, patientID string, c *Consultation) error {
	date, ok := display.CanonicalDate(c.Date)
	if !ok {
		return newValidationError([]FieldIssue{{Field: "date", Message: "must be a calendar date (YYYY-MM-DD)"}})
	}
	c.ID = ""
	c.PatientID = patientID
	c.Date = date
	return storeErr(s.consultations.Create(ctx, c))
}
