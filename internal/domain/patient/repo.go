package patient

import "context"

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	InsertMany(ctx context.Context, ps []*Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	UpdateNameAge(ctx context.Context, id string, u PatientUpdate) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	Count(ctx context.Context) (int, error)
}

type ConsultationRepository interface {
	Create(ctx context.Context, c *Consultation) error
	InsertMany(ctx context.Context, cs []*Consultation) error
	// ListByPatient returns the patient's consultations, latest date first.
	ListByPatient(ctx context.Context, patientID string) ([]*Consultation, error)
	ListVisits(ctx context.Context) ([]Visit, error)
}
