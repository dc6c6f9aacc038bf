package patient

import (
	"context"
	"fmt"
)

// SeedResult is the outcome of loading the demo fixture.
type SeedResult struct {
	Message          string `json:"message"`
	PatientsInserted int    `json:"patientsInserted"`
}

const (
	seedMessageDone    = "Database seeded successfully"
	seedMessageSkipped = "Database already seeded"
)

type seedVisit struct {
	patient   int
	date      string
	doctor    string
	diagnosis string
	notes     string
}

var seedPatients = []Patient{
	{Name: "João Silva", Age: 45, Email: "joao.silva@email.com", Phone: "(11) 98765-4321"},
	{Name: "Maria Santos", Age: 32, Email: "maria.santos@email.com", Phone: "(11) 98765-4322"},
	{Name: "Pedro Oliveira", Age: 28, Email: "pedro.oliveira@email.com", Phone: "(11) 98765-4323"},
	{Name: "Ana Costa", Age: 55, Email: "ana.costa@email.com", Phone: "(11) 98765-4324"},
	{Name: "Carlos Ferreira", Age: 38, Email: "carlos.ferreira@email.com", Phone: "(11) 98765-4325"},
	{Name: "Juliana Alves", Age: 29, Email: "juliana.alves@email.com", Phone: "(11) 98765-4326"},
	{Name: "Roberto Lima", Age: 62, Email: "roberto.lima@email.com", Phone: "(11) 98765-4327"},
	{Name: "Fernanda Rocha", Age: 41, Email: "fernanda.rocha@email.com", Phone: "(11) 98765-4328"},
	{Name: "Lucas Martins", Age: 35, Email: "lucas.martins@email.com", Phone: "(11) 98765-4329"},
	{Name: "Patricia Souza", Age: 48, Email: "patricia.souza@email.com", Phone: "(11) 98765-4330"},
}

// seedVisits reference seedPatients by index.
var seedVisits = []seedVisit{
	{0, "2024-01-15", "Dr. Ana Silva", "Hypertension", "Blood pressure controlled. Continue medication."},
	{0, "2024-02-20", "Dr. Ana Silva", "General check-up", "Routine tests performed. Everything normal."},
	{0, "2024-03-10", "Dr. Carlos Mendes", "Back pain", "Physical therapy prescribed."},
	{1, "2024-01-10", "Dr. Ana Silva", "Flu", "Mild symptoms. Rest recommended."},
	{1, "2024-02-05", "Dr. Carlos Mendes", "Check-up", "Blood tests normal."},
	{2, "2024-01-20", "Dr. Carlos Mendes", "Sports injury", "Ankle sprain. Rest and ice."},
	{2, "2024-02-15", "Dr. Carlos Mendes", "Follow-up", "Significant improvement. Continue physical therapy."},
	{3, "2024-01-05", "Dr. Ana Silva", "Type 2 diabetes", "Blood sugar controlled. Maintain diet."},
	{3, "2024-02-12", "Dr. Ana Silva", "Follow-up", "Glucose tests within normal range."},
	{3, "2024-03-18", "Dr. Ana Silva", "Check-up", "Everything stable."},
	{4, "2024-01-25", "Dr. Carlos Mendes", "Headache", "Migraine. Medication prescribed."},
	{4, "2024-02-28", "Dr. Carlos Mendes", "Follow-up", "Symptoms improved."},
	{5, "2024-01-12", "Dr. Ana Silva", "Annual check-up", "Complete tests. Everything normal."},
	{6, "2024-01-08", "Dr. Carlos Mendes", "Arthritis", "Anti-inflammatory medication prescribed."},
	{6, "2024-02-10", "Dr. Carlos Mendes", "Follow-up", "Pain reduced. Continue treatment."},
	{6, "2024-03-20", "Dr. Ana Silva", "Check-up", "Condition stable."},
	{7, "2024-01-18", "Dr. Ana Silva", "Anxiety", "Referred to psychologist."},
	{7, "2024-02-22", "Dr. Ana Silva", "Follow-up", "Overall condition improved."},
	{8, "2024-01-30", "Dr. Carlos Mendes", "Knee injury", "Imaging exam requested."},
	{8, "2024-02-25", "Dr. Carlos Mendes", "Test result", "Minor injury. Conservative treatment."},
	{9, "2024-01-14", "Dr. Ana Silva", "Hypertension", "High blood pressure. Start medication."},
	{9, "2024-02-18", "Dr. Ana Silva", "Follow-up", "Blood pressure improved. Continue medication."},
	{9, "2024-03-15", "Dr. Ana Silva", "Check-up", "Blood pressure controlled."},
}

// Seed loads the demo patients and their consultations into an empty store.
// A store that already holds patients is left untouched.
func (s *Service) Seed(ctx context.Context) (*SeedResult, error) {
	n, err := s.patients.Count(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if n > 0 {
		return &SeedResult{Message: seedMessageSkipped}, nil
	}

	patients := make([]*Patient, len(seedPatients))
	for i := range seedPatients {
		p := seedPatients[i]
		patients[i] = &p
	}
	if err := s.patients.InsertMany(ctx, patients); err != nil {
		return nil, storeErr(fmt.Errorf("insert seed patients: %w", err))
	}

	consultations := make([]*Consultation, len(seedVisits))
	for i, v := range seedVisits {
		consultations[i] = &Consultation{
			PatientID: patients[v.patient].ID,
			Date:      v.date,
			Doctor:    v.doctor,
			Diagnosis: v.diagnosis,
			Notes:     v.notes,
		}
	}
	if err := s.consultations.InsertMany(ctx, consultations); err != nil {
		return nil, storeErr(fmt.Errorf("insert seed consultations: %w", err))
	}

	return &SeedResult{Message: seedMessageDone, PatientsInserted: len(patients)}, nil
}
