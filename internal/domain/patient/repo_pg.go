package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docapp/docapp/pkg/display"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// -- Patients --

type patientRepoPG struct{ db queryable }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{db: pool}
}

const patientCols = `id, name, age, email, phone, status, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var (
		p      Patient
		id     uuid.UUID
		status *string
	)
	if err := row.Scan(&id, &p.Name, &p.Age, &p.Email, &p.Phone, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.ID = id.String()
	if status != nil {
		s := Status(*status)
		p.Status = &s
	}
	return &p, nil
}

func statusArg(s *Status) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func parsePatientID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return uid, nil
}

const insertPatientSQL = `
	INSERT INTO patients (id, name, age, email, phone, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at`

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	id := uuid.New()
	err := r.db.QueryRow(ctx, insertPatientSQL,
		id, p.Name, p.Age, p.Email, p.Phone, statusArg(p.Status)).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	p.ID = id.String()
	return nil
}

func (r *patientRepoPG) InsertMany(ctx context.Context, ps []*Patient) error {
	if len(ps) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	ids := make([]uuid.UUID, len(ps))
	for i, p := range ps {
		ids[i] = uuid.New()
		batch.Queue(insertPatientSQL, ids[i], p.Name, p.Age, p.Email, p.Phone, statusArg(p.Status))
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for i, p := range ps {
		if err := br.QueryRow().Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("insert patient %d: %w", i, err)
		}
		p.ID = ids[i].String()
	}
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	uid, err := parsePatientID(id)
	if err != nil {
		return nil, err
	}
	return scanPatient(r.db.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, uid))
}

func (r *patientRepoPG) UpdateNameAge(ctx context.Context, id string, u PatientUpdate) (*Patient, error) {
	uid, err := parsePatientID(id)
	if err != nil {
		return nil, err
	}
	return scanPatient(r.db.QueryRow(ctx, `
		UPDATE patients SET name = $2, age = $3,
			updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
		WHERE id = $1
		RETURNING `+patientCols, uid, u.Name, u.Age))
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.db.Query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *patientRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}

// -- Consultations --

type consultationRepoPG struct{ db queryable }

func NewConsultationRepoPG(pool *pgxpool.Pool) ConsultationRepository {
	return &consultationRepoPG{db: pool}
}

const consultationCols = `id, patient_id, date, doctor, diagnosis, notes, created_at`

const insertConsultationSQL = `
	INSERT INTO consultations (id, patient_id, date, doctor, diagnosis, notes)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at`

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var (
		c    Consultation
		id   uuid.UUID
		date time.Time
	)
	if err := row.Scan(&id, &c.PatientID, &date, &c.Doctor, &c.Diagnosis, &c.Notes, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ID = id.String()
	c.Date = date.Format(display.DateLayout)
	return &c, nil
}

func consultationDate(c *Consultation) (time.Time, error) {
	d, ok := display.ParseDate(c.Date)
	if !ok {
		return time.Time{}, fmt.Errorf("consultation date %q is not a calendar date", c.Date)
	}
	return d, nil
}

func (r *consultationRepoPG) Create(ctx context.Context, c *Consultation) error {
	d, err := consultationDate(c)
	if err != nil {
		return err
	}
	id := uuid.New()
	err = r.db.QueryRow(ctx, insertConsultationSQL,
		id, c.PatientID, d, c.Doctor, c.Diagnosis, c.Notes).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	c.ID = id.String()
	return nil
}

func (r *consultationRepoPG) InsertMany(ctx context.Context, cs []*Consultation) error {
	if len(cs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	ids := make([]uuid.UUID, len(cs))
	for i, c := range cs {
		d, err := consultationDate(c)
		if err != nil {
			return err
		}
		ids[i] = uuid.New()
		batch.Queue(insertConsultationSQL, ids[i], c.PatientID, d, c.Doctor, c.Diagnosis, c.Notes)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for i, c := range cs {
		if err := br.QueryRow().Scan(&c.CreatedAt); err != nil {
			return fmt.Errorf("insert consultation %d: %w", i, err)
		}
		c.ID = ids[i].String()
	}
	return nil
}

func (r *consultationRepoPG) ListByPatient(ctx context.Context, patientID string) ([]*Consultation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+consultationCols+` FROM consultations
		WHERE patient_id = $1 ORDER BY date DESC, created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *consultationRepoPG) ListVisits(ctx context.Context) ([]Visit, error) {
	rows, err := r.db.Query(ctx, `SELECT patient_id, date FROM consultations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var visits []Visit
	for rows.Next() {
		var (
			v    Visit
			date time.Time
		)
		if err := rows.Scan(&v.PatientID, &date); err != nil {
			return nil, err
		}
		v.Date = date.Format(display.DateLayout)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
