package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	patientsCollection      = "patients"
	consultationsCollection = "consultations"
)

// mongoNow truncates to the millisecond precision BSON dates keep.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// -- Patients --

type patientDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Age       int           `bson:"age"`
	Email     string        `bson:"email"`
	Phone     string        `bson:"phone"`
	Status    *string       `bson:"status,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func newPatientDoc(p *Patient, now time.Time) *patientDoc {
	return &patientDoc{
		ID:        bson.NewObjectID(),
		Name:      p.Name,
		Age:       p.Age,
		Email:     p.Email,
		Phone:     p.Phone,
		Status:    statusArg(p.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *patientDoc) toPatient() *Patient {
	p := &Patient{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Age:       d.Age,
		Email:     d.Email,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Status != nil {
		s := Status(*d.Status)
		p.Status = &s
	}
	return p
}

func parseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

type patientRepoMongo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewPatientRepoMongo(db *mongo.Database) PatientRepository {
	return &patientRepoMongo{coll: db.Collection(patientsCollection), now: mongoNow}
}

func (r *patientRepoMongo) Create(ctx context.Context, p *Patient) error {
	doc := newPatientDoc(p, r.now())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = doc.ID.Hex(), doc.CreatedAt, doc.UpdatedAt
	return nil
}

func (r *patientRepoMongo) InsertMany(ctx context.Context, ps []*Patient) error {
	if len(ps) == 0 {
		return nil
	}
	now := r.now()
	docs := make([]*patientDoc, len(ps))
	for i, p := range ps {
		docs[i] = newPatientDoc(p, now)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert patients: %w", err)
	}
	for i, p := range ps {
		p.ID, p.CreatedAt, p.UpdatedAt = docs[i].ID.Hex(), now, now
	}
	return nil
}

func (r *patientRepoMongo) GetByID(ctx context.Context, id string) (*Patient, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc patientDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toPatient(), nil
}

func (r *patientRepoMongo) UpdateNameAge(ctx context.Context, id string, u PatientUpdate) (*Patient, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	// Dates keep millisecond precision, so the stamp is pushed past the
	// previous one when both fall in the same millisecond.
	update := bson.A{bson.M{"$set": bson.M{
		"name": bson.M{"$literal": u.Name},
		"age":  u.Age,
		"updatedAt": bson.M{"$max": bson.A{
			r.now(),
			bson.M{"$add": bson.A{"$updatedAt", 1}},
		}},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc patientDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toPatient(), nil
}

func (r *patientRepoMongo) List(ctx context.Context) ([]*Patient, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []patientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]*Patient, len(docs))
	for i := range docs {
		items[i] = docs[i].toPatient()
	}
	return items, nil
}

func (r *patientRepoMongo) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// -- Consultations --

type consultationDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	PatientID string        `bson:"patientId"`
	Date      string        `bson:"date"`
	Doctor    string        `bson:"doctor"`
	Diagnosis string        `bson:"diagnosis"`
	Notes     string        `bson:"notes"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func newConsultationDoc(c *Consultation, now time.Time) *consultationDoc {
	return &consultationDoc{
		ID:        bson.NewObjectID(),
		PatientID: c.PatientID,
		Date:      c.Date,
		Doctor:    c.Doctor,
		Diagnosis: c.Diagnosis,
		Notes:     c.Notes,
		CreatedAt: now,
	}
}

func (d *consultationDoc) toConsultation() *Consultation {
	return &Consultation{
		ID:        d.ID.Hex(),
		PatientID: d.PatientID,
		Date:      d.Date,
		Doctor:    d.Doctor,
		Diagnosis: d.Diagnosis,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
	}
}

type consultationRepoMongo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewConsultationRepoMongo(db *mongo.Database) ConsultationRepository {
	return &consultationRepoMongo{coll: db.Collection(consultationsCollection), now: mongoNow}
}

func (r *consultationRepoMongo) Create(ctx context.Context, c *Consultation) error {
	doc := newConsultationDoc(c, r.now())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	c.ID, c.CreatedAt = doc.ID.Hex(), doc.CreatedAt
	return nil
}

func (r *consultationRepoMongo) InsertMany(ctx context.Context, cs []*Consultation) error {
	if len(cs) == 0 {
		return nil
	}
	now := r.now()
	docs := make([]*consultationDoc, len(cs))
	for i, c := range cs {
		docs[i] = newConsultationDoc(c, now)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert consultations: %w", err)
	}
	for i, c := range cs {
		c.ID, c.CreatedAt = docs[i].ID.Hex(), now
	}
	return nil
}

// ListByPatient sorts in Go: dates are stored as strings and a lexical sort
// misorders non-padded values.
func (r *consultationRepoMongo) ListByPatient(ctx context.Context, patientID string) ([]*Consultation, error) {
	cur, err := r.coll.Find(ctx, bson.M{"patientId": patientID})
	if err != nil {
		return nil, err
	}
	var docs []consultationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]*Consultation, len(docs))
	for i := range docs {
		items[i] = docs[i].toConsultation()
	}
	SortByDateDesc(items)
	return items, nil
}

func (r *consultationRepoMongo) ListVisits(ctx context.Context) ([]Visit, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0, "patientId": 1, "date": 1})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var visits []Visit
	if err := cur.All(ctx, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// EnsureMongoIndexes creates the index backing per-patient history reads.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(consultationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create consultations index: %w", err)
	}
	return nil
}
