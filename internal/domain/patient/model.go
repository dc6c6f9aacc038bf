package patient

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Status is an externally managed patient status. It is stored as given and
// never derived from consultation history.
type Status string

const (
	StatusActive    Status = "active"
	StatusOngoing   Status = "ongoing"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOngoing, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

// MaxAge bounds accepted ages well inside every backend's integer column.
const MaxAge = 150

const ageMessage = "must be a whole number between 0 and 150"

func validAge(age int) bool {
	return age >= 0 && age <= MaxAge
}

// Patient is a person tracked by the clinic. LastVisit is derived on list
// reads and is never stored.
type Patient struct {
	ID        string    `db:"id" json:"_id"`
	Name      string    `db:"name" json:"name"`
	Age       int       `db:"age" json:"age"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Status    *Status   `db:"status" json:"status,omitempty"`
	LastVisit *string   `db:"-" json:"lastVisit,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks the fields a caller supplies on create.
func (p *Patient) Validate() error {
	var issues []FieldIssue
	if strings.TrimSpace(p.Name) == "" {
		issues = append(issues, FieldIssue{Field: "name", Message: "is required"})
	}
	if !validAge(p.Age) {
		issues = append(issues, FieldIssue{Field: "age", Message: ageMessage})
	}
	if p.Status != nil && !p.Status.Valid() {
		issues = append(issues, FieldIssue{Field: "status", Message: "must be one of active, ongoing, overdue, completed"})
	}
	return newValidationError(issues)
}

// PatientUpdate carries the only two fields a user may change.
type PatientUpdate struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func (u PatientUpdate) Validate() error {
	var issues []FieldIssue
	if strings.TrimSpace(u.Name) == "" {
		issues = append(issues, FieldIssue{Field: "name", Message: "is required"})
	}
	if !validAge(u.Age) {
		issues = append(issues, FieldIssue{Field: "age", Message: ageMessage})
	}
	return newValidationError(issues)
}

// ParsePatientUpdate builds an update from a raw request, rejecting an age
// that is missing or not a whole number.
func ParsePatientUpdate(name string, rawAge json.RawMessage) (PatientUpdate, error) {
	var issues []FieldIssue
	if strings.TrimSpace(name) == "" {
		issues = append(issues, FieldIssue{Field: "name", Message: "is required"})
	}
	age, err := strconv.Atoi(strings.TrimSpace(string(rawAge)))
	if err != nil || !validAge(age) {
		issues = append(issues, FieldIssue{Field: "age", Message: ageMessage})
	}
	if err := newValidationError(issues); err != nil {
		return PatientUpdate{}, err
	}
	return PatientUpdate{Name: name, Age: age}, nil
}

// Consultation is a single recorded visit. PatientID is a plain back-reference;
// the referenced patient may not exist.
type Consultation struct {
	ID        string    `db:"id" json:"_id"`
	PatientID string    `db:"patient_id" json:"patientId"`
	Date      string    `db:"date" json:"date"`
	Doctor    string    `db:"doctor" json:"doctor"`
	Diagnosis string    `db:"diagnosis" json:"diagnosis"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Visit is the projection of a consultation used to derive last-visit dates.
type Visit struct {
	PatientID string `db:"patient_id" bson:"patientId"`
	Date      string `db:"date" bson:"date"`
}
