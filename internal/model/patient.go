package model

import "github.com/google/uuid"

type PatientStatus string

const (
	PatientStatusAdmitted    PatientStatus = "admitted"
	PatientStatusDischarged  PatientStatus = "discharged"
	PatientStatusObservation PatientStatus = "under-observation"
)

type Patient struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Age           int           `json:"age"`
	Gender        string        `json:"gender"`
	BloodGroup    string        `json:"bloodGroup"`
	AdmissionDate string        `json:"admissionDate"`
	Condition     string        `json:"condition"`
	Status        PatientStatus `json:"status"`
}

// PatientSummary is the redacted shape returned to actors whose read scope is
// name-age only.
type PatientSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Age  int       `json:"age"`
}

func (p *Patient) Summary() *PatientSummary {
	return &PatientSummary{
		ID:   p.ID,
		Name: p.Name,
		Age:  p.Age,
	}
}

type CreatePatientRequest struct {
	Name       string `json:"name" binding:"required"`
	Age        int    `json:"age" binding:"required,gt=0"`
	Gender     string `json:"gender" binding:"required"`
	BloodGroup string `json:"bloodGroup"`
	Condition  string `json:"condition" binding:"required"`
	Status     string `json:"status" binding:"omitempty,oneof=admitted discharged under-observation"`
}
