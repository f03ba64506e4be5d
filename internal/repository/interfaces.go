package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context) ([]*model.Patient, error)
}

type ActionRepository interface {
	Create(ctx context.Context, action *model.ClinicalAction) error
	Get(ctx context.Context, id uuid.UUID) (*model.ClinicalAction, error)
	List(ctx context.Context) ([]*model.ClinicalAction, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ClinicalAction, error)
	// Update runs mutate on the stored record under the store's write lock,
	// so a concurrent read-modify-write on the same action cannot interleave.
	// Returning an error from mutate aborts the update.
	Update(ctx context.Context, id uuid.UUID, mutate func(*model.ClinicalAction) error) (*model.ClinicalAction, error)
}
