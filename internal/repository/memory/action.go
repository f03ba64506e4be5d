package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/repository"
)

// ActionRepository is the in-memory clinical action collection.
type ActionRepository struct {
	mu      sync.RWMutex
	actions []*model.ClinicalAction
	byID    map[uuid.UUID]*model.ClinicalAction
}

func NewActionRepository() *ActionRepository {
	return &ActionRepository{
		byID: make(map[uuid.UUID]*model.ClinicalAction),
	}
}

func (r *ActionRepository) Create(ctx context.Context, action *model.ClinicalAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *action
	r.actions = append(r.actions, &stored)
	r.byID[stored.ID] = &stored
	return nil
}

func (r *ActionRepository) Get(ctx context.Context, id uuid.UUID) (*model.ClinicalAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *ActionRepository) List(ctx context.Context) ([]*model.ClinicalAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.ClinicalAction, 0, len(r.actions))
	for _, a := range r.actions {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ActionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ClinicalAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.ClinicalAction
	for _, a := range r.actions {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Update applies mutate under the write lock; the read-decide-write is atomic
// per record. mutate runs against a scratch copy that is committed only on
// success. UpdatedAt is refreshed on every successful mutation and never
// moves backwards.
func (r *ActionRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*model.ClinicalAction) error) (*model.ClinicalAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	work := *a
	if err := mutate(&work); err != nil {
		return nil, err
	}

	now := time.Now()
	if now.After(work.UpdatedAt) {
		work.UpdatedAt = now
	}

	*a = work
	out := work
	return &out, nil
}
