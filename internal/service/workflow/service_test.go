package workflow

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/repository/memory"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/policy"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/rbac"
	apperrors "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/errors"
)

type recordingBroadcaster struct {
	mu             sync.Mutex
	patientCreated []*model.Patient
	actionCreated  []*model.ClinicalAction
	actionUpdated  []*model.ClinicalAction
}

func (b *recordingBroadcaster) PublishPatientCreated(ctx context.Context, p *model.Patient) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.patientCreated = append(b.patientCreated, p)
}

func (b *recordingBroadcaster) PublishActionCreated(ctx context.Context, a *model.ClinicalAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actionCreated = append(b.actionCreated, a)
}

func (b *recordingBroadcaster) PublishActionUpdated(ctx context.Context, a *model.ClinicalAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actionUpdated = append(b.actionUpdated, a)
}

type fixture struct {
	svc       *Service
	registry  *rbac.Service
	broadcast *recordingBroadcaster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := rbac.NewService()
	broadcast := &recordingBroadcaster{}
	svc := NewService(
		memory.NewPatientRepository(),
		memory.NewActionRepository(),
		policy.NewService(registry),
		broadcast,
	)
	return &fixture{svc: svc, registry: registry, broadcast: broadcast}
}

func (f *fixture) actor(t *testing.T, role model.Role) *model.Actor {
	t.Helper()
	actor, err := f.registry.ActorFor(&model.User{
		Username: string(role),
		Name:     "Test " + string(role),
		Role:     role,
	})
	require.NoError(t, err)
	return actor
}

func (f *fixture) admitPatient(t *testing.T) *model.Patient {
	t.Helper()
	patient, err := f.svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		Name:      "John Smith",
		Age:       45,
		Gender:    "male",
		Condition: "Hypertension",
	})
	require.NoError(t, err)
	return patient
}

func TestCreatePatientDefaults(t *testing.T) {
	f := newFixture(t)

	patient := f.admitPatient(t)
	assert.NotEqual(t, uuid.Nil, patient.ID)
	assert.Equal(t, defaultBloodGroup, patient.BloodGroup)
	assert.Equal(t, model.PatientStatusAdmitted, patient.Status)
	assert.NotEmpty(t, patient.AdmissionDate)

	require.Len(t, f.broadcast.patientCreated, 1)
	assert.Equal(t, patient.ID, f.broadcast.patientCreated[0].ID)

	got, err := f.svc.GetPatient(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", got.Name)
}

func TestGetPatientNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetPatient(context.Background(), uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestCreateActionForcesPending(t *testing.T) {
	f := newFixture(t)
	patient := f.admitPatient(t)
	doctor := f.actor(t, model.RoleDoctor)

	action, err := f.svc.CreateAction(context.Background(), doctor, &model.CreateActionRequest{
		PatientID:   patient.ID.String(),
		Type:        "prescription",
		Title:       "Pain Medication",
		Description: "400mg ibuprofen",
		AssignedTo:  "Pharmacy",
		Status:      "completed", // must be ignored
	})
	require.NoError(t, err)
	assert.Equal(t, model.ActionStatusPending, action.Status)
	assert.Equal(t, model.DepartmentPharmacy, action.AssignedTo)
	assert.Equal(t, model.ActionPriorityMedium, action.Priority)
	assert.Equal(t, doctor.Name, action.InitiatedBy)
	assert.Equal(t, model.DepartmentDoctor, action.InitiatedByDepartment)

	require.Len(t, f.broadcast.actionCreated, 1)
}

func TestCreateActionPatientMustExist(t *testing.T) {
	f := newFixture(t)
	doctor := f.actor(t, model.RoleDoctor)

	_, err := f.svc.CreateAction(context.Background(), doctor, &model.CreateActionRequest{
		PatientID:   uuid.New().String(),
		Type:        "diagnostic",
		Title:       "X-Ray",
		Description: "Chest X-Ray",
		AssignedTo:  "Radiology",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
	assert.Empty(t, f.broadcast.actionCreated)
}

func TestCreateActionUnknownDepartment(t *testing.T) {
	f := newFixture(t)
	patient := f.admitPatient(t)
	doctor := f.actor(t, model.RoleDoctor)

	_, err := f.svc.CreateAction(context.Background(), doctor, &model.CreateActionRequest{
		PatientID:   patient.ID.String(),
		Type:        "referral",
		Title:       "Specialist",
		Description: "Cardiology referral",
		AssignedTo:  "Cardiology",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
}

func TestUpdateActionStatus(t *testing.T) {
	f := newFixture(t)
	patient := f.admitPatient(t)
	doctor := f.actor(t, model.RoleDoctor)
	pharmacy := f.actor(t, model.RolePharmacy)

	action, err := f.svc.CreateAction(context.Background(), doctor, &model.CreateActionRequest{
		PatientID:   patient.ID.String(),
		Type:        "prescription",
		Title:       "Pain Medication",
		Description: "400mg ibuprofen",
		AssignedTo:  "Pharmacy",
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateActionStatus(context.Background(), pharmacy, action.ID, model.ActionStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.ActionStatusInProgress, updated.Status)
	require.Len(t, f.broadcast.actionUpdated, 1)

	_, err = f.svc.UpdateActionStatus(context.Background(), pharmacy, action.ID, model.ActionStatusPending)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput), "no way back to pending")
	assert.Len(t, f.broadcast.actionUpdated, 1, "rejected transition must not broadcast")
}

func TestUpdateActionStatusDepartmentMismatch(t *testing.T) {
	f := newFixture(t)
	patient := f.admitPatient(t)
	doctor := f.actor(t, model.RoleDoctor)
	radiology := f.actor(t, model.RoleRadiology)

	action, err := f.svc.CreateAction(context.Background(), doctor, &model.CreateActionRequest{
		PatientID:   patient.ID.String(),
		Type:        "prescription",
		Title:       "Pain Medication",
		Description: "400mg ibuprofen",
		AssignedTo:  "Pharmacy",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateActionStatus(context.Background(), radiology, action.ID, model.ActionStatusInProgress)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	got, err := f.svc.actions.Get(context.Background(), action.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActionStatusPending, got.Status, "denied update must leave the record untouched")
	assert.Empty(t, f.broadcast.actionUpdated)
}

func TestUpdateActionStatusTerminalFrozen(t *testing.T) {
	f := newFixture(t)
	patient := f.admitPatient(t)
	doctor := f.actor(t, model.RoleDoctor)

	action, err := f.svc.CreateAction(context.Background(), doctor, &model.CreateActionRequest{
		PatientID:   patient.ID.String(),
		Type:        "diagnostic",
		Title:       "Blood Panel",
		Description: "CBC",
		AssignedTo:  "Laboratory",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateActionStatus(context.Background(), doctor, action.ID, model.ActionStatusCompleted)
	require.NoError(t, err)

	_, err = f.svc.UpdateActionStatus(context.Background(), doctor, action.ID, model.ActionStatusInProgress)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
}

func TestUpdateActionStatusNotFound(t *testing.T) {
	f := newFixture(t)
	doctor := f.actor(t, model.RoleDoctor)

	_, err := f.svc.UpdateActionStatus(context.Background(), doctor, uuid.New(), model.ActionStatusInProgress)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestUpdateActionFields(t *testing.T) {
	f := newFixture(t)
	patient := f.admitPatient(t)
	doctor := f.actor(t, model.RoleDoctor)

	action, err := f.svc.CreateAction(context.Background(), doctor, &model.CreateActionRequest{
		PatientID:   patient.ID.String(),
		Type:        "diagnostic",
		Title:       "X-Ray",
		Description: "Chest X-Ray",
		AssignedTo:  "Radiology",
	})
	require.NoError(t, err)

	title := "X-Ray Imaging"
	priority := "high"
	status := "in-progress"
	updated, err := f.svc.UpdateActionFields(context.Background(), doctor, action.ID, &model.UpdateActionRequest{
		Title:    &title,
		Priority: &priority,
		Status:   &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "X-Ray Imaging", updated.Title)
	assert.Equal(t, model.ActionPriorityHigh, updated.Priority)
	assert.Equal(t, model.ActionStatusInProgress, updated.Status)
	assert.Equal(t, "Chest X-Ray", updated.Description, "absent fields stay untouched")

	// department scoping applies to the broad update path too
	pharmacy := f.actor(t, model.RolePharmacy)
	_, err = f.svc.UpdateActionFields(context.Background(), pharmacy, action.ID, &model.UpdateActionRequest{Title: &title})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestListActionsAndActionsForPatient(t *testing.T) {
	f := newFixture(t)
	doctor := f.actor(t, model.RoleDoctor)
	patientA := f.admitPatient(t)
	patientB := f.admitPatient(t)

	for _, p := range []*model.Patient{patientA, patientA, patientB} {
		_, err := f.svc.CreateAction(context.Background(), doctor, &model.CreateActionRequest{
			PatientID:   p.ID.String(),
			Type:        "prescription",
			Title:       "Med",
			Description: "Dose",
			AssignedTo:  "Pharmacy",
		})
		require.NoError(t, err)
	}

	all, err := f.svc.ListActions(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forA, err := f.svc.ActionsForPatient(context.Background(), patientA.ID)
	require.NoError(t, err)
	assert.Len(t, forA, 2)
}
