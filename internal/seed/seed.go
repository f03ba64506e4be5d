package seed

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/repository"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/rbac"
)

// Users registers the demo accounts, one per role.
func Users(registry *rbac.Service) error {
	users := []*model.User{
		{Username: "admin", Password: "admin123", Name: "System Admin", Role: model.RoleAdmin},
		{Username: "drwilson", Password: "doctor123", Name: "Dr. Wilson", Role: model.RoleDoctor},
		{Username: "nurse.joy", Password: "nurse123", Name: "Nurse Joy", Role: model.RoleNurse},
		{Username: "pharmacy", Password: "pharmacy123", Name: "Pharmacy Desk", Role: model.RolePharmacy},
		{Username: "diagnostics", Password: "diagnostics123", Name: "Diagnostics Desk", Role: model.RoleDiagnostics},
		{Username: "laboratory", Password: "laboratory123", Name: "Laboratory Desk", Role: model.RoleLaboratory},
		{Username: "radiology", Password: "radiology123", Name: "Radiology Desk", Role: model.RoleRadiology},
	}
	for _, u := range users {
		if err := registry.RegisterUser(u); err != nil {
			return err
		}
	}
	return nil
}

// SampleData loads the demo patients and clinical actions.
func SampleData(ctx context.Context, patients repository.PatientRepository, actions repository.ActionRepository) error {
	samplePatients := []*model.Patient{
		{
			ID:            uuid.New(),
			Name:          "John Smith",
			Age:           45,
			Gender:        "Male",
			BloodGroup:    "O+",
			AdmissionDate: "2024-01-15",
			Condition:     "Chest Pain",
			Status:        model.PatientStatusAdmitted,
		},
		{
			ID:            uuid.New(),
			Name:          "Sarah Johnson",
			Age:           32,
			Gender:        "Female",
			BloodGroup:    "A+",
			AdmissionDate: "2024-01-16",
			Condition:     "Fractured Leg",
			Status:        model.PatientStatusAdmitted,
		},
		{
			ID:            uuid.New(),
			Name:          "Michael Chen",
			Age:           58,
			Gender:        "Male",
			BloodGroup:    "B+",
			AdmissionDate: "2024-01-14",
			Condition:     "Diabetes Management",
			Status:        model.PatientStatusAdmitted,
		},
	}
	for _, p := range samplePatients {
		if err := patients.Create(ctx, p); err != nil {
			return err
		}
	}

	now := time.Now()
	sampleActions := []*model.ClinicalAction{
		{
			ID:                    uuid.New(),
			PatientID:             samplePatients[0].ID,
			Type:                  model.ActionTypePrescription,
			Title:                 "Pain Medication",
			Description:           "Prescribe ibuprofen 400mg every 6 hours for chest pain",
			InitiatedBy:           "Dr. Wilson",
			InitiatedByDepartment: model.DepartmentDoctor,
			AssignedTo:            model.DepartmentPharmacy,
			Status:                model.ActionStatusPending,
			Priority:              model.ActionPriorityMedium,
			CreatedAt:             now,
			UpdatedAt:             now,
		},
		{
			ID:                    uuid.New(),
			PatientID:             samplePatients[1].ID,
			Type:                  model.ActionTypeDiagnostic,
			Title:                 "X-Ray Imaging",
			Description:           "Perform leg X-ray to assess fracture severity",
			InitiatedBy:           "Dr. Brown",
			InitiatedByDepartment: model.DepartmentDoctor,
			AssignedTo:            model.DepartmentRadiology,
			Status:                model.ActionStatusInProgress,
			Priority:              model.ActionPriorityHigh,
			CreatedAt:             now,
			UpdatedAt:             now,
		},
	}
	for _, a := range sampleActions {
		if err := actions.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
