package model

import (
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionTypePrescription ActionType = "prescription"
	ActionTypeDiagnostic   ActionType = "diagnostic"
	ActionTypeReferral     ActionType = "referral"
)

type ActionStatus string

const (
	ActionStatusPending    ActionStatus = "pending"
	ActionStatusInProgress ActionStatus = "in-progress"
	ActionStatusCompleted  ActionStatus = "completed"
	ActionStatusCancelled  ActionStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s ActionStatus) Terminal() bool {
	return s == ActionStatusCompleted || s == ActionStatusCancelled
}

type ActionPriority string

const (
	ActionPriorityLow    ActionPriority = "low"
	ActionPriorityMedium ActionPriority = "medium"
	ActionPriorityHigh   ActionPriority = "high"
)

// ClinicalAction is a unit-of-work record routed between departments, always
// tied to one patient.
type ClinicalAction struct {
	ID                    uuid.UUID      `json:"id"`
	PatientID             uuid.UUID      `json:"patientId"`
	Type                  ActionType     `json:"type"`
	Title                 string         `json:"title"`
	Description           string         `json:"description"`
	InitiatedBy           string         `json:"initiatedBy"`
	InitiatedByDepartment Department     `json:"initiatedByDepartment"`
	AssignedTo            Department     `json:"assignedTo"`
	Status                ActionStatus   `json:"status"`
	Priority              ActionPriority `json:"priority"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

type CreateActionRequest struct {
	PatientID             string `json:"patientId" binding:"required,uuid"`
	Type                  string `json:"type" binding:"required,oneof=prescription diagnostic referral"`
	Title                 string `json:"title" binding:"required"`
	Description           string `json:"description" binding:"required"`
	InitiatedBy           string `json:"initiatedBy"`
	InitiatedByDepartment string `json:"initiatedByDepartment" binding:"omitempty,department"`
	AssignedTo            string `json:"assignedTo" binding:"required,department"`
	Priority              string `json:"priority" binding:"omitempty,oneof=low medium high"`
	// Accepted for wire compatibility; new actions always start pending.
	Status string `json:"status"`
}

type UpdateActionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in-progress completed cancelled"`
}

// UpdateActionRequest is the broad field-merge update. Absent fields are left
// untouched.
type UpdateActionRequest struct {
	Type        *string `json:"type" binding:"omitempty,oneof=prescription diagnostic referral"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo" binding:"omitempty,department"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in-progress completed cancelled"`
}
