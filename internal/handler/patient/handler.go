package patient

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/middleware"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/policy"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/workflow"
	apperrors "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/errors"
)

type Handler struct {
	service *workflow.Service
	policy  *policy.Service
}

func NewHandler(service *workflow.Service, policySvc *policy.Service) *Handler {
	return &Handler{
		service: service,
		policy:  policySvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.POST("", h.CreatePatient)
	}
}

// ListPatients returns the patient collection filtered and redacted per the
// actor's read scope. Redaction happens here at the boundary; the store always
// returns full records.
func (h *Handler) ListPatients(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	patients, err := h.service.ListPatients(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	switch h.policy.PatientScope(actor) {
	case policy.ScopeAllPatients:
		c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
	case policy.ScopeAssignedPatients:
		actions, err := h.service.ListActions(c.Request.Context())
		if err != nil {
			handler.Error(c, err)
			return
		}
		assigned := h.policy.AssignedPatientIDs(actor, actions)
		visible := make([]*model.Patient, 0, len(patients))
		for _, p := range patients {
			if _, ok := assigned[p.ID.String()]; ok {
				visible = append(visible, p)
			}
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(visible))
	default:
		summaries := make([]*model.PatientSummary, 0, len(patients))
		for _, p := range patients {
			summaries = append(summaries, p.Summary())
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(summaries))
	}
}

func (h *Handler) GetPatient(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid patient id", err))
		return
	}

	patient, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	switch h.policy.PatientScope(actor) {
	case policy.ScopeAllPatients:
		c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
	case policy.ScopeAssignedPatients:
		actions, err := h.service.ActionsForPatient(c.Request.Context(), id)
		if err != nil {
			handler.Error(c, err)
			return
		}
		for _, a := range actions {
			if actor.InDepartment(a.AssignedTo) {
				c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
				return
			}
		}
		// out-of-scope patients are indistinguishable from absent ones
		handler.Error(c, apperrors.NotFound("patient", nil))
	default:
		c.JSON(http.StatusOK, handler.NewSuccessResponse(patient.Summary()))
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	if !h.policy.CanCreatePatient(actor) {
		handler.Error(c, apperrors.Forbidden("missing create-patient permission"))
		return
	}

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput(err.Error(), err))
		return
	}

	patient, err := h.service.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}
