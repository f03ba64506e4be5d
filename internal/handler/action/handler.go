package action

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
	actions := r.Group("/clinical-actions")
	{
		actions.GET("", h.ListActions)
		actions.GET("/patient/:patientId", h.ListPatientActions)
		actions.POST("", h.CreateAction)
		actions.PUT("/:id/status", h.UpdateActionStatus)
		actions.PUT("/:id", h.UpdateAction)
	}
}

func (h *Handler) ListActions(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	actions, err := h.service.ListActions(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.policy.VisibleActions(actor, actions)))
}

// ListPatientActions applies the same scope as the flat list; a pharmacy
// subscriber browsing a patient still sees only the pharmacy queue.
func (h *Handler) ListPatientActions(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid patient id", err))
		return
	}

	actions, err := h.service.ActionsForPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.policy.VisibleActions(actor, actions)))
}

func (h *Handler) CreateAction(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	if !h.policy.CanCreateAction(actor) {
		handler.Error(c, apperrors.Forbidden("missing create-action permission"))
		return
	}

	var req model.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput(err.Error(), err))
		return
	}

	action, err := h.service.CreateAction(c.Request.Context(), actor, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(action))
}

func (h *Handler) UpdateActionStatus(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	if !h.policy.CanUpdateActions(actor) {
		handler.Error(c, apperrors.Forbidden("missing update-actions permission"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid action id", err))
		return
	}

	var req model.UpdateActionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput(err.Error(), err))
		return
	}

	action, err := h.service.UpdateActionStatus(c.Request.Context(), actor, id, model.ActionStatus(req.Status))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(action))
}

// UpdateAction is the broad field-merge path. It carries the same
// department scoping as the status path.
func (h *Handler) UpdateAction(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	if !h.policy.CanUpdateActions(actor) {
		handler.Error(c, apperrors.Forbidden("missing update-actions permission"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid action id", err))
		return
	}

	var req model.UpdateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput(err.Error(), err))
		return
	}

	action, err := h.service.UpdateActionFields(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(action))
}
