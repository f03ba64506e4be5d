package department

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/departments", h.ListDepartments)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.Departments()))
}
