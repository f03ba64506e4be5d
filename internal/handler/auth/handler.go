package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/auth"
	apperrors "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/errors"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput("username and password are required", err))
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	h.svc.Logout(c.Request.Context(), token)

	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}
