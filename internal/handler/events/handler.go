package events

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/broadcast"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/middleware"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	apperrors "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/errors"
)

// HeaderSubscriberID carries the id handed out on stream connect; room
// membership calls reference the stream through it.
const HeaderSubscriberID = "X-Subscriber-ID"

type Handler struct {
	hub *broadcast.Hub
}

func NewHandler(hub *broadcast.Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/events")
	{
		events.GET("", h.Stream)
		events.POST("/rooms/:patientId", h.JoinPatientRoom)
		events.DELETE("/rooms/:patientId", h.LeavePatientRoom)
	}
}

// Stream opens the per-client push channel as an SSE stream. The first frame
// announces the subscriber id; subsequent frames are the typed workflow
// events the actor is entitled to see. Disconnected clients get no backlog on
// reconnect and are expected to re-fetch current state.
func (h *Handler) Stream(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.Error(c, apperrors.Unauthenticated(errors.New("no actor in context")))
		return
	}

	sub, err := h.hub.Subscribe(c.Request.Context(), actor)
	if err != nil {
		handler.Error(c, apperrors.Internal(err))
		return
	}
	defer h.hub.Unsubscribe(sub.ID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent("connected", gin.H{"subscriberId": sub.ID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-sub.C:
			if !open {
				return false
			}
			var event model.Event
			if err := json.Unmarshal(msg, &event); err != nil {
				return true
			}
			c.SSEvent(string(event.Kind), event.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) JoinPatientRoom(c *gin.Context) {
	subID, patientID, err := h.roomParams(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	if err := h.hub.JoinPatientRoom(subID, patientID); err != nil {
		handler.Error(c, apperrors.NotFound("subscriber", err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("joined patient room"))
}

func (h *Handler) LeavePatientRoom(c *gin.Context) {
	subID, patientID, err := h.roomParams(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	if err := h.hub.LeavePatientRoom(subID, patientID); err != nil {
		handler.Error(c, apperrors.NotFound("subscriber", err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("left patient room"))
}

func (h *Handler) roomParams(c *gin.Context) (uuid.UUID, uuid.UUID, error) {
	subID, err := uuid.Parse(c.GetHeader(HeaderSubscriberID))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperrors.InvalidInput("missing or invalid subscriber id", err)
	}
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperrors.InvalidInput("invalid patient id", err)
	}
	return subID, patientID, nil
}
