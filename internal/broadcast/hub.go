package broadcast

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/policy"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/messaging"
)

// Subscriber is one connected client. Events arrive on C as JSON-encoded
// model.Event envelopes; a subscriber that falls behind loses events rather
// than stalling anyone (delivery is at-most-once, no backlog on reconnect).
type Subscriber struct {
	ID      uuid.UUID
	Actor   *model.Actor
	C       <-chan []byte
	channel string
	rooms   map[uuid.UUID]struct{}
	cancel  context.CancelFunc
}

// Hub tracks connected subscribers and fans mutations out to the ones
// entitled to see them. Delivery goes through the messaging broker, one
// channel per subscriber.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*Subscriber
	broker messaging.Broker
	policy *policy.Service
	logger *zerolog.Logger
}

func NewHub(broker messaging.Broker, policySvc *policy.Service, logger *zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[uuid.UUID]*Subscriber),
		broker: broker,
		policy: policySvc,
		logger: logger,
	}
}

// Subscribe registers a connected actor and opens its delivery channel.
func (h *Hub) Subscribe(ctx context.Context, actor *model.Actor) (*Subscriber, error) {
	id := uuid.New()
	channel := fmt.Sprintf("subscriber:%s", id)

	subCtx, cancel := context.WithCancel(ctx)
	ch, err := h.broker.Subscribe(subCtx, channel)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open subscriber channel: %w", err)
	}

	sub := &Subscriber{
		ID:      id,
		Actor:   actor,
		C:       ch,
		channel: channel,
		rooms:   make(map[uuid.UUID]struct{}),
		cancel:  cancel,
	}

	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()

	h.logger.Debug().
		Str("subscriber_id", id.String()).
		Str("role", string(actor.Role)).
		Msg("subscriber connected")
	return sub, nil
}

// Unsubscribe drops the subscriber and closes its channel.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if ok {
		sub.cancel()
		h.logger.Debug().Str("subscriber_id", id.String()).Msg("subscriber disconnected")
	}
}

// JoinPatientRoom scopes the subscriber's action events to specific patients.
// A subscriber in no rooms receives everything its role admits.
func (h *Hub) JoinPatientRoom(subscriberID, patientID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[subscriberID]
	if !ok {
		return fmt.Errorf("unknown subscriber: %s", subscriberID)
	}
	sub.rooms[patientID] = struct{}{}
	return nil
}

func (h *Hub) LeavePatientRoom(subscriberID, patientID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[subscriberID]
	if !ok {
		return fmt.Errorf("unknown subscriber: %s", subscriberID)
	}
	delete(sub.rooms, patientID)
	return nil
}

// PublishPatientCreated fans a new patient out, aligned with read scoping:
// full-view subscribers get the record, name-age subscribers get the redacted
// summary, and assigned-only subscribers are skipped since a fresh patient has
// no actions routed to any department yet.
func (h *Hub) PublishPatientCreated(ctx context.Context, patient *model.Patient) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		var payload interface{}
		switch h.policy.PatientScope(sub.Actor) {
		case policy.ScopeAllPatients:
			payload = patient
		case policy.ScopeNameAgeOnly:
			payload = patient.Summary()
		default:
			continue
		}
		h.deliver(ctx, sub, &model.Event{Kind: model.EventPatientCreated, Payload: payload})
	}
}

// PublishActionCreated fans a new action out to subscribers whose action scope
// admits it.
func (h *Hub) PublishActionCreated(ctx context.Context, action *model.ClinicalAction) {
	h.publishAction(ctx, model.EventActionCreated, action)
}

// PublishActionUpdated fans an action mutation out to subscribers whose action
// scope admits it.
func (h *Hub) PublishActionUpdated(ctx context.Context, action *model.ClinicalAction) {
	h.publishAction(ctx, model.EventActionUpdated, action)
}

// publishAction holds the read lock across the fan-out so room membership
// stays consistent with joins and leaves; delivery itself happens off-lock in
// per-subscriber goroutines.
func (h *Hub) publishAction(ctx context.Context, kind model.EventKind, action *model.ClinicalAction) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !h.admitsAction(sub, action) {
			continue
		}
		h.deliver(ctx, sub, &model.Event{Kind: kind, Payload: action})
	}
}

// admitsAction re-applies the read scoping per subscriber so an update about
// an action assigned to one department never leaks to another.
func (h *Hub) admitsAction(sub *Subscriber, action *model.ClinicalAction) bool {
	switch h.policy.ActionScope(sub.Actor) {
	case policy.ScopeAllActions:
	case policy.ScopeAssignedActions:
		if !sub.Actor.InDepartment(action.AssignedTo) {
			return false
		}
	default:
		return false
	}
	if len(sub.rooms) > 0 {
		if _, ok := sub.rooms[action.PatientID]; !ok {
			return false
		}
	}
	return true
}

// deliver is fire-and-forget; a failed or slow delivery never reaches the
// mutation path. The request context is detached first: the mutating request
// usually completes before the goroutine publishes, and its cancellation must
// not abort delivery.
func (h *Hub) deliver(ctx context.Context, sub *Subscriber, event *model.Event) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := h.broker.Publish(ctx, sub.channel, event); err != nil {
			h.logger.Warn().
				Err(err).
				Str("subscriber_id", sub.ID.String()).
				Str("event", string(event.Kind)).
				Msg("failed to deliver event")
		}
	}()
}
