package realtime

import (
	"encoding/json"
	"log/slog"
)

// Router delivers outbound events to sessions. Delivery is best-effort
// at-most-once: a session that disconnects mid-delivery, or whose send
// buffer is full, simply does not receive the event. That is never an
// error.
type Router struct {
	registry *Registry
	logger   *slog.Logger
}

// NewRouter creates a router over the given registry.
func NewRouter(registry *Registry, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry: registry,
		logger:   logger.With(slog.String("component", "router")),
	}
}

// Broadcast delivers the event to every session currently joined to
// the room, in no guaranteed order. Membership is snapshotted before
// delivery begins, so joins and leaves during the fan-out affect only
// later broadcasts.
func (r *Router) Broadcast(room RoomID, event string, payload any) {
	data, ok := r.marshal(event, payload)
	if !ok {
		return
	}

	for _, sess := range r.registry.snapshot(room) {
		if !sess.sink.Send(data) {
			r.logger.Debug("dropped broadcast to slow connection",
				"conn_id", sess.ID,
				"room", room.String(),
				"event", event)
		}
	}
}

// DeliverDirect delivers the event only to the given connection, used
// for synchronous command acknowledgements. Delivery to an unknown or
// already unregistered connection id is a silent no-op.
func (r *Router) DeliverDirect(connID string, event string, payload any) {
	data, ok := r.marshal(event, payload)
	if !ok {
		return
	}

	sink, live := r.registry.sinkFor(connID)
	if !live {
		return
	}
	if !sink.Send(data) {
		r.logger.Debug("dropped direct delivery to slow connection",
			"conn_id", connID,
			"event", event)
	}
}

func (r *Router) marshal(event string, payload any) ([]byte, bool) {
	raw, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("failed to marshal event payload",
			"event", event,
			"error", err)
		return nil, false
	}
	data, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		r.logger.Error("failed to marshal event envelope",
			"event", event,
			"error", err)
		return nil, false
	}
	return data, true
}
