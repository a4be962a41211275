// Package notificationtest provides a recording notification.Publisher.
package notificationtest

import (
	"context"
	"sync"

	"github.com/nekogravitycat/car-rental-backend/internal/notification"
)

// Recorder keeps every published event. Err, when set, is returned from Publish.
type Recorder struct {
	mu     sync.Mutex
	events []notification.BookingEvent
	Err    error
}

func (r *Recorder) Publish(_ context.Context, ev notification.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.Err
}

func (r *Recorder) Events() []notification.BookingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.BookingEvent(nil), r.events...)
}

// Types returns the event types in publish order.
func (r *Recorder) Types() []notification.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]notification.EventType, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}
