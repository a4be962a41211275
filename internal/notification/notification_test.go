package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() BookingEvent {
	return BookingEvent{
		Type:          EventBookingCreated,
		BookingID:     "b-1",
		UserID:        "u-1",
		VehicleID:     "v-1",
		Status:        "pending",
		PaymentStatus: "pending",
		TotalAmount:   250,
		StartDate:     "2030-01-01",
		EndDate:       "2030-01-04",
		OccurredAt:    time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestLogLine(t *testing.T) {
	assert.Equal(t,
		"[2029-12-01T10:00:00Z] booking.created | booking_id=b-1 | user_id=u-1 | vehicle_id=v-1 | 2030-01-01..2030-01-04 | status=pending | payment=pending | total=250",
		sampleEvent().LogLine())
}

func TestProcess(t *testing.T) {
	var handled []BookingEvent
	c := NewConsumer("", func(_ context.Context, ev BookingEvent) error {
		handled = append(handled, ev)
		return nil
	})

	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	require.NoError(t, c.process(context.Background(), body))
	require.Len(t, handled, 1)
	assert.Equal(t, "b-1", handled[0].BookingID)

	unknown := sampleEvent()
	unknown.Type = "booking.teleported"
	body, _ = json.Marshal(unknown)

	for name, b := range map[string][]byte{
		"not json":     []byte("{"),
		"unknown type": body,
		"missing ids":  []byte(`{"type":"booking.created"}`),
	} {
		err := c.process(context.Background(), b)
		assert.True(t, errors.Is(err, ErrMalformedEvent), name)
	}
	assert.Len(t, handled, 1)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := LogHandler(log.New(&buf, "", 0))

	require.NoError(t, h(context.Background(), sampleEvent()))
	assert.Equal(t, sampleEvent().LogLine()+"\n", buf.String())
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
	assert.True(t, sleep(context.Background(), time.Millisecond))
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
}
