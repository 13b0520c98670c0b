package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/co2tracker/co2tracker/internal/config"
	"github.com/co2tracker/co2tracker/internal/event_bus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	topic   string
	payload []byte
}

type stubSender struct {
	sent   []sentMessage
	err    error
	closed bool
}

func (s *stubSender) Send(topic string, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{topic, payload})
	return nil
}

func (s *stubSender) Close() {
	s.closed = true
}

func TestPublisher_ForwardsFootprintEvents(t *testing.T) {
	// given
	bus := event_bus.NewEventBus()
	sender := &stubSender{}
	publisher := NewWithSender(sender, "co2")
	publisher.Register(bus)
	ctx := context.Background()

	// when
	err := bus.Publish(event_bus.NewEvent(ctx, event_bus.FootprintRecordedType, event_bus.FootprintRecorded{
		RecordId: 3,
		UserUid:  "uid-1",
		Category: "travel",
		Co2Kg:    decimal.RequireFromString("12.34"),
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, err)
	err = bus.Publish(event_bus.NewEvent(ctx, event_bus.FootprintDeletedType, event_bus.FootprintDeleted{
		RecordId: 3,
		UserUid:  "uid-1",
		Category: "travel",
	}))
	require.NoError(t, err)

	// then
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "co2/uid-1/travel", sender.sent[0].topic)

	var recorded FootprintMessage
	require.NoError(t, json.Unmarshal(sender.sent[0].payload, &recorded))
	assert.Equal(t, "recorded", recorded.Event)
	assert.Equal(t, 3, recorded.RecordId)
	require.NotNil(t, recorded.Co2Kg)
	assert.Equal(t, "12.34", recorded.Co2Kg.String())
	assert.Equal(t, "2024-06-01", recorded.Date)

	var deleted FootprintMessage
	require.NoError(t, json.Unmarshal(sender.sent[1].payload, &deleted))
	assert.Equal(t, "deleted", deleted.Event)
	assert.Nil(t, deleted.Co2Kg)
}

func TestPublisher_SendFailureDoesNotFailPublish(t *testing.T) {
	bus := event_bus.NewEventBus()
	publisher := NewWithSender(&stubSender{err: errors.New("broker down")}, "")
	publisher.Register(bus)

	err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.FootprintDeletedType, event_bus.FootprintDeleted{UserUid: "u", Category: "food"}))

	assert.NoError(t, err)
	assert.Equal(t, "co2tracker/u/food", publisher.Topic("u", "food"))
}

func TestPublisher_Close(t *testing.T) {
	bus := event_bus.NewEventBus()
	sender := &stubSender{}
	publisher := NewWithSender(sender, "co2")
	publisher.Register(bus)

	publisher.Close()
	err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.FootprintDeletedType, event_bus.FootprintDeleted{UserUid: "u", Category: "food"}))

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
	assert.True(t, sender.closed)
}

func TestNew_Disabled(t *testing.T) {
	publisher, err := New(config.Mqtt{Enabled: false})
	require.NoError(t, err)

	bus := event_bus.NewEventBus()
	publisher.Register(bus)
	publisher.Close()

	assert.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), event_bus.FootprintDeletedType, event_bus.FootprintDeleted{})))
}

func TestNew_RequiresBroker(t *testing.T) {
	_, err := New(config.Mqtt{Enabled: true})
	assert.Error(t, err)
}
