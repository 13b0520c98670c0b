package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/co2tracker/co2tracker/internal/config"
	"github.com/co2tracker/co2tracker/internal/event_bus"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	qos          = 1
	publishWait  = 5 * time.Second
	disconnectMs = 250
)

// Sender delivers one message to a topic.
type Sender interface {
	Send(topic string, payload []byte) error
	Close()
}

// FootprintMessage is the JSON body published for every footprint event.
type FootprintMessage struct {
	Event    string           `json:"event"`
	RecordId int              `json:"recordId"`
	Category string           `json:"category"`
	Co2Kg    *decimal.Decimal `json:"co2Kg,omitempty"`
	Date     string           `json:"date,omitempty"`
}

// Publisher forwards footprint events from the event bus to MQTT.
// Without a sender (MQTT disabled) it does nothing.
type Publisher struct {
	sender      Sender
	topicPrefix string
	unsubscribe []func()
}

// New connects to the configured broker. A disabled config yields a no-op publisher.
func New(cfg config.Mqtt) (*Publisher, error) {
	if !cfg.Enabled {
		log.Info("MQTT publishing disabled")
		return &Publisher{}, nil
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("co2tracker-" + uuid.NewString()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	log.Infof("Connected to MQTT broker %s", cfg.Broker)

	return NewWithSender(&mqttSender{client: client}, cfg.TopicPrefix), nil
}

func NewWithSender(sender Sender, topicPrefix string) *Publisher {
	if topicPrefix == "" {
		topicPrefix = "co2tracker"
	}
	return &Publisher{sender: sender, topicPrefix: topicPrefix}
}

// Register subscribes the publisher to footprint events.
func (p *Publisher) Register(bus *event_bus.EventBus) {
	if p.sender == nil {
		return
	}
	p.unsubscribe = append(p.unsubscribe,
		bus.OnRecorded(func(_ context.Context, rec event_bus.FootprintRecorded) error {
			co2 := rec.Co2Kg
			p.publish(rec.UserUid, FootprintMessage{
				Event:    "recorded",
				RecordId: rec.RecordId,
				Category: rec.Category,
				Co2Kg:    &co2,
				Date:     rec.Date.Format("2006-01-02"),
			})
			return nil
		}),
		bus.OnDeleted(func(_ context.Context, del event_bus.FootprintDeleted) error {
			p.publish(del.UserUid, FootprintMessage{
				Event:    "deleted",
				RecordId: del.RecordId,
				Category: del.Category,
			})
			return nil
		}),
	)
}

// Topic returns "<prefix>/<userUid>/<category>".
func (p *Publisher) Topic(userUid string, category string) string {
	return fmt.Sprintf("%s/%s/%s", p.topicPrefix, userUid, category)
}

// publish logs failures instead of returning them to the event bus.
func (p *Publisher) publish(userUid string, message FootprintMessage) {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Errorf("Failed to encode MQTT message: %v", err)
		return
	}
	topic := p.Topic(userUid, message.Category)
	if err := p.sender.Send(topic, payload); err != nil {
		log.Errorf("Failed to publish to %s: %v", topic, err)
		return
	}
	log.Debugf("Published %s event to %s", message.Event, topic)
}

func (p *Publisher) Close() {
	for _, unsubscribe := range p.unsubscribe {
		unsubscribe()
	}
	p.unsubscribe = nil
	if p.sender != nil {
		p.sender.Close()
	}
}

type mqttSender struct {
	client mqtt.Client
}

func (s *mqttSender) Send(topic string, payload []byte) error {
	token := s.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(publishWait) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	return token.Error()
}

func (s *mqttSender) Close() {
	if s.client.IsConnected() {
		s.client.Disconnect(disconnectMs)
	}
}
