package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	appLog "forestfest/internal/log"
	"forestfest/internal/reminder"
)

// LogSink writes each reminder as a structured log line.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{logger: appLog.WithComponent("reminders")}
}

func (s *LogSink) Ready(context.Context) error { return nil }

func (s *LogSink) Deliver(_ context.Context, r reminder.Reminder) error {
	s.logger.Info().
		Str("id", r.ID).
		Str("kind", string(r.Kind)).
		Str("title", r.Title).
		Str("body", r.Body).
		Time("fire_at", r.FireAt).
		Msg("reminder")
	return nil
}

func (s *LogSink) Close() error { return nil }

// MQTTConfig configures the broker sink.
type MQTTConfig struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Topic    string // base topic; the reminder kind is appended
	Username string
	Password string
	QoS      byte
}

// publisher is the subset of mqtt.Client the sink uses.
type publisher interface {
	Connect() mqtt.Token
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTSink publishes reminders as JSON on <topic>/<kind>.
type MQTTSink struct {
	cfg    MQTTConfig
	client publisher

	mu sync.Mutex
}

type mqttPayload struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fireAt"`
	SentAt time.Time `json:"sentAt"`
}

func NewMQTTSink(cfg MQTTConfig) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, errors.New("notify: mqtt broker is empty")
	}
	if cfg.Topic == "" {
		cfg.Topic = "forestfest/reminders"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "forestfest"
	}

	logger := appLog.WithComponent("mqtt")
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		logger.Info().Str("broker", cfg.Broker).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Error().Err(err).Msg("MQTT connection lost")
	}
	return newMQTTSink(cfg, mqtt.NewClient(opts)), nil
}

func newMQTTSink(cfg MQTTConfig, client publisher) *MQTTSink {
	cfg.Topic = strings.TrimSuffix(cfg.Topic, "/")
	return &MQTTSink{cfg: cfg, client: client}
}

// Ready connects on first use.
func (s *MQTTSink) Ready(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client.IsConnected() {
		return nil
	}
	token := s.client.Connect()
	if err := wait(ctx, token); err != nil {
		return fmt.Errorf("notify: mqtt connect: %w", err)
	}
	return nil
}

func (s *MQTTSink) Deliver(ctx context.Context, r reminder.Reminder) error {
	if err := s.Ready(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(mqttPayload{
		ID:     r.ID,
		Kind:   string(r.Kind),
		Title:  r.Title,
		Body:   r.Body,
		FireAt: r.FireAt,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}
	topic := s.cfg.Topic + "/" + string(r.Kind)
	if err := wait(ctx, s.client.Publish(topic, s.cfg.QoS, false, payload)); err != nil {
		return fmt.Errorf("notify: publish %s: %w", topic, err)
	}
	return nil
}

func (s *MQTTSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client.IsConnected() {
		s.client.Disconnect(250)
	}
	return nil
}

// wait blocks on token until it completes or ctx ends.
func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
