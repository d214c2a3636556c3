package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestfest/internal/reminder"
)

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// hungToken never completes, like a publish to an unreachable broker.
type hungToken struct{ doneToken }

func (hungToken) Done() <-chan struct{} { return make(chan struct{}) }

type published struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	connected  bool
	connectErr error
	hang       bool
	connects   int
	messages   []published
}

func (f *fakePublisher) Connect() mqtt.Token {
	f.connects++
	if f.connectErr == nil {
		f.connected = true
	}
	return doneToken{err: f.connectErr}
}

func (f *fakePublisher) IsConnected() bool { return f.connected }

func (f *fakePublisher) Publish(topic string, _ byte, _ bool, payload any) mqtt.Token {
	f.messages = append(f.messages, published{topic: topic, payload: payload.([]byte)})
	if f.hang {
		return hungToken{}
	}
	return doneToken{}
}

func (f *fakePublisher) Disconnect(uint) { f.connected = false }

func TestMQTTSink_PublishesPerKind(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	sink := newMQTTSink(MQTTConfig{Topic: "fest/reminders/"}, pub)

	require.NoError(t, sink.Ready(ctx))
	require.NoError(t, sink.Ready(ctx))
	assert.Equal(t, 1, pub.connects)

	fireAt := time.Date(2025, 7, 25, 19, 20, 0, 0, time.UTC)
	require.NoError(t, sink.Deliver(ctx, reminder.Reminder{
		ID: "conflict-a-b", Kind: reminder.KindConflict, Title: "⚠️ Schedule Conflict!", Body: "A and B overlap", FireAt: fireAt,
	}))

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "fest/reminders/conflict", pub.messages[0].topic)

	var got mqttPayload
	require.NoError(t, json.Unmarshal(pub.messages[0].payload, &got))
	assert.Equal(t, "conflict-a-b", got.ID)
	assert.Equal(t, "conflict", got.Kind)
	assert.True(t, fireAt.Equal(got.FireAt))

	require.NoError(t, sink.Close())
	assert.False(t, pub.connected)
}

func TestMQTTSink_ConnectFailure(t *testing.T) {
	pub := &fakePublisher{connectErr: errors.New("connection refused")}
	sink := newMQTTSink(MQTTConfig{Topic: "t"}, pub)
	assert.Error(t, sink.Ready(context.Background()))
	assert.Error(t, sink.Deliver(context.Background(), reminder.Reminder{ID: "x"}))
	assert.Empty(t, pub.messages)

	ok, err := NewLocal(sink).RequestPermission(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMQTTSink_HungPublishRespectsDeadline(t *testing.T) {
	pub := &fakePublisher{connected: true, hang: true}
	sink := newMQTTSink(MQTTConfig{Topic: "t"}, pub)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := sink.Deliver(ctx, reminder.Reminder{ID: "artist-x", Kind: reminder.KindPerformance})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, pub.messages, 1)
}

func TestNewMQTTSink_RequiresBroker(t *testing.T) {
	_, err := NewMQTTSink(MQTTConfig{})
	assert.Error(t, err)
}

func TestLogSink(t *testing.T) {
	s := NewLogSink()
	require.NoError(t, s.Ready(context.Background()))
	require.NoError(t, s.Deliver(context.Background(), reminder.Reminder{ID: "artist-x", Kind: reminder.KindPerformance}))
	require.NoError(t, s.Close())
}
