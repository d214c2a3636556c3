package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"forestfest/internal/reminder"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due timers synchronously.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

type recordingSink struct {
	mu        sync.Mutex
	readyErr  error
	failWith  error
	delivered []reminder.Reminder
	closed    bool
}

func (s *recordingSink) Ready(context.Context) error { return s.readyErr }

func (s *recordingSink) Deliver(_ context.Context, r reminder.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.delivered = append(s.delivered, r)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func (s *recordingSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, r := range s.delivered {
		out = append(out, r.ID)
	}
	return out
}

var t0 = time.Date(2025, 7, 25, 18, 0, 0, 0, time.UTC)

func at(d time.Duration, id string) reminder.Reminder {
	return reminder.Reminder{ID: id, Kind: reminder.KindPerformance, Title: id, FireAt: t0.Add(d)}
}

func TestLocal_FiresInOrder(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: t0}
	sink := &recordingSink{}
	var fired []string
	l := NewLocal(sink, WithClock(clock), WithOnFire(func(id string) { fired = append(fired, id) }))

	require.NoError(t, l.Schedule(ctx, at(2*time.Hour, "artist-b")))
	require.NoError(t, l.Schedule(ctx, at(time.Hour, "artist-a")))
	assert.Equal(t, []string{"artist-a", "artist-b"}, l.Pending())

	clock.Advance(time.Hour)
	assert.Equal(t, []string{"artist-a"}, sink.ids())
	assert.Equal(t, []string{"artist-b"}, l.Pending())

	clock.Advance(time.Hour)
	assert.Equal(t, []string{"artist-a", "artist-b"}, sink.ids())
	assert.Equal(t, []string{"artist-a", "artist-b"}, fired)
	assert.Empty(t, l.Pending())
}

func TestLocal_ReplaceSameID(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: t0}
	sink := &recordingSink{}
	l := NewLocal(sink, WithClock(clock))

	first := at(time.Hour, "artist-x")
	second := at(3*time.Hour, "artist-x")
	second.Title = "replacement"
	require.NoError(t, l.Schedule(ctx, first))
	require.NoError(t, l.Schedule(ctx, second))

	clock.Advance(2 * time.Hour)
	assert.Empty(t, sink.ids())

	clock.Advance(time.Hour)
	require.Len(t, sink.delivered, 1)
	assert.Equal(t, "replacement", sink.delivered[0].Title)
}

func TestLocal_CancelAll(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: t0}
	sink := &recordingSink{}
	l := NewLocal(sink, WithClock(clock))

	require.NoError(t, l.Schedule(ctx, at(time.Minute, "artist-a")))
	require.NoError(t, l.Schedule(ctx, at(time.Minute, "conflict-a-b")))
	require.NoError(t, l.CancelAll(ctx))
	clock.Advance(time.Hour)
	assert.Empty(t, sink.ids())
	assert.Empty(t, l.Pending())
}

func TestLocal_DropsPastReminders(t *testing.T) {
	clock := &fakeClock{now: t0}
	l := NewLocal(&recordingSink{}, WithClock(clock))
	require.NoError(t, l.Schedule(context.Background(), at(-time.Minute, "artist-late")))
	assert.Empty(t, l.Pending())
}

func TestLocal_DeliveryFailureStillReportsFire(t *testing.T) {
	clock := &fakeClock{now: t0}
	sink := &recordingSink{failWith: errors.New("broker down")}
	var fired []string
	l := NewLocal(sink, WithClock(clock), WithOnFire(func(id string) { fired = append(fired, id) }))
	require.NoError(t, l.Schedule(context.Background(), at(time.Second, "artist-a")))
	clock.Advance(time.Second)
	assert.Equal(t, []string{"artist-a"}, fired)
	assert.Empty(t, sink.ids())
}

func TestLocal_RequestPermission(t *testing.T) {
	ok, err := NewLocal(&recordingSink{}).RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewLocal(&recordingSink{readyErr: errors.New("offline")}).RequestPermission(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_RealClock(t *testing.T) {
	sink := &recordingSink{}
	done := make(chan string, 1)
	l := NewLocal(sink, WithOnFire(func(id string) { done <- id }))
	defer l.Close()

	r := reminder.Reminder{ID: "test-1", Kind: reminder.KindTest, FireAt: time.Now().Add(20 * time.Millisecond)}
	require.NoError(t, l.Schedule(context.Background(), r))

	select {
	case id := <-done:
		assert.Equal(t, "test-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder did not fire")
	}
}

func TestLocal_CloseClosesSink(t *testing.T) {
	sink := &recordingSink{}
	l := NewLocal(sink)
	require.NoError(t, l.Schedule(context.Background(), reminder.Reminder{ID: "x", FireAt: time.Now().Add(time.Hour)}))
	require.NoError(t, l.Close())
	assert.True(t, sink.closed)
	assert.Empty(t, l.Pending())
}

// stuckSink never completes a delivery on its own.
type stuckSink struct{ recordingSink }

func (s *stuckSink) Deliver(ctx context.Context, _ reminder.Reminder) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestLocal_DeliveryIsBounded(t *testing.T) {
	clock := &fakeClock{now: t0}
	var fired []string
	l := NewLocal(&stuckSink{}, WithClock(clock), WithDeliverTimeout(20*time.Millisecond),
		WithOnFire(func(id string) { fired = append(fired, id) }))
	require.NoError(t, l.Schedule(context.Background(), at(time.Second, "artist-a")))

	done := make(chan struct{})
	go func() {
		clock.Advance(time.Second)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery was not cut off")
	}
	assert.Equal(t, []string{"artist-a"}, fired)
	assert.Empty(t, l.Pending())
}
