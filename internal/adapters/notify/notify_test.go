package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campfind/internal/adapters/notify"
	"campfind/internal/domain"
)

type fakePublisher struct {
	mu    sync.Mutex
	err   error
	calls int
	last  []byte
	subj  string
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.subj, p.last = subject, data
	return p.err
}

type recorder struct{ got []domain.Notification }

func (r *recorder) Notify(ctx context.Context, n domain.Notification) { r.got = append(r.got, n) }

func TestLogSink_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	s := notify.NewLogSink(zerolog.New(&buf))
	s.Notify(context.Background(), domain.Notification{Title: "Payment failed", Severity: domain.SeverityDestructive})

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "warn", ev["level"])
	assert.Equal(t, "Payment failed", ev["title"])
}

func TestNATSSink_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	s := notify.NewNATSSink(pub, "campfind.notifications")
	s.Notify(context.Background(), domain.Notification{Title: "Payment successful", IdentityID: "1", Severity: domain.SeverityInfo})

	require.Equal(t, 1, pub.calls)
	assert.Equal(t, "campfind.notifications", pub.subj)
	var n domain.Notification
	require.NoError(t, json.Unmarshal(pub.last, &n))
	assert.Equal(t, "1", n.IdentityID)
}

func TestNATSSink_BreakerOpensAfterFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	s := notify.NewNATSSink(pub, "x")
	for i := 0; i < 5; i++ {
		s.Notify(context.Background(), domain.Notification{Title: "t"})
	}
	assert.Equal(t, 3, pub.calls, "breaker should stop calling the broker after 3 failures")
	assert.Equal(t, "open", s.State())
}

func TestFanout_DeliversToAll(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	notify.Fanout{a, b}.Notify(context.Background(), domain.Notification{Title: "hi"})
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}
