package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"campfind/internal/adapters/observability"
	"campfind/internal/domain"
)

// Publisher is the part of *nats.Conn the sink uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes notifications as JSON on a subject through a circuit breaker.
type NATSSink struct {
	pub     Publisher
	subject string
	cb      *gobreaker.CircuitBreaker
}

func NewNATSSink(pub Publisher, subject string) *NATSSink {
	return &NATSSink{
		pub:     pub,
		subject: subject,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "nats-notify",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 3 },
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		}),
	}
}

// ConnectNATS dials url and returns a sink plus the connection for shutdown.
func ConnectNATS(url, subject string) (*NATSSink, *nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("campfind"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNATSSink(conn, subject), conn, nil
}

func (s *NATSSink) Notify(ctx context.Context, n domain.Notification) {
	err := s.publish(n)
	observability.ObserveNotification("nats", string(n.Severity), err)
	if err != nil {
		log.Warn().Err(err).Str("subject", s.subject).Msg("publish notification failed")
	}
}

func (s *NATSSink) publish(n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	_, err = s.cb.Execute(func() (interface{}, error) {
		return nil, s.pub.Publish(s.subject, data)
	})
	return err
}

// State reports the breaker state, for health output.
func (s *NATSSink) State() string { return s.cb.State().String() }
