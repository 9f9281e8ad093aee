// Package events publishes vehicle change notifications to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/louisbranch/autofix/internal/platform/timeouts"
)

// SubjectPrefix is prepended to the action to form the subject.
const SubjectPrefix = "autofix.vehicles."

// Action names a vehicle mutation.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Subject returns the NATS subject for an action.
func Subject(action Action) string {
	return SubjectPrefix + string(action)
}

// Change is the event payload. Actor is the service token subject behind
// the change, empty when the API runs without tokens.
type Change struct {
	Action    Action    `json:"action"`
	VehicleID int64     `json:"vehicleId"`
	Actor     string    `json:"actor,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher emits vehicle change events.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
	Close() error
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Change) error { return nil }
func (Noop) Close() error                          { return nil }

// NATSPublisher publishes changes as JSON on SubjectPrefix+action.
type NATSPublisher struct {
	conn *nats.Conn
}

// Connect dials the NATS server at url. An empty url yields a Noop publisher.
func Connect(url string) (Publisher, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Noop{}, nil
	}
	conn, err := nats.Connect(url,
		nats.Name("autofix-vehicles"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Printf("nats reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish encodes and sends one change.
func (p *NATSPublisher) Publish(ctx context.Context, change Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if err := p.conn.Publish(Subject(change.Action), payload); err != nil {
		return fmt.Errorf("publish %s: %w", Subject(change.Action), err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	if err := p.conn.FlushTimeout(timeouts.EventsDrain); err != nil && !p.conn.IsClosed() {
		log.Warnf("flush nats: %v", err)
	}
	p.conn.Close()
	return nil
}
