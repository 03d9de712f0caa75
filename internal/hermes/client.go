package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Client publishes diagnosis events and follows completions.
type Client interface {
	Publish(ctx context.Context, e Event) error
	OnDiagnosisCompleted(handler func(DiagnosisCompletedEvent)) error
	Close()
}

// Options configures the NATS connection and the events stream.
type Options struct {
	URL          string
	StreamMaxAge time.Duration
}

type NATSClient struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewNATSClient(ctx context.Context, opts Options, logger *slog.Logger) (*NATSClient, error) {
	nc, err := nats.Connect(opts.URL,
		nats.Name("oshichecker"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("hermes disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("hermes reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, logger: logger}
	if err := c.ensureStream(ctx, opts.StreamMaxAge); err != nil {
		logger.Warn("failed to ensure stream", "stream", StreamName, "error", err)
	}
	return c, nil
}

func (c *NATSClient) ensureStream(ctx context.Context, maxAge time.Duration) error {
	if maxAge <= 0 {
		maxAge = DefaultStreamMaxAge
	}
	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: StreamSubjects,
		MaxAge:   maxAge,
	})
	return err
}

// Publish sends the event on its own subject over the core connection; the
// stream picks it up from there.
func (c *NATSClient) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := encodeEvent(e)
	if err != nil {
		return err
	}
	return c.conn.PublishMsg(msg)
}

// OnDiagnosisCompleted calls handler for every session that finishes its
// tournament. Undecodable messages are logged and dropped.
func (c *NATSClient) OnDiagnosisCompleted(handler func(DiagnosisCompletedEvent)) error {
	sub, err := c.conn.Subscribe(SubjectAnyCompleted, completedHandler(handler, c.logger))
	if err != nil {
		return err
	}
	c.subs = append(c.subs, sub)
	return nil
}

func (c *NATSClient) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}

func encodeEvent(e Event) (*nats.Msg, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", e, err)
	}
	msg := nats.NewMsg(e.Subject())
	msg.Header.Set("Content-Type", "application/json")
	msg.Data = payload
	return msg, nil
}

func completedHandler(handler func(DiagnosisCompletedEvent), logger *slog.Logger) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var e DiagnosisCompletedEvent
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			logger.Warn("dropping malformed completion event", "subject", msg.Subject, "error", err)
			return
		}
		handler(e)
	}
}
