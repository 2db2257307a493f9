package logsetup

import (
	"bytes"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

const natsConnectTimeout = 2 * time.Second

// publisher is the part of *nats.Conn the sink uses.
type publisher interface {
	Publish(subject string, data []byte) error
	Flush() error
	Drain() error
}

// dialNATS is replaced in tests.
var dialNATS = func(cfg NATSConfig) (publisher, error) {
	opts := []nats.Option{
		nats.Timeout(natsConnectTimeout),
		nats.MaxReconnects(-1),
	}
	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}
	return nats.Connect(cfg.URL, opts...)
}

// natsSink publishes one message per log line.
type natsSink struct {
	conn    publisher
	subject string
}

func newNATSSink(cfg NATSConfig) (*natsSink, error) {
	conn, err := dialNATS(cfg)
	if err != nil {
		return nil, &SetupError{Op: "connect to nats", Err: err}
	}
	return &natsSink{conn: conn, subject: cfg.Subject}, nil
}

func (s *natsSink) Write(p []byte) (int, error) {
	// Publish copies the payload into the connection buffer.
	if err := s.conn.Publish(s.subject, bytes.TrimRight(p, "\n")); err != nil {
		return 0, errors.Wrapf(err, "publish to %s", s.subject)
	}
	return len(p), nil
}

func (s *natsSink) Sync() error {
	return errors.Wrap(s.conn.Flush(), "flush nats")
}

func (s *natsSink) Close() error {
	return errors.Wrap(s.conn.Drain(), "drain nats")
}
