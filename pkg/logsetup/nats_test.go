package logsetup

import (
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	messages []string
	flushed  int
	drained  bool
	err      error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	p.messages = append(p.messages, string(data))
	return nil
}

func (p *fakePublisher) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushed++
	return nil
}

func (p *fakePublisher) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drained = true
	return nil
}

func withDialer(t *testing.T, dial func(NATSConfig) (publisher, error)) {
	t.Helper()
	old := dialNATS
	dialNATS = dial
	t.Cleanup(func() { dialNATS = old })
}

func TestNATSMirror(t *testing.T) {
	pub := &fakePublisher{}
	var dialed NATSConfig
	withDialer(t, func(cfg NATSConfig) (publisher, error) {
		dialed = cfg
		return pub, nil
	})

	cfg, _ := testConfig(t)
	cfg.Console = false
	cfg.NATS = &NATSConfig{URL: "nats://127.0.0.1:4222", Subject: "logs.app", Name: "toolkit"}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Zap().Info("mirrored line")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if dialed != *cfg.NATS {
		t.Errorf("dialed with %+v, want %+v", dialed, *cfg.NATS)
	}
	if len(pub.messages) != 1 || pub.subjects[0] != "logs.app" {
		t.Fatalf("published %v to %v", pub.messages, pub.subjects)
	}
	if !strings.HasSuffix(pub.messages[0], "[INFO]: mirrored line") {
		t.Errorf("message %q should be the formatted line without newline", pub.messages[0])
	}
	if !pub.drained || pub.flushed == 0 {
		t.Errorf("Close should flush and drain: flushed=%d drained=%v", pub.flushed, pub.drained)
	}
}

func TestNATSConnectFailure(t *testing.T) {
	withDialer(t, func(NATSConfig) (publisher, error) {
		return nil, errors.New("no servers available for connection")
	})

	cfg, _ := testConfig(t)
	cfg.NATS = &NATSConfig{URL: "nats://127.0.0.1:1", Subject: "logs"}

	_, err := New(cfg)
	var setupErr *SetupError
	if !errors.As(err, &setupErr) || setupErr.Op != "connect to nats" {
		t.Fatalf("New error = %v, want nats SetupError", err)
	}
}

func TestNATSSinkWriteError(t *testing.T) {
	s := &natsSink{conn: &fakePublisher{err: errors.New("connection closed")}, subject: "logs"}

	n, err := s.Write([]byte("line\n"))
	if err == nil || n != 0 {
		t.Errorf("Write() = %d, %v; want error", n, err)
	}
}
