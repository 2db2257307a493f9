package logsetup

import (
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	testhelpers "github.com/wayneeseguin/toolkit/internal/testing"
)

func TestNATSMirrorLiveServer(t *testing.T) {
	url := testhelpers.NATSURL(t)

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync("toolkit.test.logs")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	cfg, _ := testConfig(t)
	cfg.NATS = &NATSConfig{URL: url, Subject: "toolkit.test.logs", Name: "logsetup-test"}
	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	logger.Zap().Info("mirrored to nats")
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	msg, err := sub.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("no message received: %v", err)
	}
	if !strings.Contains(string(msg.Data), "mirrored to nats") {
		t.Errorf("unexpected payload %q", msg.Data)
	}
}
