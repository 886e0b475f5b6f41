package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// flakyTransport fails a fixed number of attempts before succeeding.
type flakyTransport struct {
	failures int
	attempts int
}

func (t *flakyTransport) Deliver(context.Context, []string, string, string) error {
	t.attempts++
	if t.attempts <= t.failures {
		return errors.New("connection refused")
	}
	return nil
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, Delay: time.Millisecond, Multiplier: 1.0}
}

func TestMailerSend_FirstAttemptSucceeds(t *testing.T) {
	transport := &flakyTransport{}
	m := NewMailer(transport, fastPolicy(3))

	if err := m.Send(context.Background(), []string{"a@x.com"}, "s", "b"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if transport.attempts != 1 {
		t.Errorf("attempts = %d, want 1", transport.attempts)
	}
}

func TestMailerSend_RecoversWithinBudget(t *testing.T) {
	transport := &flakyTransport{failures: 2}
	m := NewMailer(transport, fastPolicy(3))

	if err := m.Send(context.Background(), []string{"a@x.com"}, "s", "b"); err != nil {
		t.Fatalf("Send failed after recoverable flake: %v", err)
	}
	if transport.attempts != 3 {
		t.Errorf("attempts = %d, want 3", transport.attempts)
	}
}

func TestMailerSend_ExhaustsAttempts(t *testing.T) {
	transport := &flakyTransport{failures: 10}
	m := NewMailer(transport, fastPolicy(3))

	err := m.Send(context.Background(), []string{"a@x.com"}, "s", "b")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if transport.attempts != 3 {
		t.Errorf("attempts = %d, want 3", transport.attempts)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want attempt count in message", err)
	}
}

func TestMailerSend_ContextCancelStopsRetry(t *testing.T) {
	transport := &flakyTransport{failures: 100}
	m := NewMailer(transport, RetryPolicy{MaxAttempts: 100, Delay: 50 * time.Millisecond, Multiplier: 1.0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Send(ctx, []string{"a@x.com"}, "s", "b"); err == nil {
		t.Fatal("expected error on cancelled context")
	}
	if transport.attempts > 2 {
		t.Errorf("attempts = %d, want retry loop cut short", transport.attempts)
	}
}
