package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/wneessen/go-mail"
)

// Transport performs one delivery attempt of one message. Implementations
// must be safe for sequential reuse.
type Transport interface {
	Deliver(ctx context.Context, to []string, subject, htmlBody string) error
}

// SMTPTransport delivers HTML mail through a plain SMTP relay, matching
// the lab's internal relay setup (no auth, opportunistic TLS).
type SMTPTransport struct {
	client *mail.Client
	from   string
}

// NewSMTPTransport creates a transport for the given relay.
func NewSMTPTransport(server string, port int, from string) (*SMTPTransport, error) {
	client, err := mail.NewClient(server,
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client for %s:%d: %w", server, port, err)
	}
	return &SMTPTransport{client: client, from: from}, nil
}

// Deliver sends one HTML message.
func (t *SMTPTransport) Deliver(ctx context.Context, to []string, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(t.from); err != nil {
		return fmt.Errorf("invalid from address %q: %w", t.from, err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("invalid recipient list %v: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return t.client.DialAndSendWithContext(ctx, msg)
}

// RetryPolicy bounds delivery retries. The zero value is unusable; use
// DefaultRetryPolicy for the historical 3-attempts-5s-apart behavior.
type RetryPolicy struct {
	// MaxAttempts is the total number of delivery attempts.
	MaxAttempts int

	// Delay is the wait after a failed attempt.
	Delay time.Duration

	// Multiplier scales the delay after each failure. 1.0 keeps the delay
	// constant; values above 1 give exponential backoff capped at MaxDelay.
	Multiplier float64

	// MaxDelay caps the backoff growth when Multiplier > 1.
	MaxDelay time.Duration
}

// DefaultRetryPolicy matches the long-standing fixed-count behavior:
// three attempts, five seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 5 * time.Second, Multiplier: 1.0}
}

// backoff builds the retry schedule for one send.
func (p RetryPolicy) backoff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff
	if p.Multiplier > 1.0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = p.Delay
		exp.Multiplier = p.Multiplier
		exp.MaxInterval = p.MaxDelay
		exp.MaxElapsedTime = 0
		b = exp
	} else {
		b = backoff.NewConstantBackOff(p.Delay)
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// Mailer wraps a Transport with the retry policy. A send that exhausts
// every attempt returns the last error; callers log it and move on.
type Mailer struct {
	transport Transport
	policy    RetryPolicy
	logger    *slog.Logger
}

// NewMailer creates a mailer over the given transport.
func NewMailer(transport Transport, policy RetryPolicy) *Mailer {
	return &Mailer{
		transport: transport,
		policy:    policy,
		logger:    slog.Default().With("component", "notify.mailer"),
	}
}

// Send delivers one message with bounded retry.
func (m *Mailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		if err := m.transport.Deliver(ctx, to, subject, htmlBody); err != nil {
			m.logger.Warn("email delivery attempt failed",
				"attempt", attempt,
				"max_attempts", m.policy.MaxAttempts,
				"recipients", len(to),
				"error", err,
			)
			return err
		}
		return nil
	}, m.policy.backoff(ctx))

	if err != nil {
		m.logger.Error("email could not be delivered",
			"attempts", attempt,
			"subject", subject,
			"error", err,
		)
		return fmt.Errorf("after %d attempts, still could not send email: %w", attempt, err)
	}
	return nil
}
