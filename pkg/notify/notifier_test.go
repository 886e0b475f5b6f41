package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cccb/retentiond/pkg/audit"
	"cccb/retentiond/pkg/ledger"
)

// captureSender records sent messages in place of a real SMTP relay.
type captureSender struct {
	sent     []sentMessage
	failWith error
}

type sentMessage struct {
	to      []string
	subject string
	body    string
}

func (s *captureSender) Send(_ context.Context, to []string, subject, body string) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.sent = append(s.sent, sentMessage{to, subject, body})
	return nil
}

// fixedSizer returns a constant size estimate.
type fixedSizer struct {
	sizeGB float64
	err    error
}

func (s fixedSizer) BucketSizeGB(context.Context, string) (float64, error) {
	return s.sizeGB, s.err
}

func testRecord(t *testing.T) *ledger.RetentionRecord {
	t.Helper()
	return ledger.NewRetentionRecord("abc", "bucket-abc",
		[]string{"a@x.com", "b@x.com"},
		time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC))
}

func testNotifier(t *testing.T, sender Sender, sizer SizeEstimator, trail audit.Store) (*Notifier, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "cleanup_commands.sh")
	n := New(sender, sizer, NewCommandLog(logPath), trail, Config{
		ClientSubject:         "Your sequencing data will expire soon",
		InternalSubject:       "There is data to clean up",
		InternalList:          []string{"staff@lab.example.org"},
		DownloadSite:          "https://delivery.lab.example.org",
		StorageCostPerGBMonth: 0.026,
	})
	return n, logPath
}

// TestSendReminder_RendersDetails checks the rendered body carries the
// upper-cased project ID, long-form date, remaining days, size, and cost.
func TestSendReminder_RendersDetails(t *testing.T) {
	sender := &captureSender{}
	trail := audit.NewMemoryStore()
	n, _ := testNotifier(t, sender, fixedSizer{sizeGB: 123.456}, trail)

	if err := n.SendReminder(context.Background(), testRecord(t), 7); err != nil {
		t.Fatalf("SendReminder failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}

	msg := sender.sent[0]
	if len(msg.to) != 2 || msg.to[0] != "a@x.com" {
		t.Errorf("recipients = %v, want the record's client emails", msg.to)
	}
	if msg.subject != "Your sequencing data will expire soon" {
		t.Errorf("subject = %q", msg.subject)
	}
	for _, want := range []string{
		"ABC",            // project ID upper-cased
		"June 17, 2024",  // long-form date
		"7 day",          // remaining days
		"123.46 GB",      // size, two decimals
		"$3.21",          // 123.456 * 0.026 = 3.2098..., two decimals
		"https://delivery.lab.example.org",
	} {
		if !strings.Contains(msg.body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.body)
		}
	}

	// One reminder event on the trail.
	events, err := trail.Find(context.Background(), &audit.Query{Kind: audit.KindReminderSent})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].DaysRemaining != 7 {
		t.Errorf("audit events = %v, want one reminder with 7 days", events)
	}
}

// TestSendReminder_SizerFailureStillSends verifies a broken size estimate
// does not cost the client the warning.
func TestSendReminder_SizerFailureStillSends(t *testing.T) {
	sender := &captureSender{}
	n, _ := testNotifier(t, sender, fixedSizer{err: errors.New("gsutil not found")}, nil)

	if err := n.SendReminder(context.Background(), testRecord(t), 3); err != nil {
		t.Fatalf("SendReminder failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].body, "0.00 GB") {
		t.Errorf("expected zero size estimate in body:\n%s", sender.sent[0].body)
	}
}

// TestSendReminder_DeliveryFailureRecorded surfaces the error and leaves a
// delivery-failed audit event.
func TestSendReminder_DeliveryFailureRecorded(t *testing.T) {
	sender := &captureSender{failWith: errors.New("smtp unreachable")}
	trail := audit.NewMemoryStore()
	n, _ := testNotifier(t, sender, fixedSizer{sizeGB: 1}, trail)

	if err := n.SendReminder(context.Background(), testRecord(t), 7); err == nil {
		t.Fatal("expected delivery error")
	}

	events, err := trail.Find(context.Background(), &audit.Query{Kind: audit.KindDeliveryFailed})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || !strings.Contains(events[0].Detail, "smtp unreachable") {
		t.Errorf("audit events = %v, want one delivery failure", events)
	}
}

// TestMarkForDeletion_AppendsTwoLines: the deletion boundary contract is
// exactly two new command-log lines per marking.
func TestMarkForDeletion_AppendsTwoLines(t *testing.T) {
	sender := &captureSender{}
	trail := audit.NewMemoryStore()
	n, logPath := testNotifier(t, sender, fixedSizer{}, trail)

	if err := n.MarkForDeletion(context.Background(), testRecord(t)); err != nil {
		t.Fatalf("MarkForDeletion failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("command log has %d lines, want exactly 2:\n%s", len(lines), string(data))
	}
	if !strings.HasPrefix(lines[0], "gsutil rm -r gs://bucket-abc/*") {
		t.Errorf("first line = %q, want object removal command", lines[0])
	}
	if !strings.HasPrefix(lines[1], "gsutil rb gs://bucket-abc") {
		t.Errorf("second line = %q, want bucket removal command", lines[1])
	}
	for i, line := range lines {
		if !strings.Contains(line, "abc") || !strings.Contains(line, "a@x.com,b@x.com") {
			t.Errorf("line %d missing project/client comment: %q", i, line)
		}
	}

	// Internal notice goes to the staff list and names the log file.
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.to[0] != "staff@lab.example.org" {
		t.Errorf("internal notice to %v", msg.to)
	}
	if !strings.Contains(msg.body, logPath) {
		t.Errorf("notice body missing command log path:\n%s", msg.body)
	}

	events, err := trail.Find(context.Background(), &audit.Query{Kind: audit.KindDeletionMarked})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("audit events = %v, want one deletion marking", events)
	}
}

// TestMarkForDeletion_AppendsAccumulate: repeated markings append, never
// truncate.
func TestMarkForDeletion_AppendsAccumulate(t *testing.T) {
	sender := &captureSender{}
	n, logPath := testNotifier(t, sender, fixedSizer{}, nil)

	rec := testRecord(t)
	for range 2 {
		if err := n.MarkForDeletion(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 4 {
		t.Errorf("command log has %d lines after two markings, want 4", n)
	}
}
