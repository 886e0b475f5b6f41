package ledger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testDateLayout = "01/02/2006"

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(testDateLayout, value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

// TestParse_SingleRecord parses a well-formed single-line ledger.
func TestParse_SingleRecord(t *testing.T) {
	input := "abc\tbucket-abc\tabc@gmail.com,def@gmail.com\t03/13/2017\n"

	l, err := Parse(strings.NewReader(input), "test.db", testDateLayout)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(l) != 1 {
		t.Fatalf("expected 1 record, got %d", len(l))
	}

	rec := l["abc"]
	if rec == nil {
		t.Fatal("record for project abc missing")
	}
	if rec.Bucket != "bucket-abc" {
		t.Errorf("bucket = %q, want bucket-abc", rec.Bucket)
	}
	if len(rec.ClientEmails) != 2 || rec.ClientEmails[0] != "abc@gmail.com" || rec.ClientEmails[1] != "def@gmail.com" {
		t.Errorf("emails = %v, want [abc@gmail.com def@gmail.com]", rec.ClientEmails)
	}
	if !rec.TargetDate.Equal(date(t, "03/13/2017")) {
		t.Errorf("target date = %v, want 03/13/2017", rec.TargetDate)
	}
}

// TestParse_SkipsBlankLines verifies blank and whitespace-only lines are
// ignored rather than treated as malformed records.
func TestParse_SkipsBlankLines(t *testing.T) {
	input := "\nabc\tbucket-abc\ta@x.com\t03/13/2017\n\n   \ndef\tbucket-def\tb@x.com\t03/15/2017\n\n"

	l, err := Parse(strings.NewReader(input), "test.db", testDateLayout)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(l) != 2 {
		t.Errorf("expected 2 records, got %d", len(l))
	}
}

// TestParse_FieldCountError verifies a line with the wrong number of fields
// fails the whole load with a ParseError.
func TestParse_FieldCountError(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"three fields", "abc\tbucket-abc\ta@x.com\n"},
		{"five fields", "abc\tbucket-abc\ta@x.com\t03/13/2017\textra\n"},
		{"no tabs", "abc bucket-abc a@x.com 03/13/2017\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := Parse(strings.NewReader(tc.input), "test.db", testDateLayout)
			if l != nil {
				t.Error("expected nil ledger on parse failure")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T: %v", err, err)
			}
			if parseErr.Line != 1 {
				t.Errorf("error line = %d, want 1", parseErr.Line)
			}
		})
	}
}

// TestParse_MalformattedDate covers the invalid-month case from the legacy
// ledger files: "13/13/2017" cannot parse as MM/DD/YYYY.
func TestParse_MalformattedDate(t *testing.T) {
	input := "abc\tbucket-abc\tabc@gmail.com,def@gmail.com\t13/13/2017\n"

	l, err := Parse(strings.NewReader(input), "test.db", testDateLayout)
	if l != nil {
		t.Error("expected nil ledger on date failure")
	}
	var dateErr *MalformattedDateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("expected MalformattedDateError, got %T: %v", err, err)
	}
	if dateErr.Value != "13/13/2017" {
		t.Errorf("error value = %q, want 13/13/2017", dateErr.Value)
	}
}

// TestParse_LaterLineFailureReturnsNothing verifies that a failure on line
// 2 does not return the records parsed from line 1.
func TestParse_LaterLineFailureReturnsNothing(t *testing.T) {
	input := "abc\tbucket-abc\ta@x.com\t03/13/2017\ndef\tbucket-def\tb@x.com\tnot-a-date\n"

	l, err := Parse(strings.NewReader(input), "test.db", testDateLayout)
	if err == nil {
		t.Fatal("expected error")
	}
	if l != nil {
		t.Errorf("expected no partial ledger, got %d records", len(l))
	}
}

// TestRoundTrip verifies load(save(L)) == L as record sets.
func TestRoundTrip(t *testing.T) {
	original := Ledger{
		"abc": NewRetentionRecord("abc", "bucket-abc", []string{"b@x.com", "a@x.com"}, date(t, "03/13/2017")),
		"def": NewRetentionRecord("def", "bucket-def", []string{"ghi@gmail.com"}, date(t, "03/15/2017")),
		"xyz": NewRetentionRecord("xyz", "bucket-xyz", []string{"c@x.com"}, date(t, "12/31/2024")),
	}

	path := filepath.Join(t.TempDir(), "retention.db")
	if err := Save(original, path, testDateLayout); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path, testDateLayout)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Equal(original) {
		t.Errorf("round trip mismatch:\noriginal: %v\nloaded:   %v", original, loaded)
	}
}

// TestEncode_DeterministicOrder verifies records are serialized sorted by
// project ID with sorted email lists, regardless of insertion order.
func TestEncode_DeterministicOrder(t *testing.T) {
	l := Ledger{
		"zzz": NewRetentionRecord("zzz", "bucket-z", []string{"z@x.com"}, date(t, "01/01/2025")),
		"aaa": NewRetentionRecord("aaa", "bucket-a", []string{"two@x.com", "one@x.com"}, date(t, "01/01/2025")),
	}

	var buf bytes.Buffer
	if err := Encode(&buf, l, testDateLayout); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := "aaa\tbucket-a\tone@x.com,two@x.com\t01/01/2025\nzzz\tbucket-z\tz@x.com\t01/01/2025\n"
	if buf.String() != want {
		t.Errorf("encoded output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

// TestSave_ReplacesExistingFile verifies a save fully replaces prior
// contents instead of appending.
func TestSave_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retention.db")
	if err := os.WriteFile(path, []byte("stale\tbucket\tx@x.com\t01/01/2000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Ledger{"abc": NewRetentionRecord("abc", "bucket-abc", []string{"a@x.com"}, date(t, "03/13/2017"))}
	if err := Save(l, path, testDateLayout); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("old contents survived the save")
	}
	// No leftover temp files from the atomic write.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the ledger file in the directory, found %d entries", len(entries))
	}
}

func TestNormalizeEmails(t *testing.T) {
	got := NormalizeEmails([]string{" b@x.com", "a@x.com", "b@x.com ", "", "  "})
	if len(got) != 2 || got[0] != "a@x.com" || got[1] != "b@x.com" {
		t.Errorf("NormalizeEmails = %v, want [a@x.com b@x.com]", got)
	}
}
