package ledger

import (
	"errors"
	"testing"
)

func testLedger(t *testing.T) Ledger {
	t.Helper()
	return Ledger{
		"abc": NewRetentionRecord("abc", "bucket-abc", []string{"a@x.com", "b@x.com"}, date(t, "03/13/2017")),
	}
}

// TestEnsureConsistent_IdenticalBackup verifies a byte-identical backup
// passes the gate and the primary's contents come back unchanged.
func TestEnsureConsistent_IdenticalBackup(t *testing.T) {
	primary := testLedger(t)
	backup := Replica{Name: "backup.db", Contents: testLedger(t)}

	got, err := EnsureConsistent(primary, []Replica{backup})
	if err != nil {
		t.Fatalf("EnsureConsistent failed: %v", err)
	}
	if !got.Equal(primary) {
		t.Error("returned ledger differs from primary")
	}
}

// TestEnsureConsistent_NoBackups verifies the degenerate case of a primary
// with no replicas.
func TestEnsureConsistent_NoBackups(t *testing.T) {
	primary := testLedger(t)
	got, err := EnsureConsistent(primary, nil)
	if err != nil {
		t.Fatalf("EnsureConsistent failed: %v", err)
	}
	if !got.Equal(primary) {
		t.Error("returned ledger differs from primary")
	}
}

// TestEnsureConsistent_Divergence verifies every class of divergence fails
// with a ConsistencyError naming the replica.
func TestEnsureConsistent_Divergence(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(t *testing.T, l Ledger) Ledger
	}{
		{
			"different bucket",
			func(t *testing.T, l Ledger) Ledger {
				l["abc"].Bucket = "bucket-other"
				return l
			},
		},
		{
			"different email set",
			func(t *testing.T, l Ledger) Ledger {
				l["abc"].AddEmails([]string{"c@x.com"})
				return l
			},
		},
		{
			"different target date",
			func(t *testing.T, l Ledger) Ledger {
				l["abc"].TargetDate = date(t, "04/13/2017")
				return l
			},
		},
		{
			"extra project in replica",
			func(t *testing.T, l Ledger) Ledger {
				l["extra"] = NewRetentionRecord("extra", "bucket-extra", []string{"e@x.com"}, date(t, "03/13/2017"))
				return l
			},
		},
		{
			"missing project in replica",
			func(t *testing.T, l Ledger) Ledger {
				delete(l, "abc")
				return l
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			primary := testLedger(t)
			backup := Replica{Name: "backup-2.db", Contents: tc.mutate(t, testLedger(t))}

			got, err := EnsureConsistent(primary, []Replica{backup})
			if got != nil {
				t.Error("expected nil ledger on divergence")
			}
			var consErr *ConsistencyError
			if !errors.As(err, &consErr) {
				t.Fatalf("expected ConsistencyError, got %T: %v", err, err)
			}
			if consErr.Replica != "backup-2.db" {
				t.Errorf("error names replica %q, want backup-2.db", consErr.Replica)
			}
		})
	}
}

// TestEnsureConsistent_FirstDivergentReplicaNamed verifies the gate stops
// at the first mismatch when several backups are configured.
func TestEnsureConsistent_FirstDivergentReplicaNamed(t *testing.T) {
	primary := testLedger(t)
	good := Replica{Name: "backup-1.db", Contents: testLedger(t)}
	bad := testLedger(t)
	bad["abc"].Bucket = "bucket-wrong"

	_, err := EnsureConsistent(primary, []Replica{good, {Name: "backup-2.db", Contents: bad}})
	var consErr *ConsistencyError
	if !errors.As(err, &consErr) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
	if consErr.Replica != "backup-2.db" {
		t.Errorf("error names replica %q, want backup-2.db", consErr.Replica)
	}
	if consErr.ProjectID != "abc" {
		t.Errorf("error names project %q, want abc", consErr.ProjectID)
	}
}
