package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fieldsPerLine = 4

// Parse reads ledger records from r. The path argument is used only for
// error reporting. A ParseError or MalformattedDateError aborts the whole
// parse; no partial ledger is returned.
func Parse(r io.Reader, path, dateLayout string) (Ledger, error) {
	l := make(Ledger)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(fields) != fieldsPerLine {
			return nil, NewParseError(path, lineNo, line)
		}
		targetDate, err := time.Parse(dateLayout, fields[3])
		if err != nil {
			return nil, NewMalformattedDateError(path, lineNo, fields[3], dateLayout, err)
		}
		rec := NewRetentionRecord(fields[0], fields[1], strings.Split(fields[2], ","), targetDate)
		l[rec.ProjectID] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}
	return l, nil
}

// Load reads and parses the ledger file at path.
func Load(path, dateLayout string) (Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path, dateLayout)
}

// Encode writes the ledger to w, one record per line, sorted by project ID
// so that output is reproducible.
func Encode(w io.Writer, l Ledger, dateLayout string) error {
	bw := bufio.NewWriter(w)
	for _, id := range l.ProjectIDs() {
		rec := l[id]
		line := strings.Join([]string{
			rec.ProjectID,
			rec.Bucket,
			strings.Join(rec.ClientEmails, ","),
			rec.TargetDate.Format(dateLayout),
		}, "\t")
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the ledger to path, replacing any previous contents. The
// write goes to a temp file in the same directory followed by a rename, so
// a crash mid-write never leaves a truncated ledger behind.
func Save(l Ledger, path, dateLayout string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, l, dateLayout); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync ledger %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp ledger file %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger %s: %w", path, err)
	}
	return nil
}
