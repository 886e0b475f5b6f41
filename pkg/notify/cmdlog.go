package notify

import (
	"fmt"
	"os"
	"strings"
)

// CommandLog is the append-only shell script where deletion commands
// accumulate for a human to review and run. Nothing in this system ever
// executes the log.
type CommandLog struct {
	path string
}

// NewCommandLog creates a command log writer for the given path. The file
// is created on first append.
func NewCommandLog(path string) *CommandLog {
	return &CommandLog{path: path}
}

// Path returns the log file path, for embedding in operator notices.
func (c *CommandLog) Path() string {
	return c.path
}

// AppendRemoval appends exactly two lines for an expired project: one
// command removing every object in the bucket and one removing the bucket
// itself. Each line carries a trailing comment naming the project and its
// client list so the operator knows what they are deleting.
func (c *CommandLog) AppendRemoval(projectID, bucket string, clientEmails []string) error {
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open command log %s: %w", c.path, err)
	}
	defer f.Close()

	clients := strings.Join(clientEmails, ",")
	entry := fmt.Sprintf("gsutil rm -r gs://%s/* # removing project %s, clients: %s\n", bucket, projectID, clients) +
		fmt.Sprintf("gsutil rb gs://%s # removing project %s, clients: %s\n", bucket, projectID, clients)

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to append to command log %s: %w", c.path, err)
	}
	return nil
}
