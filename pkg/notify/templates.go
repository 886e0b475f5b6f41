package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var messageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// displayDateLayout is the long-form date used inside email bodies,
// independent of the ledger's wire format.
const displayDateLayout = "January 2, 2006"

// reminderContext feeds the client reminder template.
type reminderContext struct {
	ProjectID            string
	TargetDate           string
	RemainingDays        int
	SizeInGB             string
	EstimatedMonthlyCost string
	DownloadSite         string
}

// renderReminder produces the client-facing reminder body.
func renderReminder(projectID string, targetDate time.Time, remainingDays int, sizeInGB, costPerGBMonth float64, downloadSite string) (string, error) {
	ctx := reminderContext{
		ProjectID:            strings.ToUpper(projectID),
		TargetDate:           targetDate.Format(displayDateLayout),
		RemainingDays:        remainingDays,
		SizeInGB:             fmt.Sprintf("%.2f", sizeInGB),
		EstimatedMonthlyCost: fmt.Sprintf("%.2f", sizeInGB*costPerGBMonth),
		DownloadSite:         downloadSite,
	}
	var buf bytes.Buffer
	if err := messageTemplates.ExecuteTemplate(&buf, "reminder.html.tmpl", ctx); err != nil {
		return "", fmt.Errorf("failed to render reminder template: %w", err)
	}
	return buf.String(), nil
}

// deletionNoticeContext feeds the internal deletion notice template.
type deletionNoticeContext struct {
	ProjectID  string
	Bucket     string
	CommandLog string
}

// renderDeletionNotice produces the internal staff notice body.
func renderDeletionNotice(projectID, bucket, commandLog string) (string, error) {
	var buf bytes.Buffer
	err := messageTemplates.ExecuteTemplate(&buf, "deletion_notice.html.tmpl", deletionNoticeContext{
		ProjectID:  projectID,
		Bucket:     bucket,
		CommandLog: commandLog,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render deletion notice template: %w", err)
	}
	return buf.String(), nil
}
