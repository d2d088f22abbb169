package analytics

import (
	"context"
	"regexp"
	"strings"

	"github.com/nexustrace/backend/internal/domain"
)

type eventPattern struct {
	re        *regexp.Regexp
	eventType string
}

// eventPatterns is an ordered cascade over lowercased chunk text; the first
// match wins. Login failures are tested before plain logins so a failed
// attempt never classifies as a successful one, and the failure wording is
// accepted on either side of the subject.
var eventPatterns = []eventPattern{
	{regexp.MustCompile(`\b(failed|failure|denied|rejected|unauthorized|invalid)\b.*\b(login|logon|auth|access|password)\b|\b(login|logon|auth|password)\b.*\b(failed|failure|denied|rejected|unauthorized|invalid)\b`), "Login Failure"},
	{regexp.MustCompile(`\b(login|logon|logged in|authentication|sign in|signin)\b`), "Login"},
	{regexp.MustCompile(`\b(logout|logoff|logged out|sign out|signout)\b`), "Logout"},
	{regexp.MustCompile(`\b(file|document|folder)\b.*\b(access|open|read|view|download)\b`), "File Access"},
	{regexp.MustCompile(`\b(upload|write|create|modify|edit|change|update)\b.*\b(file|document)\b`), "File Modification"},
	{regexp.MustCompile(`\b(delete|remove|erase)\b.*\b(file|document|folder)\b`), "File Deletion"},
	{regexp.MustCompile(`\b(email|mail|message)\b.*\b(sent|send|forward|reply)\b`), "Email Sent"},
	{regexp.MustCompile(`\b(email|mail|message)\b.*\b(received|receive|inbox)\b`), "Email Received"},
	{regexp.MustCompile(`\b(transaction|transfer|payment|withdraw|deposit)\b`), "Transaction"},
	{regexp.MustCompile(`\b(network|connection|connect|socket)\b`), "Network Activity"},
	{regexp.MustCompile(`\b(database|query|sql|db)\b.*\b(access|execute|run)\b`), "Database Access"},
	{regexp.MustCompile(`\b(error|exception|crash|fault|bug)\b`), "System Error"},
	{regexp.MustCompile(`\b(warning|alert|notice)\b`), "System Warning"},
	{regexp.MustCompile(`\b(started|start|launch|execute|run)\b.*\b(process|service|application|program)\b`), "Process Started"},
	{regexp.MustCompile(`\b(stopped|stop|terminate|kill|end)\b.*\b(process|service|application|program)\b`), "Process Stopped"},
	{regexp.MustCompile(`\b(api|request|http|https|get|post|put|delete)\b`), "API Request"},
}

func classifyEvent(text string) string {
	lower := strings.ToLower(text)
	for _, p := range eventPatterns {
		if p.re.MatchString(lower) {
			return p.eventType
		}
	}
	return "System Event"
}

func truncateDescription(text string) string {
	if len(text) > descriptionMax {
		return text[:descriptionMax] + "..."
	}
	return text
}

// Timeline builds the chronological event view for a case: every timestamped
// chunk becomes a classified event carrying its entities and source file.
func (e *Engine) Timeline(ctx context.Context, userID, caseID string) ([]domain.TimelineEvent, error) {
	if err := e.verifyCase(ctx, userID, caseID); err != nil {
		return nil, err
	}

	rows, err := e.store.TimelineRows(ctx, caseID)
	if err != nil {
		return nil, err
	}

	events := make([]domain.TimelineEvent, 0, len(rows))
	for _, row := range rows {
		source := row.Filename
		if source == "" {
			source = "Unknown"
		}
		entities := row.Entities
		if entities == nil {
			entities = []string{}
		}
		events = append(events, domain.TimelineEvent{
			ID:          row.ChunkID,
			Timestamp:   e.normalizeTimestamp(row.Timestamp),
			EventType:   classifyEvent(row.Text),
			Description: truncateDescription(row.Text),
			Source:      source,
			Entities:    entities,
			RiskScore:   row.RiskScore,
		})
	}
	return events, nil
}
