package ingestion

import (
	"regexp"
	"strings"
	"time"
)

const canonicalLayout = "2006-01-02T15:04:05"

// timestampRule is one step of the extraction cascade. Rules are ordered most
// specific first; the first rule whose pattern matches and parses wins, so a
// date-only match never shadows a fuller timestamp handled by an earlier rule.
type timestampRule struct {
	re         *regexp.Regexp
	layouts    []string
	group      int
	appendYear bool
}

var timestampRules = []timestampRule{
	// ISO 8601: 2024-02-15T14:30:00Z, optional fraction and offset.
	{
		re: regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?`),
		layouts: []string{
			"2006-01-02T15:04:05Z07:00",
			"2006-01-02T15:04:05.999999999Z07:00",
			"2006-01-02T15:04:05",
			"2006-01-02T15:04:05.999999999",
		},
	},
	// Common log format: 2024-02-15 14:30:00.
	{
		re:      regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}`),
		layouts: []string{"2006-01-02 15:04:05"},
	},
	// US date with time: 02/15/2024 14:30:00.
	{
		re:      regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}\s+\d{2}:\d{2}:\d{2}`),
		layouts: []string{"1/2/2006 15:04:05"},
	},
	// Apache/Nginx access log: [15/Feb/2024:14:30:00 +0000].
	{
		re:      regexp.MustCompile(`\[(\d{2}/[A-Za-z]{3}/\d{4}:\d{2}:\d{2}:\d{2})\s+[+-]\d{4}\]`),
		layouts: []string{"02/Jan/2006:15:04:05"},
		group:   1,
	},
	// Syslog: Feb 15 14:30:00. No year, defaults to the current one.
	{
		re:         regexp.MustCompile(`[A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}`),
		layouts:    []string{"Jan 2 15:04:05 2006"},
		appendYear: true,
	},
	// Date only, ISO: 2024-02-15.
	{
		re:      regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		layouts: []string{"2006-01-02"},
	},
	// Date only, US: 02/15/2024.
	{
		re:      regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
		layouts: []string{"1/2/2006"},
	},
}

// ExtractTimestamp scans text for the first timestamp it can normalize and
// returns it in canonical ISO-8601 UTC form with a Z suffix, or "" when no
// pattern matches. Normalization is idempotent for already-canonical input.
func ExtractTimestamp(text string) string {
	for _, rule := range timestampRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		candidate := m[rule.group]
		candidate = strings.Join(strings.Fields(candidate), " ")
		if rule.appendYear {
			candidate += " " + time.Now().Format("2006")
		}

		for _, layout := range rule.layouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t.UTC().Format(canonicalLayout) + "Z"
			}
		}
	}
	return ""
}
