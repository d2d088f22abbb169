package risk

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Score is a deterministic, stateless heuristic over chunk text and its
// extracted timestamp. Each signal category contributes a bounded amount and
// the total saturates at 1.0. Weights and caps are load-bearing: they must
// stay stable so scores remain comparable across historical ingestions.

var criticalKeywords = []struct {
	keyword string
	weight  float64
}{
	{"unauthorized", 0.25},
	{"breach", 0.3},
	{"attack", 0.3},
	{"exploit", 0.3},
	{"malware", 0.3},
	{"ransomware", 0.35},
	{"exfiltrat", 0.35}, // matches exfiltrate, exfiltration
	{"backdoor", 0.3},
	{"rootkit", 0.3},
	{"privilege escalation", 0.3},
	{"sql injection", 0.3},
	{"cross-site scripting", 0.25},
	{"brute force", 0.25},
}

var warningKeywords = []struct {
	keyword string
	weight  float64
}{
	{"failed", 0.15},
	{"failure", 0.15},
	{"denied", 0.2},
	{"rejected", 0.15},
	{"error", 0.1},
	{"critical", 0.15},
	{"alert", 0.15},
	{"blocked", 0.15},
	{"suspicious", 0.2},
	{"anomalous", 0.2},
	{"unusual", 0.15},
}

var privilegeKeywords = []string{
	"root", "admin", "administrator", "sudo", "superuser",
	"system", "elevated", "privilege",
}

var sensitiveKeywords = []string{
	"password", "credential", "secret", "token", "key",
	"confidential", "private", "sensitive", "classified",
}

var transferKeywords = []string{"download", "upload", "transfer", "export", "copy", "move"}

var wellKnownPorts = map[int]bool{
	80: true, 443: true, 22: true, 21: true, 25: true,
	110: true, 143: true, 3306: true, 5432: true, 8080: true, 8443: true,
}

var (
	ipv4Re           = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)
	portRe           = regexp.MustCompile(`\b(?:port|:)\s*(\d{4,5})\b`)
	failedAttemptsRe = regexp.MustCompile(`(\d+)\s+(?:failed|attempt|tries)`)
	dataSizeRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(gb|mb|tb)`)
)

// Scorer satisfies the ingestion pipeline's scoring seam.
type Scorer struct{}

func (Scorer) Score(text, timestamp string) float64 {
	return Score(text, timestamp)
}

// Score returns a risk score in [0, 1] for the given chunk text. timestamp
// is the chunk's canonical ISO-8601 timestamp, or "" when none was extracted.
func Score(text, timestamp string) float64 {
	score := 0.0
	textLower := strings.ToLower(text)

	// 1. Out-of-hours activity (business hours 9am-6pm, weekdays).
	if timestamp != "" {
		if dt, err := time.Parse(time.RFC3339, timestamp); err == nil {
			hour := dt.Hour()
			if hour < 9 || hour > 18 {
				score += 0.2
			}
			if wd := dt.Weekday(); wd == time.Saturday || wd == time.Sunday {
				score += 0.15
			}
		}
	}

	// 2. Critical security keywords.
	for _, kw := range criticalKeywords {
		if strings.Contains(textLower, kw.keyword) {
			score += kw.weight
		}
	}

	// 3. Warning/error indicators.
	for _, kw := range warningKeywords {
		if strings.Contains(textLower, kw.keyword) {
			score += kw.weight
		}
	}

	// 4. Privileged access indicators.
	privilegeCount := 0
	for _, kw := range privilegeKeywords {
		if strings.Contains(textLower, kw) {
			privilegeCount++
		}
	}
	if privilegeCount > 0 {
		score += min(float64(privilegeCount)*0.15, 0.3)
	}

	// 5. Sensitive data indicators.
	sensitiveCount := 0
	for _, kw := range sensitiveKeywords {
		if strings.Contains(textLower, kw) {
			sensitiveCount++
		}
	}
	if sensitiveCount > 0 {
		score += min(float64(sensitiveCount)*0.1, 0.25)
	}

	// 6. Network indicators: IP density plus a flat bump for anything outside
	// the private ranges.
	ips := ipv4Re.FindAllString(text, -1)
	if len(ips) > 0 {
		score += min(float64(len(ips))*0.05, 0.2)
	}
	for _, ip := range ips {
		if !isPrivateIP(ip) {
			score += 0.15
			break
		}
	}

	// 7. Non-standard high ports, uncapped.
	for _, m := range portRe.FindAllStringSubmatch(textLower, -1) {
		port, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !wellKnownPorts[port] {
			score += 0.1
		}
	}

	// 8. Data transfer indicators.
	transferCount := 0
	for _, kw := range transferKeywords {
		if strings.Contains(textLower, kw) {
			transferCount++
		}
	}
	if transferCount > 0 {
		score += min(float64(transferCount)*0.08, 0.2)
	}

	// 9. Repeated failed attempts: "N failed/attempt/tries" with N > 3.
	if m := failedAttemptsRe.FindStringSubmatch(textLower); m != nil {
		if attempts, err := strconv.Atoi(m[1]); err == nil && attempts > 3 {
			score += min(0.05*float64(attempts-3), 0.25)
		}
	}

	// 10. Large data sizes, a potential exfiltration signal.
	if m := dataSizeRe.FindStringSubmatch(textLower); m != nil {
		if size, err := strconv.ParseFloat(m[1], 64); err == nil {
			unit := m[2]
			if (unit == "gb" && size > 1) || unit == "tb" {
				score += 0.2
			} else if unit == "mb" && size > 500 {
				score += 0.1
			}
		}
	}

	return min(score, 1.0)
}

func isPrivateIP(ip string) bool {
	return strings.HasPrefix(ip, "192.168.") ||
		strings.HasPrefix(ip, "10.") ||
		strings.HasPrefix(ip, "127.") ||
		strings.HasPrefix(ip, "172.")
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
