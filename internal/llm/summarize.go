package llm

import (
	"context"
	"fmt"
	"strings"
)

// Severity labels for a provider's own assessment, derived from its text.
// These are independent of the tier severities inside the grouping store.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
	SeverityError    = "error"
)

// Summary is the structured result of one summarization call. A provider
// failure still yields a well-formed Summary with Severity set to "error";
// callers never have to handle a raised failure.
type Summary struct {
	Text     string `json:"summary"`
	Severity string `json:"severity"`
	Model    string `json:"model,omitempty"`
}

// SummarizeRequest carries everything one summarization call needs.
type SummarizeRequest struct {
	SystemPrompt string
	Payload      string
	SystemInfo   string
	Options      *ChatOptions
}

// Summarize sends the analysis payload to the provider and classifies the
// response. Errors are folded into the structured result uniformly across
// all provider variants.
func Summarize(ctx context.Context, p Provider, req SummarizeRequest) Summary {
	user := req.Payload
	if req.SystemInfo != "" {
		user += "\n\nSystem Information:\n" + req.SystemInfo
	}

	resp, err := p.Chat(ctx, []Message{
		{Role: "system", Content: req.SystemPrompt},
		{Role: "user", Content: user},
	}, req.Options)
	if err != nil {
		return Summary{
			Text:     fmt.Sprintf("AI analysis failed: %v", err),
			Severity: SeverityError,
		}
	}
	if resp.Content == "" {
		return Summary{
			Text:     "No response received from AI analysis",
			Severity: SeverityError,
		}
	}

	return Summary{
		Text:     resp.Content,
		Severity: DetermineSeverity(resp.Content),
		Model:    resp.Model,
	}
}

// Keyword classes scanned in the provider's free-text response.
var (
	criticalWords = []string{"critical", "severe", "urgent", "failure", "error"}
	warningWords  = []string{"warning", "attention", "caution", "moderate"}
)

// DetermineSeverity classifies a provider response by keyword scan:
// critical words win over warning words; anything else is info.
func DetermineSeverity(content string) string {
	lower := strings.ToLower(content)
	for _, w := range criticalWords {
		if strings.Contains(lower, w) {
			return SeverityCritical
		}
	}
	for _, w := range warningWords {
		if strings.Contains(lower, w) {
			return SeverityWarning
		}
	}
	return SeverityInfo
}
