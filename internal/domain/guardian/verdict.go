package guardian

import (
	"strings"
	"time"
)

// Decision enum
type Decision string

const (
	DecisionPass          Decision = "pass"
	DecisionBlock         Decision = "block"
	DecisionIndeterminate Decision = "indeterminate"
)

// Verdict is the parsed answer of a configuration review.
type Verdict struct {
	Decision Decision `json:"decision" yaml:"decision"`
	Reason   string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Raw      string   `json:"raw" yaml:"raw"`
}

// Approved reports whether the build may proceed. Only an explicit PASS approves.
func (v Verdict) Approved() bool { return v.Decision == DecisionPass }

// ParseVerdict reads the model answer. BLOCK is matched as a prefix, PASS only exactly;
// anything else is indeterminate.
func ParseVerdict(text string) Verdict {
	raw := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(raw, "BLOCK"):
		reason := strings.TrimPrefix(raw, "BLOCK")
		reason = strings.TrimSpace(strings.TrimPrefix(reason, ":"))
		return Verdict{Decision: DecisionBlock, Reason: reason, Raw: raw}
	case raw == "PASS":
		return Verdict{Decision: DecisionPass, Raw: raw}
	default:
		return Verdict{Decision: DecisionIndeterminate, Raw: raw}
	}
}

// Review is the record of one guardian run, as printed and archived.
type Review struct {
	ID         string    `json:"id" yaml:"id"`
	Root       string    `json:"root" yaml:"root"`
	Files      []string  `json:"files" yaml:"files"`
	Model      string    `json:"model,omitempty" yaml:"model,omitempty"`
	Verdict    Verdict   `json:"verdict" yaml:"verdict"`
	ReviewedAt time.Time `json:"reviewed_at" yaml:"reviewed_at"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
}
