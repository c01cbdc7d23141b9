package redact

import (
	"regexp"

	"github.com/dshills/selfreview/internal/gitctx"
)

// Placeholder replaces redacted text.
const Placeholder = "[REDACTED]"

// secretPatterns are heuristics for credentials that tend to end up in diffs.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWT
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in text with Placeholder.
func Secrets(text string) string {
	for _, pat := range secretPatterns {
		text = pat.ReplaceAllLiteralString(text, Placeholder)
	}
	return text
}

// Policy decides what exported review text is hidden.
type Policy struct {
	// Secrets enables pattern-based secret redaction.
	Secrets bool
	// Paths withholds whole snippets for files matching these doublestar
	// patterns.
	Paths []string
}

// Text applies secret redaction when enabled.
func (p Policy) Text(text string) string {
	if !p.Secrets {
		return text
	}
	return Secrets(text)
}

// Snippet redacts diff lines taken from path.
func (p Policy) Snippet(path, snippet string) string {
	if gitctx.MatchesAny(path, p.Paths) {
		return Placeholder + " (withheld by path policy)"
	}
	return p.Text(snippet)
}
