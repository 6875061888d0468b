package notices

import (
	"strings"

	"github.com/wasilibs/go-re2"
	"golang.org/x/text/unicode/norm"
)

// maxSummaryLen bounds a single rendered summary line.
const maxSummaryLen = 120

// Notice summaries originate from an untrusted inbox and end up inside the
// assistant prompt, so the obvious injection vectors are stripped before the
// composer ever sees them.
var injectionPatterns = []*re2.Regexp{
	re2.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions?|rules?|prompts?)`),
	re2.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior)\s+(instructions?|rules?|prompts?)`),
	re2.MustCompile(`(?i)new\s+instructions?\s*:`),
	re2.MustCompile(`(?i)override\s+(previous|prior|default|system)\s+(instructions?|rules?)`),
	re2.MustCompile(`<\|(?:system|assistant|user|im_start|im_end)[^|]*\|>`),
	re2.MustCompile(`(?i)</?\s*(system|assistant|instructions?)\s*>`),
}

// zeroWidth matches invisible characters used to split phrases past the
// patterns above. They are deleted, not redacted, before matching.
var zeroWidth = re2.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}\x{00AD}]`)

// CleanSummary normalizes a raw summary to a single safe prompt line:
// Unicode is NFKC-normalized, control characters and injection patterns are
// removed, and the result is truncated to maxSummaryLen.
func CleanSummary(s string) string {
	normalized := norm.NFKC.String(s)

	var b strings.Builder
	for _, r := range normalized {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case r >= 32:
			b.WriteRune(r)
		}
	}
	cleaned := zeroWidth.ReplaceAllString(b.String(), "")

	for _, p := range injectionPatterns {
		cleaned = p.ReplaceAllString(cleaned, "[redacted]")
	}

	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxSummaryLen {
		cleaned = cleaned[:maxSummaryLen] + "..."
	}
	return cleaned
}
