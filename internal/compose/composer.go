// Package compose builds the deterministic text payload sent to the
// assistant process for each session invocation.
//
// A message has up to four sections, joined by blank lines in a fixed order:
// header with the current wall-clock time, step marker (expanded for the
// final reflection step), pending-notices block, and the optional free-text
// annotation. Omitted sections leave no blank-line artifacts.
package compose

import (
	"fmt"
	"strings"
	"time"

	"github.com/aatumaykin/sessiond/internal/constants"
	"github.com/aatumaykin/sessiond/internal/cycle"
)

// Composer renders session messages from a template and a fixed annotation.
type Composer struct {
	tpl        Template
	annotation string
}

// New creates a composer. The annotation is appended verbatim to every
// message; an empty annotation produces no trailer section.
func New(tpl Template, annotation string) *Composer {
	return &Composer{
		tpl:        tpl,
		annotation: annotation,
	}
}

// Build renders the message for one session invocation. The notices slice may
// be longer than the display cap; only the first few summaries are rendered,
// followed by a count of the rest.
func (c *Composer) Build(req cycle.Request, now time.Time, notices []string) string {
	sections := []string{
		c.tpl.Header + "\nCurrent time: " + now.Format(constants.TimestampLayout),
		c.stepSection(req),
	}

	if len(notices) > 0 {
		sections = append(sections, c.noticesSection(notices))
	}

	if c.annotation != "" {
		sections = append(sections, fmt.Sprintf(c.tpl.Annotation, c.annotation))
	}

	return strings.Join(sections, "\n\n")
}

// stepSection renders the step marker: a single line for ordinary steps, the
// expanded reflection block for the final step of the cycle.
func (c *Composer) stepSection(req cycle.Request) string {
	if !req.Final {
		return fmt.Sprintf(c.tpl.StepMarker, req.Step, req.TotalSteps)
	}

	lines := make([]string, 0, len(c.tpl.FinalLines)+1)
	lines = append(lines, fmt.Sprintf(c.tpl.FinalTitle, req.Step, req.TotalSteps))
	lines = append(lines, c.tpl.FinalLines...)
	return strings.Join(lines, "\n")
}

// noticesSection renders the titled notice list, truncated to the display cap.
func (c *Composer) noticesSection(notices []string) string {
	shown := notices
	hidden := 0
	if len(shown) > constants.MaxNoticesShown {
		hidden = len(shown) - constants.MaxNoticesShown
		shown = shown[:constants.MaxNoticesShown]
	}

	lines := make([]string, 0, len(shown)+2)
	lines = append(lines, fmt.Sprintf(c.tpl.NoticesTitle, len(notices)))
	for _, n := range shown {
		lines = append(lines, "- "+n)
	}
	if hidden > 0 {
		lines = append(lines, fmt.Sprintf(c.tpl.MoreNotices, hidden))
	}
	return strings.Join(lines, "\n")
}
