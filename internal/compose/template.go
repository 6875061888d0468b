package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template holds the message wording. The exact phrasing is a configuration
// concern, not a correctness one; the only hard requirement is that the final
// step stays textually distinguishable from ordinary steps.
//
// Fields containing printf verbs are formatted by the composer:
// FinalTitle and StepMarker get (step, total), NoticesTitle gets the pending
// count, MoreNotices gets the number of hidden summaries, and Annotation gets
// the free-text annotation.
type Template struct {
	Header       string   `yaml:"header"`
	FinalTitle   string   `yaml:"final_title"`
	FinalLines   []string `yaml:"final_lines"`
	StepMarker   string   `yaml:"step_marker"`
	NoticesTitle string   `yaml:"notices_title"`
	MoreNotices  string   `yaml:"more_notices"`
	Annotation   string   `yaml:"annotation"`
}

// DefaultTemplate returns the built-in wording, following the layout the
// assistant is primed for.
func DefaultTemplate() Template {
	return Template{
		Header:     "System notification:",
		FinalTitle: "[Session %d/%d - Reflection & Diary]",
		FinalLines: []string{
			"This session is for:",
			"",
			"[Diary]",
			"- Record this cycle's activities to the experience log",
			"- Write a diary entry",
			"",
			"[Memory Organization]",
			"- Review working memory",
			"- Move important info to long-term memory",
			"",
			"After this session, a new cycle begins.",
		},
		StepMarker:   "Session %d/%d",
		NoticesTitle: "You have %d pending notices:",
		MoreNotices:  "...and %d more",
		Annotation:   "Message: %s",
	}
}

// LoadTemplate reads a YAML template file and merges it over the defaults.
// An empty path returns the defaults unchanged. A missing or malformed file
// is an error: the template is startup configuration and must not fail
// silently mid-cycle.
func LoadTemplate(path string) (Template, error) {
	tpl := DefaultTemplate()
	if path == "" {
		return tpl, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tpl, fmt.Errorf("failed to read template file: %w", err)
	}

	var override Template
	if err := yaml.Unmarshal(data, &override); err != nil {
		return tpl, fmt.Errorf("failed to parse template file: %w", err)
	}

	if override.Header != "" {
		tpl.Header = override.Header
	}
	if override.FinalTitle != "" {
		tpl.FinalTitle = override.FinalTitle
	}
	if len(override.FinalLines) > 0 {
		tpl.FinalLines = override.FinalLines
	}
	if override.StepMarker != "" {
		tpl.StepMarker = override.StepMarker
	}
	if override.NoticesTitle != "" {
		tpl.NoticesTitle = override.NoticesTitle
	}
	if override.MoreNotices != "" {
		tpl.MoreNotices = override.MoreNotices
	}
	if override.Annotation != "" {
		tpl.Annotation = override.Annotation
	}

	return tpl, nil
}
