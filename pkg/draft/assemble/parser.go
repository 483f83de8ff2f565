package assemble

import (
	"regexp"
	"strings"
)

// Sections is the structured form of a generated draft.
type Sections struct {
	Summary    string
	Insights   []string
	Conclusion string
}

var (
	summaryHeading    = regexp.MustCompile(`(?i)^\W*summary\W*$`)
	insightsHeading   = regexp.MustCompile(`(?i)^\W*(key\s+insights|insights|key\s+points)\W*$`)
	conclusionHeading = regexp.MustCompile(`(?i)^\W*conclusion\W*$`)
	bulletPrefix      = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
)

// Parse splits model output into summary, insights, and conclusion. Models
// format headings inconsistently (markdown, bold markers, trailing colons), so
// matching is tolerant; output with no recognizable headings becomes a
// summary-only draft rather than an error.
func Parse(text string) Sections {
	const (
		sectionNone = iota
		sectionSummary
		sectionInsights
		sectionConclusion
	)

	var summary, conclusion []string
	var insights []string
	current := sectionNone
	sawHeading := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case summaryHeading.MatchString(trimmed):
			current = sectionSummary
			sawHeading = true
			continue
		case insightsHeading.MatchString(trimmed):
			current = sectionInsights
			sawHeading = true
			continue
		case conclusionHeading.MatchString(trimmed):
			current = sectionConclusion
			sawHeading = true
			continue
		}

		if trimmed == "" {
			continue
		}

		switch current {
		case sectionSummary, sectionNone:
			summary = append(summary, trimmed)
		case sectionInsights:
			insights = append(insights, strings.TrimSpace(bulletPrefix.ReplaceAllString(trimmed, "")))
		case sectionConclusion:
			conclusion = append(conclusion, trimmed)
		}
	}

	if !sawHeading {
		return Sections{Summary: strings.TrimSpace(text)}
	}

	return Sections{
		Summary:    strings.Join(summary, " "),
		Insights:   insights,
		Conclusion: strings.Join(conclusion, " "),
	}
}

// RenderMarkdown produces the canonical document text shown to the user and
// written by the export endpoint.
func RenderMarkdown(s Sections) string {
	var sb strings.Builder

	sb.WriteString("# Summary\n\n")
	sb.WriteString(s.Summary)
	sb.WriteString("\n")

	if len(s.Insights) > 0 {
		sb.WriteString("\n## Key Insights\n\n")
		for _, insight := range s.Insights {
			sb.WriteString("- ")
			sb.WriteString(insight)
			sb.WriteString("\n")
		}
	}

	if s.Conclusion != "" {
		sb.WriteString("\n## Conclusion\n\n")
		sb.WriteString(s.Conclusion)
		sb.WriteString("\n")
	}

	return sb.String()
}
