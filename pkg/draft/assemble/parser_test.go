package assemble

import (
	"strings"
	"testing"
)

func TestParseWellFormedResponse(t *testing.T) {
	raw := `Summary:
Starting a vegetable garden requires planning around light and soil.

Key Insights:
- Pick a spot with 6+ hours of sun
- Start with forgiving crops like lettuce
- Water deeply but infrequently

Conclusion:
With the right spot and a few hardy crops, a first garden is very achievable.`

	got := Parse(raw)

	if !strings.Contains(got.Summary, "planning around light and soil") {
		t.Errorf("summary = %q", got.Summary)
	}
	if len(got.Insights) != 3 {
		t.Fatalf("insights = %d, want 3: %v", len(got.Insights), got.Insights)
	}
	if got.Insights[0] != "Pick a spot with 6+ hours of sun" {
		t.Errorf("insight[0] = %q, bullet prefix should be stripped", got.Insights[0])
	}
	if !strings.Contains(got.Conclusion, "very achievable") {
		t.Errorf("conclusion = %q", got.Conclusion)
	}
}

func TestParseHeadingVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"markdown headings", "## Summary\ntext\n## Insights\n- one\n## Conclusion\ndone"},
		{"bold markers", "**Summary**\ntext\n**Key Points**\n- one\n**Conclusion**\ndone"},
		{"mixed case with colons", "SUMMARY:\ntext\nkey insights:\n- one\nConclusion:\ndone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if got.Summary != "text" {
				t.Errorf("summary = %q, want text", got.Summary)
			}
			if len(got.Insights) != 1 || got.Insights[0] != "one" {
				t.Errorf("insights = %v, want [one]", got.Insights)
			}
			if got.Conclusion != "done" {
				t.Errorf("conclusion = %q, want done", got.Conclusion)
			}
		})
	}
}

func TestParseNumberedInsights(t *testing.T) {
	raw := "Summary:\ns\nInsights:\n1. first\n2) second\nConclusion:\nc"
	got := Parse(raw)

	if len(got.Insights) != 2 || got.Insights[0] != "first" || got.Insights[1] != "second" {
		t.Errorf("insights = %v, want [first second]", got.Insights)
	}
}

// No recognizable markers: the whole response becomes the summary rather than
// failing the request.
func TestParseUnstructuredResponse(t *testing.T) {
	raw := "The model just rambled on without any structure at all.\nSecond line too."
	got := Parse(raw)

	if got.Summary != raw {
		t.Errorf("summary = %q, want the full raw text", got.Summary)
	}
	if len(got.Insights) != 0 {
		t.Errorf("insights = %v, want none", got.Insights)
	}
	if got.Conclusion != "" {
		t.Errorf("conclusion = %q, want empty", got.Conclusion)
	}
}

func TestRenderMarkdown(t *testing.T) {
	s := Sections{
		Summary:    "A summary.",
		Insights:   []string{"one", "two"},
		Conclusion: "The end.",
	}

	md := RenderMarkdown(s)
	for _, want := range []string{"# Summary", "A summary.", "## Key Insights", "- one", "- two", "## Conclusion", "The end."} {
		if !strings.Contains(md, want) {
			t.Errorf("rendered markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderMarkdownOmitsEmptySections(t *testing.T) {
	md := RenderMarkdown(Sections{Summary: "Only a summary."})

	if strings.Contains(md, "## Key Insights") || strings.Contains(md, "## Conclusion") {
		t.Errorf("empty sections should be omitted:\n%s", md)
	}
}

func TestParseRoundTripsThroughRender(t *testing.T) {
	original := Sections{
		Summary:    "A summary.",
		Insights:   []string{"one", "two"},
		Conclusion: "The end.",
	}

	got := Parse(RenderMarkdown(original))
	if got.Summary != original.Summary {
		t.Errorf("summary = %q, want %q", got.Summary, original.Summary)
	}
	if len(got.Insights) != 2 {
		t.Errorf("insights = %v", got.Insights)
	}
	if got.Conclusion != original.Conclusion {
		t.Errorf("conclusion = %q, want %q", got.Conclusion, original.Conclusion)
	}
}
