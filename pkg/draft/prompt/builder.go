package prompt

import (
	"fmt"
	"strings"

	"smartdraft-be/pkg/retrieval"
)

// maxChunkChars bounds how much of each retrieved chunk enters the prompt so
// small-context models are not flooded by a single long passage.
const maxChunkChars = 500

// Build renders the generation prompt: ranked context first, then the
// structural instruction. The layout is deterministic for a given input, which
// keeps the result cache honest.
func Build(userPrompt string, chunks []retrieval.Chunk) string {
	var sb strings.Builder

	sb.WriteString("You are a drafting assistant. Use ONLY the context below to write the document.\n\n")
	sb.WriteString("CONTEXT:\n")
	for i, chunk := range chunks {
		text := chunk.Text
		// Truncate on rune boundaries so a multibyte character is never cut
		// in half.
		if runes := []rune(text); len(runes) > maxChunkChars {
			text = string(runes[:maxChunkChars])
		}
		fmt.Fprintf(&sb, "[%d] (%s, relevance %.2f)\n%s\n\n", i+1, chunk.Title, chunk.Score, text)
	}

	sb.WriteString("TASK:\n")
	sb.WriteString(userPrompt)
	sb.WriteString("\n\n")
	sb.WriteString("Respond in exactly this structure:\n")
	sb.WriteString("Summary:\n<a concise summary paragraph>\n\n")
	sb.WriteString("Key Insights:\n- <insight 1>\n- <insight 2>\n(2 to 4 insights total)\n\n")
	sb.WriteString("Conclusion:\n<a short closing paragraph>\n")

	return sb.String()
}
