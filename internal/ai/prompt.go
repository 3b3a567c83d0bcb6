package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = `You convert documents to GitHub-flavored Markdown.
Preserve headings, lists, tables, links, and reading order.
Render tabular data as Markdown tables.
Reply with the Markdown only, without commentary or code fences around the whole document.`

func textPrompt(doc Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Convert the following %s document named %q to Markdown.\n\n", doc.MIMEType, doc.Name)
	sb.WriteString("<document>\n")
	sb.Write(doc.Blob)
	sb.WriteString("\n</document>")
	return sb.String()
}

func imagePrompt(doc Document) string {
	return fmt.Sprintf(
		"Transcribe the image %q to Markdown. Reproduce any visible text faithfully. "+
			"If the image has no text, describe its content in a short paragraph.",
		doc.Name,
	)
}

func pagePrompt(doc Document, page, total int) string {
	return fmt.Sprintf("Transcribe page %d of %d of the document %q to Markdown.", page, total, doc.Name)
}

// estimateTokens approximates token usage for backends that do not report it.
func estimateTokens(parts ...string) int {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	return (n + 3) / 4
}
