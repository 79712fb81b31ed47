package chat

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/blockview/blockview/internal/block"
)

const assistantPrompt = `You are a reading assistant embedded in a PDF viewer. The user has selected one block of a document and wants to discuss it.

Rules:
- Answer questions about the selected block's content only; say so when the answer is not in it
- Be concise: a few sentences unless the user asks for more
- Quote the block verbatim when the user asks what it says
- Respond in Markdown`

// BuildSystemPrompt assembles the system prompt for a conversation about
// one block. Block markup is converted to Markdown so the model sees
// table and list structure rather than raw tags.
func BuildSystemPrompt(docTitle string, b *block.Block) string {
	var sb strings.Builder
	sb.WriteString(assistantPrompt)
	sb.WriteString("\n\n---\n")
	if docTitle != "" {
		sb.WriteString(fmt.Sprintf("Document: %q\n", docTitle))
	}
	sb.WriteString(fmt.Sprintf("Block type: %s (page %d)\n", b.Type, b.PageIndex+1))
	sb.WriteString("Selected block content:\n\n")
	sb.WriteString(blockMarkdown(b))
	return sb.String()
}

// blockMarkdown converts the block's HTML to Markdown, falling back to
// the raw content when conversion fails.
func blockMarkdown(b *block.Block) string {
	if b.HTML == "" {
		return "(empty block)"
	}
	md, err := htmltomarkdown.ConvertString(b.HTML)
	if err != nil || strings.TrimSpace(md) == "" {
		return b.HTML
	}
	return strings.TrimSpace(md)
}
