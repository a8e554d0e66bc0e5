package pipeline

import (
	"context"
	"html"
	"strings"

	"github.com/alnah/go-invoice/internal/docx"
)

// MarkdownRenderer turns a WordprocessingML document into Markdown.
type MarkdownRenderer interface {
	ToMarkdown(ctx context.Context, doc *docx.Document) (string, error)
}

// DocxMarkdown renders body paragraphs and tables as GFM.
// The first row of every table becomes the header row.
type DocxMarkdown struct{}

// headingPrefix maps paragraph style IDs to Markdown heading markers.
var headingPrefix = map[string]string{
	"Title":    "# ",
	"Heading1": "## ",
	"Heading2": "### ",
	"Heading3": "#### ",
}

// markdownEscaper escapes characters with inline meaning in GFM.
// HTML-special characters are turned into entities first.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`|`, `\|`,
	`~`, `\~`,
	`#`, `\#`,
	`!`, `\!`,
)

// ToMarkdown renders doc's body in document order.
func (DocxMarkdown) ToMarkdown(ctx context.Context, doc *docx.Document) (string, error) {
	var sb strings.Builder
	for _, b := range doc.Blocks() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		switch b := b.(type) {
		case *docx.Paragraph:
			writeParagraph(&sb, b)
		case *docx.Table:
			writeTable(&sb, b)
		}
	}
	return sb.String(), nil
}

func writeParagraph(sb *strings.Builder, p *docx.Paragraph) {
	text := p.Text()
	if strings.TrimSpace(text) == "" {
		return
	}

	prefix, heading := headingPrefix[p.Style()]
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = escapeText(line)
	}

	if heading {
		sb.WriteString(prefix)
		sb.WriteString(strings.Join(lines, " "))
		sb.WriteString("\n\n")
		return
	}

	body := strings.Join(lines, "<br>")
	switch p.Alignment() {
	case "center", "right", "end":
		align := p.Alignment()
		if align == "end" {
			align = "right"
		}
		sb.WriteString(`<p align="` + align + `">` + body + "</p>\n\n")
	default:
		sb.WriteString(escapeBlockStart(body))
		sb.WriteString("\n\n")
	}
}

func writeTable(sb *strings.Builder, t *docx.Table) {
	rows := t.Rows()
	if len(rows) == 0 {
		return
	}

	cols := 0
	grid := make([][]*docx.Cell, len(rows))
	for i, r := range rows {
		grid[i] = r.Cells()
		cols = max(cols, len(grid[i]))
	}
	if cols == 0 {
		return
	}

	writeRow := func(cells []*docx.Cell) {
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			text := ""
			if i < len(cells) {
				text = cellMarkdown(cells[i])
			}
			sb.WriteString(" " + text + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(grid[0])
	sb.WriteString("|")
	for i := 0; i < cols; i++ {
		align := ""
		if i < len(grid[0]) {
			align = grid[0][i].Alignment()
		}
		sb.WriteString(" " + delimiter(align) + " |")
	}
	sb.WriteString("\n")
	for _, cells := range grid[1:] {
		writeRow(cells)
	}
	sb.WriteString("\n")
}

func cellMarkdown(c *docx.Cell) string {
	lines := strings.Split(c.Text(), "\n")
	for i, line := range lines {
		lines[i] = escapeText(line)
	}
	return strings.TrimSpace(strings.Join(lines, "<br>"))
}

func delimiter(align string) string {
	switch align {
	case "right", "end":
		return "---:"
	case "center":
		return ":---:"
	default:
		return "---"
	}
}

func escapeText(s string) string {
	return markdownEscaper.Replace(html.EscapeString(s))
}

// escapeBlockStart keeps a paragraph from being read as a list, quote or
// thematic break.
func escapeBlockStart(s string) string {
	trimmed := strings.TrimLeft(s, " ")
	if trimmed == "" {
		return s
	}
	switch trimmed[0] {
	case '-', '+', '=':
		return `\` + trimmed
	}
	// Ordered list marker: digits followed by '.' or ')'.
	i := 0
	for i < len(trimmed) && i < 9 && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i > 0 && i < len(trimmed) && (trimmed[i] == '.' || trimmed[i] == ')') {
		return trimmed[:i] + `\` + trimmed[i:]
	}
	return trimmed
}
