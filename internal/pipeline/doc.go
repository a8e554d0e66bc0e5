// Package pipeline renders a filled invoice document to HTML for the
// browser PDF path.
//
// Stages:
//   - WordprocessingML body to GitHub-flavored Markdown
//   - Markdown normalization (line endings, blank lines)
//   - Markdown to HTML conversion via Goldmark
//   - CSS injection into the HTML document
//
// PDF printing is handled by the root invoice package using headless
// Chrome (go-rod). LibreOffice, when available, converts the .docx
// directly and never goes through this package.
package pipeline
