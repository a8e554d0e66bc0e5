package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/alnah/go-invoice/internal/assets"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no escape needed", input: "td { padding: 4pt; }", expected: "td { padding: 4pt; }"},
		{name: "escapes style close", input: "</style>", expected: `<\/style>`},
		{name: "multiple occurrences", input: "</a></b>", expected: `<\/a><\/b>`},
		{name: "case variation", input: "</STYLE>", expected: `<\/STYLE>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	const css = "table { width: 100%; }"

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "empty CSS returns HTML unchanged",
			html:     "<html><head></head><body>Invoice</body></html>",
			css:      "",
			expected: "<html><head></head><body>Invoice</body></html>",
		},
		{
			name:     "injects before </head>",
			html:     "<html><head></head><body>Invoice</body></html>",
			css:      css,
			expected: "<html><head><style>" + css + "</style></head><body>Invoice</body></html>",
		},
		{
			name:     "injects after <body> with attributes when no </head>",
			html:     `<html><BODY class="inv">Invoice</BODY></html>`,
			css:      css,
			expected: `<html><BODY class="inv"><style>` + css + `</style>Invoice</BODY></html>`,
		},
		{
			name:     "prepends to bare fragment",
			html:     "<table></table>",
			css:      css,
			expected: "<style>" + css + "</style><table></table>",
		},
		{
			name:     "sanitizes CSS with closing tags",
			html:     "<head></head>",
			css:      "</style><script>x()</script>",
			expected: `<head><style><\/style><script>x()<\/script></style></head>`,
		},
	}

	injector := &CSSInjection{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := injector.InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<html><head></head><body>Invoice</body></html>"
	got := (&CSSInjection{}).InjectCSS(ctx, html, "body { color: red; }")
	if got != html {
		t.Errorf("InjectCSS() with cancelled context should return HTML unchanged, got %q", got)
	}
}

func TestInjectCSS_EmbeddedStyle(t *testing.T) {
	t.Parallel()

	css, err := assets.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}

	got := (&CSSInjection{}).InjectCSS(context.Background(), "<html><head></head><body></body></html>", css)
	if !strings.Contains(got, "border-collapse") {
		t.Error("embedded invoice style should be injected")
	}
}
