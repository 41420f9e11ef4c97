package security

import (
	"strings"
	"testing"
)

func TestSanitize_RemovesScriptAndEvents(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<p onclick="alert(1)">決定事項</p><script>steal()</script>`)

	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Errorf("dangerous content should be removed, got %q", got)
	}
	if !strings.Contains(got, "<p>決定事項</p>") {
		t.Errorf("allowed markup should survive, got %q", got)
	}
}

func TestSanitize_KeepsAllowedStructure(t *testing.T) {
	s := NewContentSanitizer()

	input := `<h2>議題</h2><ul><li>予算の確認</li></ul><pre><code>x := 1</code></pre>`
	got := s.Sanitize(input)

	for _, tag := range []string{"<h2>", "<ul>", "<li>", "<pre>", "<code>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("tag %s should survive, got %q", tag, got)
		}
	}
}

func TestSanitize_LinkSchemes(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<a href="javascript:alert(1)">悪</a><a href="https://example.com">良</a>`)

	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript scheme should be removed, got %q", got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("https link should survive, got %q", got)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewContentSanitizer()

	input := `<p>本文<iframe src="https://evil.example"></iframe></p>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("sanitize should be idempotent: %q vs %q", once, twice)
	}
}

func TestSanitize_EmptyInput(t *testing.T) {
	s := NewContentSanitizer()
	if got := s.Sanitize(""); got != "" {
		t.Errorf("empty input should yield empty output, got %q", got)
	}
}

func TestStripTags_ProducesPlainText(t *testing.T) {
	s := NewContentSanitizer()

	got := s.StripTags(`<h2>議題</h2><p>予算を<strong>確認</strong>する</p>`)

	if strings.ContainsAny(got, "<>") {
		t.Errorf("all tags should be stripped, got %q", got)
	}
	if !strings.Contains(got, "予算を") || !strings.Contains(got, "確認") {
		t.Errorf("text content should survive, got %q", got)
	}
}
