package services

import (
	"strings"
	"testing"
)

func TestDetectAndExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "plain text body")

	text, err := DetectAndExtract(path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if text != "plain text body" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestDetectAndExtractHTMLStripsMarkup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.html",
		`<html><head><script>var x = 1;</script></head><body><p>visible content</p></body></html>`)

	text, err := DetectAndExtract(path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(text, "visible content") {
		t.Fatalf("expected body text, got %q", text)
	}
	if strings.Contains(text, "var x") {
		t.Fatalf("script content must be stripped, got %q", text)
	}
}

func TestDetectAndExtractUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "image.png", "not really an image")

	if _, err := DetectAndExtract(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
