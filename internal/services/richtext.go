package services

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// richtextPipeline converts between the authored markdown source and the
// sanitised HTML served to clients. Imported HTML is normalised back to
// markdown so every article has a single canonical source.
type richtextPipeline struct {
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
	converter *md.Converter
}

func newRichtextPipeline() *richtextPipeline {
	return &richtextPipeline{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		sanitizer: bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

// Render converts markdown to sanitised HTML.
func (p *richtextPipeline) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(p.sanitizer.Sanitize(buf.String())), nil
}

// Import converts pasted HTML to markdown. The HTML is sanitised before
// conversion so script payloads never reach the stored source.
func (p *richtextPipeline) Import(rawHTML string) (string, error) {
	clean := p.sanitizer.Sanitize(rawHTML)
	markdown, err := p.converter.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("import html: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
