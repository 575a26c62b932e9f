package bodytext

import (
	"strings"

	"golang.org/x/net/html"
)

// Tags whose end (or occurrence, for void tags) terminates a visual line.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "ul": true, "ol": true,
	"table": true, "blockquote": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// HTMLToText converts an HTML body to readable plain text: tags are
// stripped, entities decoded, block-level elements collapsed to line
// breaks, and script/style content dropped entirely. The output is
// line-oriented best effort, not a layout-preserving reflow.
func HTMLToText(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	skip := 0

	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			return cleanLines(b.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if tt == html.StartTagToken {
					skip++
				}
			case "br":
				b.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if skip > 0 {
					skip--
				}
			case blockTags[tag]:
				b.WriteByte('\n')
			}

		case html.TextToken:
			if skip == 0 {
				// Text() decodes character entities
				b.Write(z.Text())
			}
		}
	}
}

// cleanLines trims each line and drops empty ones so the rendered text
// reads as a compact block.
func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
