package pipeline

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot terminate its <style>
// element early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// ExtractTitle returns the text of the first <title> or, failing that, the
// first <h1> in htmlContent, whitespace-collapsed. Empty if neither exists.
func ExtractTitle(htmlContent string) string {
	z := html.NewTokenizer(strings.NewReader(htmlContent))

	var h1 string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return h1
		case html.StartTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Title:
				if t := collapseSpace(textUntilEnd(z, atom.Title)); t != "" {
					return t
				}
			case atom.H1:
				if h1 == "" {
					h1 = collapseSpace(textUntilEnd(z, atom.H1))
				}
			}
		}
	}
}

// textUntilEnd concatenates text tokens up to the matching end tag.
func textUntilEnd(z *html.Tokenizer, end atom.Atom) string {
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == end {
				return b.String()
			}
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
