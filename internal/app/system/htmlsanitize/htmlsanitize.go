// Package htmlsanitize cleans HTML that ends up on public pages: post bodies
// written in the admin editor and article drafts returned by the generator.
// It uses bluemonday to strip dangerous markup while keeping formatting.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// bodyPolicy is the policy for editor-written post bodies.
	bodyPolicy     *bluemonday.Policy
	bodyPolicyOnce sync.Once

	// articlePolicy is the narrower policy for generated drafts.
	articlePolicy     *bluemonday.Policy
	articlePolicyOnce sync.Once
)

func getBodyPolicy() *bluemonday.Policy {
	bodyPolicyOnce.Do(func() {
		bodyPolicy = bluemonday.UGCPolicy()

		// Tables and inline formatting from the rich text editor
		bodyPolicy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		bodyPolicy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		bodyPolicy.AllowElements("u", "s", "sub", "sup", "mark", "figure", "figcaption")

		bodyPolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("pre", "code", "span")
		bodyPolicy.RequireNoReferrerOnLinks(true)
		bodyPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return bodyPolicy
}

// getArticlePolicy allows only section headings, paragraphs, lists and
// inline emphasis. Anything else, h1 included, is reduced to its text.
func getArticlePolicy() *bluemonday.Policy {
	articlePolicyOnce.Do(func() {
		articlePolicy = bluemonday.NewPolicy()
		articlePolicy.AllowElements("h2", "h3", "p", "ul", "ol", "li", "strong", "em", "b", "i", "br", "blockquote", "code")
	})
	return articlePolicy
}

// Sanitize cleans a post body, keeping editor formatting such as links,
// images, lists, code blocks and tables.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getBodyPolicy().Sanitize(html)
}

// SanitizeArticle cleans generated article HTML.
func SanitizeArticle(html string) string {
	if html == "" {
		return ""
	}
	return getArticlePolicy().Sanitize(html)
}

// IsPlainText reports whether content has no HTML tags. Seeded and imported
// posts are sometimes plain text.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes text and turns blank-line separated blocks into
// paragraphs, with single newlines as <br>.
func PlainTextToHTML(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(template.HTMLEscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// Body prepares a stored post body for the public API: plain text is
// converted to paragraphs, HTML is sanitized.
func Body(content string) string {
	if IsPlainText(content) {
		return PlainTextToHTML(content)
	}
	return Sanitize(content)
}
