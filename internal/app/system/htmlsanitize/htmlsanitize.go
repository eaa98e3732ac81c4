// Package htmlsanitize cleans admin-authored rich text (blog posts, static
// pages) before it is stored. It uses bluemonday to strip dangerous markup
// while keeping the formatting the admin editor produces.
package htmlsanitize

import (
	stdhtml "html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy for sanitizing rich text.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// Start with UGC (User Generated Content) policy as base
		policy = bluemonday.UGCPolicy()

		// Allow tables (for TipTap table extension)
		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		policy.AllowAttrs("class").OnElements("table", "th", "td", "tr")

		// Allow common text formatting
		policy.AllowElements("u", "s", "sub", "sup", "mark")

		// Allow data attributes used by TipTap
		policy.AllowDataAttributes()

		// Allow style attribute on specific elements for tables
		policy.AllowAttrs("style").OnElements("table", "th", "td")
	})
	return policy
}

// Sanitize cleans HTML input, removing potentially dangerous elements and attributes.
// It preserves safe formatting like bold, italic, lists, links, and tables.
// Returns the sanitized HTML string.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

var (
	strict     *bluemonday.Policy
	strictOnce sync.Once

	// blockBreaks separates text that sits in adjacent block elements.
	blockBreaks = strings.NewReplacer(
		"</p>", "</p> ", "</div>", "</div> ", "</li>", "</li> ",
		"</h1>", "</h1> ", "</h2>", "</h2> ", "</h3>", "</h3> ",
		"</h4>", "</h4> ", "</h5>", "</h5> ", "</h6>", "</h6> ",
		"</td>", "</td> ", "</th>", "</th> ", "</blockquote>", "</blockquote> ",
		"<br>", "<br> ", "<br/>", "<br/> ", "<br />", "<br /> ",
	)
)

// Excerpt returns the text of html with all markup removed and whitespace
// collapsed, cut at a word boundary so it is at most max runes long
// (an ellipsis is appended when cut). It is used for meta descriptions and
// list previews.
func Excerpt(html string, max int) string {
	if html == "" || max <= 0 {
		return ""
	}
	strictOnce.Do(func() { strict = bluemonday.StrictPolicy() })

	text := stdhtml.UnescapeString(strict.Sanitize(blockBreaks.Replace(html)))
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max-1])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
