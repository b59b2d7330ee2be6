// Package sanitize reduces provider HTML to a safe body-only fragment.
//
// Everything not on the allow-list is stripped: comments, scripts, document
// structure, unknown attributes and CSS properties. Inline cid: references are
// resolved against the message's attachments so images render without any
// implicit remote fetch.
package sanitize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InlinePart is an attachment resolvable from a cid: reference in the body.
type InlinePart struct {
	Filename string
	MimeType string
	Data     string // base64, standard encoding
}

var (
	docTypeRe = regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>`)
	headRe    = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlTagRe = regexp.MustCompile(`(?i)</?(html|body)[^>]*>`)
	srcCIDRe  = regexp.MustCompile(`src="cid:([^"]+)"`)
	hrefCIDRe = regexp.MustCompile(`href="cid:([^"]+)"`)

	dataBase64Re = regexp.MustCompile(`^[a-z0-9.+-]+/[a-z0-9.+-]+;base64,`)
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"div", "span", "p", "h1", "h2", "h3", "h4", "h5", "h6",
		"a", "img", "table", "tr", "td", "th", "tbody", "thead", "tfoot",
		"ul", "ol", "li", "br", "hr", "blockquote", "strong", "b",
		"em", "i", "u", "strike", "code", "pre", "font",
	)

	p.AllowAttrs("class", "id", "title").Globally()
	p.AllowAttrs("href", "target", "rel", "download").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height", "border").OnElements("img")
	p.AllowAttrs("width", "height", "border", "cellpadding", "cellspacing",
		"align", "bgcolor", "dir", "lang").OnElements("table")
	p.AllowAttrs("width", "height", "align", "valign", "bgcolor", "colspan",
		"rowspan", "dir", "lang", "nowrap", "scope").OnElements("td", "th")
	p.AllowAttrs("align", "valign", "bgcolor", "dir", "lang").OnElements("tr", "tbody", "thead", "tfoot")
	p.AllowAttrs("width", "height", "align", "bgcolor", "dir", "lang").OnElements("div", "span", "p")
	p.AllowAttrs("color", "size", "face", "dir", "lang").OnElements("font")

	p.AllowAttrs("style").Globally()
	p.AllowStyles(
		"color", "background-color", "background-image", "background",
		"font-family", "font-size", "font-weight", "font-style",
		"text-align", "text-decoration", "line-height",
		"margin", "padding", "border", "border-radius",
		"width", "height", "max-width", "max-height",
		"display", "position", "top", "left", "right", "bottom",
		"float", "clear", "overflow", "z-index",
		"border-collapse", "border-spacing", "table-layout",
		"vertical-align", "white-space",
		"border-style", "border-width", "border-color",
		"border-top", "border-right", "border-bottom", "border-left",
	).Globally()

	// data: URLs carry resolved inline attachments: images on img tags,
	// base64 download links on anchors. Markup-capable types stay out.
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowDataURIImages()
	p.AllowURLSchemeWithCustomPolicy("data", func(u *url.URL) bool {
		if strings.HasPrefix(u.Opaque, "text/html") || strings.HasPrefix(u.Opaque, "image/svg") {
			return false
		}
		return dataBase64Re.MatchString(u.Opaque)
	})

	return p
}

// HTML strips a full HTML document down to a sanitized body fragment.
func HTML(content string) string {
	content = docTypeRe.ReplaceAllString(content, "")
	content = headRe.ReplaceAllString(content, "")
	content = htmlTagRe.ReplaceAllString(content, "")
	return strings.TrimSpace(policy.Sanitize(content))
}

// ResolveCIDs replaces cid: references with inline data. Image attachments
// become data URIs; anything else becomes a downloadable data link. Unknown
// cids are left untouched.
func ResolveCIDs(html string, parts map[string]InlinePart) string {
	if len(parts) == 0 {
		return html
	}

	html = srcCIDRe.ReplaceAllStringFunc(html, func(m string) string {
		cid := srcCIDRe.FindStringSubmatch(m)[1]
		part, ok := parts[cid]
		if !ok {
			return m
		}
		if strings.HasPrefix(part.MimeType, "image/") {
			return fmt.Sprintf(`src="data:%s;base64,%s"`, part.MimeType, part.Data)
		}
		return fmt.Sprintf(`href="data:%s;base64,%s" download="%s"`, part.MimeType, part.Data, part.Filename)
	})

	html = hrefCIDRe.ReplaceAllStringFunc(html, func(m string) string {
		cid := hrefCIDRe.FindStringSubmatch(m)[1]
		part, ok := parts[cid]
		if !ok {
			return m
		}
		return fmt.Sprintf(`href="data:%s;base64,%s" download="%s"`, part.MimeType, part.Data, part.Filename)
	})

	return html
}
