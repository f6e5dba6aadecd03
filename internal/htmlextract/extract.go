// Package htmlextract consumes an HTML token stream (golang.org/x/net/html)
// and emits link/anchor records into a worker's LinkStore: one Used entry
// per outbound link, one anchor id per element that declares one, and (when
// context is requested) the normalized surrounding text for the
// source-mapper.
package htmlextract

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/golink-dev/golink/internal/href"
	"github.com/golink-dev/golink/internal/store"
)

// targetAttrs maps an element name to the attribute that carries its link
// target.
var targetAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"area":   "href",
	"img":    "src",
	"script": "src",
	"iframe": "src",
	"audio":  "src",
	"video":  "src",
	"source": "src",
	"embed":  "src",
	"track":  "src",
	"object": "data",
}

// Extract reads r (the content of the HTML document with DocumentId doc) and
// applies every outbound link and declared anchor it finds to s. alias, if
// non-empty, is a second DocumentId that names the same content (the
// directory form of an index.html file) and receives every anchor
// declared on doc as well. When hashContext is non-nil, each outbound link's
// Use also carries a ParagraphHash, computed by hashContext, of the
// whitespace-normalized text seen since the previous outbound link (or the
// start of the document) up to the link's own tag. Text after the link, and
// paragraph boundaries, are not taken into account. A nil hashContext
// disables context recording.
func Extract(r io.Reader, doc, alias string, s *store.LinkStore, hashContext func(context string) store.ParagraphHash) error {
	z := html.NewTokenizer(r)
	var textBuf strings.Builder
	seenAnchors := make(map[string]struct{})

	flushText := func() string {
		t := normalizeSpace(textBuf.String())
		textBuf.Reset()
		return t
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return err
			}
			return nil

		case html.TextToken:
			textBuf.Write(z.Text())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			attrs := map[string]string{}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				attrs[string(key)] = string(val)
			}

			declareAnchor := func(v string) {
				if v == "" {
					return
				}
				if _, dup := seenAnchors[v]; !dup {
					seenAnchors[v] = struct{}{}
					s.InsertDefined(doc, []string{v})
					if alias != "" {
						s.InsertDefined(alias, []string{v})
					}
				}
			}
			if tag == "a" {
				// "a" declares an anchor via either "name" or "id".
				declareAnchor(attrs["name"])
			}
			declareAnchor(attrs["id"])

			if tag == "meta" {
				if strings.EqualFold(attrs["http-equiv"], "refresh") {
					if target, ok := refreshTarget(attrs["content"]); ok {
						emitLink(s, doc, target, flushText(), hashContext)
					}
				}
				continue
			}

			attrName, ok := targetAttrs[tag]
			if !ok {
				continue
			}
			raw, ok := attrs[attrName]
			if !ok {
				continue
			}
			emitLink(s, doc, raw, flushText(), hashContext)
		}
	}
}

func emitLink(s *store.LinkStore, doc, raw, context string, hashContext func(string) store.ParagraphHash) {
	h, ok := href.Resolve(raw, doc)
	if !ok {
		return
	}
	var ctx store.ParagraphHash
	if hashContext != nil {
		ctx = hashContext(context)
	}
	s.InsertUse(h.Path, store.Use{Source: doc, Anchor: h.Anchor, Context: ctx})
}

// refreshTarget extracts the URL substring after ";url=" from a
// meta[http-equiv=refresh] content attribute, e.g. "5;url=/next.html".
func refreshTarget(content string) (string, bool) {
	lower := strings.ToLower(content)
	i := strings.Index(lower, "url=")
	if i < 0 {
		return "", false
	}
	target := strings.TrimSpace(content[i+len("url="):])
	target = strings.Trim(target, `"'`)
	if target == "" {
		return "", false
	}
	return target, true
}

// normalizeSpace collapses runs of whitespace into single spaces and trims
// the ends, matching the normalization the source-mapper expects so the same
// normalized text hashes identically on both the HTML and Markdown side.
func normalizeSpace(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range s {
		if isSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}
