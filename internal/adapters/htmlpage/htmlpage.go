// Package htmlpage adapts a static HTML snapshot to the extract.Page port.
// It backs extractor tests and the collector's --replay mode over previously
// dumped pages; clicks are no-ops because a snapshot cannot change.
package htmlpage

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"reviewpulse/internal/extract"
)

// Parse decodes r to UTF-8 (sniffing the charset from contentType and the
// byte stream) and parses it into a Page.
func Parse(r io.Reader, contentType string) (extract.Page, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return nil, err
		}
		decoded = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}
	// script/style text is never review content
	doc.Find("script,noscript,style").Remove()
	return node{sel: doc.Selection}, nil
}

// FromString parses an in-memory UTF-8 document.
func FromString(html string) (extract.Page, error) {
	return Parse(strings.NewReader(html), "text/html; charset=utf-8")
}

type node struct {
	sel *goquery.Selection
}

func (n node) Find(selector string) []extract.Node {
	var out []extract.Node
	n.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, node{sel: s})
	})
	return out
}

func (n node) Attr(name string) string {
	return n.sel.AttrOr(name, "")
}

func (n node) Text() string {
	return n.sel.Text()
}

// Click is a no-op: snapshots are inert.
func (n node) Click() error { return nil }

func (n node) Key() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	return fmt.Sprintf("%p", n.sel.Nodes[0])
}
