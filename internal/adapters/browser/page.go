package browser

import (
	pw "github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"reviewpulse/internal/extract"
)

// keyScript stamps a stable identity on an element the first time it is seen,
// so the extractor can dedup elements reached through different probes.
const keyScript = `el => {
	if (!el.__rpKey) {
		window.__rpSeq = (window.__rpSeq || 0) + 1;
		el.__rpKey = "el-" + window.__rpSeq;
	}
	return el.__rpKey;
}`

// LivePage adapts a playwright page to extract.Page. One extraction pass owns
// the page; it is not safe for concurrent structural access.
type LivePage struct {
	page pw.Page
	log  zerolog.Logger
}

var _ extract.Page = (*LivePage)(nil)

func (p *LivePage) Find(selector string) []extract.Node {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		p.log.Debug().Err(err).Str("selector", selector).Msg("page query failed")
		return nil
	}
	return wrapHandles(handles, p.log)
}

func (p *LivePage) Attr(string) string { return "" }

func (p *LivePage) Text() string {
	txt, err := p.page.InnerText("body")
	if err != nil {
		return ""
	}
	return txt
}

func (p *LivePage) Click() error { return nil }

func (p *LivePage) Key() string { return "page" }

// Snapshot returns the current serialized DOM, for dumping and later replay.
func (p *LivePage) Snapshot() (string, error) {
	return p.page.Content()
}

func (p *LivePage) Close() {
	_ = p.page.Close()
}

type liveNode struct {
	h   pw.ElementHandle
	log zerolog.Logger
}

func (n liveNode) Find(selector string) []extract.Node {
	handles, err := n.h.QuerySelectorAll(selector)
	if err != nil {
		n.log.Debug().Err(err).Str("selector", selector).Msg("node query failed")
		return nil
	}
	return wrapHandles(handles, n.log)
}

func (n liveNode) Attr(name string) string {
	v, err := n.h.GetAttribute(name)
	if err != nil {
		return ""
	}
	return v
}

func (n liveNode) Text() string {
	txt, err := n.h.InnerText()
	if err != nil {
		return ""
	}
	return txt
}

func (n liveNode) Click() error {
	_ = n.h.ScrollIntoViewIfNeeded()
	return n.h.Click(pw.ElementHandleClickOptions{Timeout: pw.Float(2000)})
}

func (n liveNode) Key() string {
	v, err := n.h.Evaluate(keyScript)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func wrapHandles(handles []pw.ElementHandle, log zerolog.Logger) []extract.Node {
	out := make([]extract.Node, 0, len(handles))
	for _, h := range handles {
		out = append(out, liveNode{h: h, log: log})
	}
	return out
}
