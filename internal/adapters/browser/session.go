// Package browser drives a real Chromium session and exposes product pages
// through the extract.Page port. All the anti-bot plumbing lives here —
// attach-to-own-profile via CDP, cookie injection, webdriver masking, deep
// scrolling — so the extractor stays a pure DOM walk.
package browser

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	pw "github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

type Config struct {
	// DebuggerAddr attaches to a running Chrome over CDP (own cookies and
	// fingerprint). Empty launches a fresh Chromium.
	DebuggerAddr string
	Proxy        string
	UserAgent    string
	// Cookies is a "name=value; name2=value2" string, injected before
	// navigation. Pointless in attach mode.
	Cookies     string
	Headless    bool
	ScrollLoops int
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0 Safari/537.36"

// Page markers of the site's passive bot challenge. All must be present.
var challengeSigns = []string{"XMLHttpRequest.prototype.send", "location.reload(true)", "t="}

const maskWebdriverScript = `Object.defineProperty(navigator,'webdriver',{get:()=>undefined});`

type Session struct {
	pw      *pw.Playwright
	browser pw.Browser
	bctx    pw.BrowserContext
	cfg     Config
	log     zerolog.Logger
}

func NewSession(cfg Config, log zerolog.Logger) (*Session, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.ScrollLoops <= 0 {
		cfg.ScrollLoops = 14
	}

	run, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	s := &Session{pw: run, cfg: cfg, log: log}
	if cfg.DebuggerAddr != "" {
		if err := s.attach(); err != nil {
			_ = run.Stop()
			return nil, err
		}
	} else {
		if err := s.launch(); err != nil {
			_ = run.Stop()
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) attach() error {
	b, err := s.pw.Chromium.ConnectOverCDP("http://" + s.cfg.DebuggerAddr)
	if err != nil {
		return fmt.Errorf("attach to chrome at %s: %w", s.cfg.DebuggerAddr, err)
	}
	s.browser = b
	ctxs := b.Contexts()
	if len(ctxs) == 0 {
		return fmt.Errorf("attached browser has no contexts")
	}
	s.bctx = ctxs[0]
	s.log.Info().Str("addr", s.cfg.DebuggerAddr).Msg("attached to running chrome")
	return nil
}

func (s *Session) launch() error {
	opts := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(s.cfg.Headless),
		Args:     []string{"--window-size=1280,900", "--lang=ko-KR"},
	}
	if s.cfg.Proxy != "" {
		opts.Proxy = &pw.Proxy{Server: s.cfg.Proxy}
	}
	b, err := s.pw.Chromium.Launch(opts)
	if err != nil {
		return fmt.Errorf("launch chromium: %w", err)
	}
	s.browser = b

	bctx, err := b.NewContext(pw.BrowserNewContextOptions{
		UserAgent: pw.String(s.cfg.UserAgent),
		Locale:    pw.String("ko-KR"),
		Viewport:  &pw.Size{Width: 1280, Height: 900},
	})
	if err != nil {
		return fmt.Errorf("new browser context: %w", err)
	}
	if err := bctx.AddInitScript(pw.Script{Content: pw.String(maskWebdriverScript)}); err != nil {
		s.log.Warn().Err(err).Msg("webdriver mask not installed")
	}
	s.bctx = bctx
	return nil
}

// OpenProduct navigates to a product page, survives one passive bot
// challenge, scrolls the review area into existence, and hands the live DOM
// back as an extract.Page. The caller owns the page until Close.
func (s *Session) OpenProduct(ctx context.Context, productURL string) (*LivePage, error) {
	page, err := s.bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	if s.cfg.DebuggerAddr == "" && s.cfg.Cookies != "" {
		s.injectCookies(productURL)
	}

	if _, err := page.Goto(productURL, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateDomcontentloaded,
		Timeout:   pw.Float(30000),
	}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("goto %s: %w", productURL, err)
	}
	if err := ctx.Err(); err != nil {
		_ = page.Close()
		return nil, err
	}

	if s.isChallenged(page) {
		s.log.Warn().Str("url", productURL).Msg("bot challenge detected, refreshing once")
		page.WaitForTimeout(2000)
		if _, err := page.Reload(); err != nil {
			s.log.Warn().Err(err).Msg("challenge reload failed")
		}
		page.WaitForTimeout(2000)
	}

	s.deepScroll(page)
	return &LivePage{page: page, log: s.log}, nil
}

func (s *Session) injectCookies(productURL string) {
	host := ""
	if u, err := url.Parse(productURL); err == nil {
		host = u.Hostname()
	}
	var cookies []pw.OptionalCookie
	for _, part := range strings.Split(s.cfg.Cookies, ";") {
		k, v, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" {
			continue
		}
		cookies = append(cookies, pw.OptionalCookie{
			Name: k, Value: v,
			Domain: pw.String(host),
			Path:   pw.String("/"),
		})
	}
	if len(cookies) == 0 {
		return
	}
	if err := s.bctx.AddCookies(cookies); err != nil {
		s.log.Warn().Err(err).Msg("cookie injection failed")
		return
	}
	s.log.Info().Int("count", len(cookies)).Msg("cookies injected")
}

func (s *Session) isChallenged(page pw.Page) bool {
	html, err := page.Content()
	if err != nil || html == "" {
		return false
	}
	for _, sign := range challengeSigns {
		if !strings.Contains(html, sign) {
			return false
		}
	}
	return true
}

// deepScroll nudges lazy-loaded sections (the review list sits below the
// fold) with jittered pacing so the pattern doesn't read as automation.
func (s *Session) deepScroll(page pw.Page) {
	for i := 0; i < s.cfg.ScrollLoops; i++ {
		if _, err := page.Evaluate(`window.scrollBy(0, Math.max(600, window.innerHeight*0.9));`); err != nil {
			s.log.Debug().Err(err).Msg("scroll step failed")
		}
		page.WaitForTimeout(float64(350 + rand.Intn(400)))
	}
}

func (s *Session) Close() {
	if s.cfg.DebuggerAddr == "" && s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil {
		_ = s.pw.Stop()
	}
}

// JitterSleep spaces multi-URL runs out a little.
func JitterSleep(min, max time.Duration) {
	d := min + time.Duration(rand.Int63n(int64(max-min)))
	time.Sleep(d)
}
