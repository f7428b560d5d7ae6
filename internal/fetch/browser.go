package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Browser renders pages with headless Chrome for boards whose listings only
// exist after client-side rendering. The browser process is shared across
// fetches and shut down once at the end of the run.
type Browser struct {
	browser     *rod.Browser
	launch      *launcher.Launcher
	ua          string
	limiter     *HostLimiter
	pageTimeout time.Duration
	scrollDelay time.Duration
}

type BrowserOptions struct {
	Bin         string
	UserAgent   string
	PageTimeout time.Duration
	ScrollDelay time.Duration
}

func NewBrowser(opts BrowserOptions, limiter *HostLimiter) (*Browser, error) {
	l := launcher.New().Headless(true)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	return &Browser{
		browser:     b,
		launch:      l,
		ua:          opts.UserAgent,
		limiter:     limiter,
		pageTimeout: opts.PageTimeout,
		scrollDelay: opts.ScrollDelay,
	}, nil
}

func (b *Browser) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launch != nil {
		b.launch.Cleanup()
	}
}

// Get renders one page and returns the resulting DOM. scrollRounds > 0
// triggers that many scroll-to-bottom passes for infinite-scroll listings,
// waiting scrollDelay between passes for new cards to load.
func (b *Browser) Get(ctx context.Context, rawURL string, scrollRounds int) (*goquery.Document, error) {
	if err := b.limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(b.pageTimeout)
	if b.ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.ua}); err != nil {
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	if err := page.Navigate(rawURL); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load %s: %w", rawURL, err)
	}

	for i := 0; i < scrollRounds; i++ {
		if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.scrollDelay):
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read dom %s: %w", rawURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}
