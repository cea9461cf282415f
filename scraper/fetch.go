package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatus is returned when the source answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Page is a fetched response body.
type Page struct {
	URL    string
	Status int
	Body   []byte
}

// Fetcher issues a GET for url with the given query parameters.
type Fetcher interface {
	Get(ctx context.Context, url string, params map[string]string) (*Page, error)
}

// HTTPFetcher fetches pages over plain HTTP.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher builds a resty-backed fetcher sending the given User-Agent.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("User-Agent", userAgent)
	client.SetTimeout(timeout)
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Get(ctx context.Context, rawURL string, params map[string]string) (*Page, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: %w %d", rawURL, ErrUnexpectedStatus, res.StatusCode())
	}
	return &Page{URL: res.Request.URL, Status: res.StatusCode(), Body: res.Body()}, nil
}

// BrowserFetcher renders pages in headless Chrome before returning their HTML.
type BrowserFetcher struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	timeout     time.Duration
}

// NewBrowserFetcher starts a headless browser. Close must be called to
// release it.
func NewBrowserFetcher(chromeBin, userAgent string, timeout time.Duration) *BrowserFetcher {
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &BrowserFetcher{
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		cancel:      cancel,
		timeout:     timeout,
	}
}

func (f *BrowserFetcher) Get(ctx context.Context, rawURL string, params map[string]string) (*Page, error) {
	target, err := withQuery(rawURL, params)
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTimeout()

	// propagate caller cancellation into the tab
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(target),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("browser fetch %s: %w", target, err)
	}
	return &Page{URL: target, Status: 200, Body: []byte(html)}, nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() {
	f.cancel()
	f.cancelAlloc()
}

func withQuery(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FindChromeBinary locates a Chrome/Chromium binary, preferring CHROME_BIN.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
