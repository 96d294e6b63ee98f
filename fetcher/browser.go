package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders pages in headless Chrome before returning their
// HTML. Used for sources that build listing cards client-side, where a
// plain GET returns an empty shell.
type BrowserFetcher struct {
	allocOpts []chromedp.ExecAllocatorOption
}

// NewBrowserFetcher creates a BrowserFetcher. Each FetchPage call runs in
// a fresh browser context so a hung page cannot poison later fetches.
func NewBrowserFetcher() *BrowserFetcher {
	return &BrowserFetcher{
		allocOpts: append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		),
	}
}

func (b *BrowserFetcher) FetchPage(ctx context.Context, url string, timeout time.Duration, userAgent string) (int, string, error) {
	opts := b.allocOpts
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return 0, "", fmt.Errorf("fetcher: browser render: %w", err)
	}

	// chromedp does not surface the navigation status; a rendered page
	// is treated as a 200.
	return 200, html, nil
}
