package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultChromeTimeout = 20 * time.Second

// ChromeConfig configures ChromeRenderer
type ChromeConfig struct {
	// RemoteURL is the DevTools websocket of a running Chrome. Empty launches
	// a local headless one on first use.
	RemoteURL string
	// NoSandbox is required when Chrome runs as root, e.g. in a container
	NoSandbox bool
	// Timeout applies when the caller's context has no deadline
	Timeout time.Duration
	Logger  *zap.Logger
}

// ChromeRenderer prints pages to PDF through the Chrome DevTools protocol.
// Each render gets its own tab on a shared browser.
type ChromeRenderer struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	logger   *zap.Logger
}

var _ PDFRenderer = (*ChromeRenderer)(nil)

// NewChromeRenderer prepares the browser allocator. Nothing is launched or
// dialled until the first render.
func NewChromeRenderer(cfg ChromeConfig) *ChromeRenderer {
	r := &ChromeRenderer{timeout: cfg.Timeout, logger: cfg.Logger}
	if r.timeout <= 0 {
		r.timeout = defaultChromeTimeout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.allocCtx, r.cancel = newAllocator(cfg)
	return r
}

func newAllocator(cfg ChromeConfig) (context.Context, context.CancelFunc) {
	if cfg.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		// containers mount a tiny /dev/shm
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// RenderPDF loads the page into a fresh tab and prints it
func (r *ChromeRenderer) RenderPDF(ctx context.Context, pg Page) ([]byte, error) {
	if strings.TrimSpace(pg.HTML) == "" {
		return nil, ErrEmptyPage
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// Tabs derive from the allocator, not from ctx, so tie them together
	tab, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer closeTab()
	defer context.AfterFunc(ctx, closeTab)()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		setContent(pg.document()),
		printToPDF(pg.paper(), &pdf),
	)
	if err != nil {
		return nil, classify(ctx, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrRenderFailed)
	}

	r.logger.Debug("Receipt PDF rendered", zap.Int("bytes", len(pdf)), zap.Duration("took", time.Since(start)))
	return pdf, nil
}

func setContent(doc string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
	}
}

func printToPDF(p paper, out *[]byte) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(p.width).
			WithPaperHeight(p.height).
			WithMarginTop(p.margin).
			WithMarginRight(p.margin).
			WithMarginBottom(p.margin).
			WithMarginLeft(p.margin).
			WithPageRanges("1").
			Do(ctx)
		*out = data
		return err
	}
}

// classify maps a chromedp failure onto the package errors, keeping the cause
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrRenderTimeout, ctxErr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrRenderTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrRenderFailed, err)
}

// Close shuts down the local browser or drops the remote connection
func (r *ChromeRenderer) Close() error {
	r.cancel()
	return nil
}
