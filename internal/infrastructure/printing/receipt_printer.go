package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/bakery/backend/internal/domain/pos"
	"github.com/bakery/backend/internal/infrastructure/resilience"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ObjectUploader stores rendered PDFs
type ObjectUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ReceiptPrinterConfig configures receipt rendering
type ReceiptPrinterConfig struct {
	StoreName string
	Currency  string
	Locale    string
	// Location for printed timestamps; UTC when nil
	Location          *time.Location
	RenderTimeout     time.Duration
	BreakerMaxFails   uint32
	BreakerOpenPeriod time.Duration
	// URLExpiry is how long the presigned PDF link stays valid
	URLExpiry time.Duration
}

// ReceiptPrinterOption configures optional collaborators
type ReceiptPrinterOption func(*ReceiptPrinter)

// WithPDFRenderer enables PDF output
func WithPDFRenderer(r PDFRenderer) ReceiptPrinterOption {
	return func(p *ReceiptPrinter) {
		p.pdf = r
	}
}

// WithUploader stores PDFs in object storage
func WithUploader(u ObjectUploader) ReceiptPrinterOption {
	return func(p *ReceiptPrinter) {
		p.uploader = u
	}
}

// WithBreakerStateHook observes breaker transitions, e.g. for a metrics gauge
func WithBreakerStateHook(fn func(name string, from, to gobreaker.State)) ReceiptPrinterOption {
	return func(p *ReceiptPrinter) {
		p.stateHook = fn
	}
}

// ReceiptPrinter turns a completed sale into a receipt. Only the HTML step
// can fail Print; PDF and upload failures leave the PDF fields empty.
type ReceiptPrinter struct {
	cfg       ReceiptPrinterConfig
	money     *MoneyFormatter
	tmpl      templateExecutor
	pdf       PDFRenderer
	uploader  ObjectUploader
	stateHook func(name string, from, to gobreaker.State)

	pdfBreaker    *resilience.CircuitBreaker
	uploadBreaker *resilience.CircuitBreaker
	logger        *zap.Logger
}

// templateExecutor renders a view; split out so tests can force template errors
type templateExecutor func(view receiptView) (string, error)

// NewReceiptPrinter creates a printer. Currency and locale default to INR and en-IN.
func NewReceiptPrinter(cfg ReceiptPrinterConfig, logger *zap.Logger, opts ...ReceiptPrinterOption) (*ReceiptPrinter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en-IN"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 7 * 24 * time.Hour
	}

	money, err := NewMoneyFormatter(cfg.Currency, cfg.Locale)
	if err != nil {
		return nil, err
	}
	tmpl, err := receiptTemplate(money, cfg.Location)
	if err != nil {
		return nil, err
	}

	p := &ReceiptPrinter{
		cfg:    cfg,
		money:  money,
		logger: logger.Named("receipt"),
	}
	p.tmpl = func(view receiptView) (string, error) {
		return executeTemplate(tmpl, view)
	}
	for _, opt := range opts {
		opt(p)
	}

	p.pdfBreaker = resilience.NewCircuitBreaker(p.breakerConfig("receipt-pdf"), p.logger)
	p.uploadBreaker = resilience.NewCircuitBreaker(p.breakerConfig("receipt-upload"), p.logger)
	return p, nil
}

func (p *ReceiptPrinter) breakerConfig(name string) resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	if p.cfg.BreakerMaxFails > 0 {
		cfg.FailureThreshold = p.cfg.BreakerMaxFails
	}
	if p.cfg.BreakerOpenPeriod > 0 {
		cfg.Timeout = p.cfg.BreakerOpenPeriod
	}
	cfg.OnStateChange = p.stateHook
	return cfg
}

// RenderHTML renders the receipt HTML for a sale
func (p *ReceiptPrinter) RenderHTML(o *pos.Order) (string, error) {
	view := receiptView{
		StoreName:    p.cfg.StoreName,
		OrderNumber:  o.OrderNumber,
		CreatedAt:    o.CreatedAt,
		Voided:       o.Status == pos.OrderStatusVoided,
		Items:        o.Items,
		Payments:     o.Payments,
		TaxRate:      pos.TaxRate,
		Subtotal:     o.Subtotal,
		TaxAmount:    o.TaxAmount,
		TotalAmount:  o.TotalAmount,
		PaidAmount:   o.PaidAmount,
		ChangeAmount: o.ChangeAmount,
	}
	qr, err := QRDataURI(fmt.Sprintf("%s|%s", o.OrderNumber, o.TotalAmount.StringFixed(2)), 0)
	if err != nil {
		p.logger.Warn("Receipt QR code skipped", zap.String("order_number", o.OrderNumber), zap.Error(err))
	} else {
		view.QRCode = qr
	}
	return p.tmpl(view)
}

// Print renders the receipt and, when configured, its PDF and upload
func (p *ReceiptPrinter) Print(ctx context.Context, o *pos.Order) (*pos.Receipt, error) {
	html, err := p.RenderHTML(o)
	if err != nil {
		return nil, err
	}
	receipt := pos.NewReceipt(o, html)
	if p.pdf == nil {
		return receipt, nil
	}

	var pdf []byte
	err = p.pdfBreaker.Execute(ctx, func(ctx context.Context) error {
		if p.cfg.RenderTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.cfg.RenderTimeout)
			defer cancel()
		}
		var err error
		pdf, err = p.pdf.RenderPDF(ctx, Page{HTML: html, Title: o.OrderNumber, MarginMM: 2})
		return err
	})
	if err != nil {
		p.logger.Warn("Receipt PDF skipped", zap.String("order_number", o.OrderNumber), zap.Error(err))
		return receipt, nil
	}
	if p.uploader == nil {
		return receipt, nil
	}

	key := fmt.Sprintf("receipts/%s/%s.pdf", o.TenantID, o.OrderNumber)
	var url string
	err = p.uploadBreaker.Execute(ctx, func(ctx context.Context) error {
		if err := p.uploader.Upload(ctx, key, pdf, "application/pdf"); err != nil {
			return err
		}
		u, _, err := p.uploader.GenerateDownloadURL(ctx, key, p.cfg.URLExpiry)
		if err != nil {
			return err
		}
		url = u
		return nil
	})
	if err != nil {
		p.logger.Warn("Receipt PDF upload skipped", zap.String("order_number", o.OrderNumber), zap.Error(err))
		return receipt, nil
	}
	receipt.PDFKey = key
	receipt.PDFURL = url
	return receipt, nil
}
