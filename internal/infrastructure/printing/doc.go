// Package printing renders POS receipts.
//
// A receipt is HTML built from an embedded template, with amounts formatted
// for the configured currency and locale and a QR code linking the sale
// number. When a PDF renderer is configured the HTML is also printed to PDF
// through headless Chrome and, given an uploader, stored in object storage.
// PDF rendering and upload run behind circuit breakers so a broken Chrome or
// bucket cannot slow every checkout down.
//
// Example usage:
//
//	printer, err := NewReceiptPrinter(ReceiptPrinterConfig{
//	    StoreName: "Bakery",
//	    Currency:  "INR",
//	    Locale:    "en-IN",
//	}, logger, WithPDFRenderer(chrome), WithUploader(s3))
//	if err != nil {
//	    return err
//	}
//	receipt, err := printer.Print(ctx, sale)
package printing
