// Package invoice renders validated billing records into PDF documents.
package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/Gnanapravallika/AutoMate-Hub/internal/core"
)

// Generator renders one PDF invoice per record into a fixed directory.
// It is safe for concurrent use: each call writes a distinct file named
// after a fresh invoice ID.
type Generator struct {
	dir          string
	companyName  string
	companyEmail string
}

// NewGenerator creates a Generator that writes into dir.
// The directory must exist; main creates it at startup.
func NewGenerator(dir, companyName, companyEmail string) *Generator {
	return &Generator{
		dir:          dir,
		companyName:  companyName,
		companyEmail: companyEmail,
	}
}

// Generate renders the invoice for rec and returns an artifact pointing at
// the written file.
func (g *Generator) Generate(ctx context.Context, rec core.Record) (core.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return core.Artifact{}, err
	}

	invoiceID := newInvoiceID()
	path := filepath.Join(g.dir, fmt.Sprintf("invoice_%s.pdf", invoiceID))

	if err := g.render(rec, invoiceID, path); err != nil {
		// Don't leave a truncated document behind.
		os.Remove(path)
		return core.Artifact{}, fmt.Errorf("render invoice %s: %w", invoiceID, err)
	}

	return core.Artifact{
		Row:       rec.Row,
		Locator:   path,
		CreatedAt: time.Now(),
	}, nil
}

// newInvoiceID returns a short display ID: the first 8 hex characters of a
// random UUID, uppercased.
func newInvoiceID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func (g *Generator) render(rec core.Record, invoiceID, path string) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", invoiceID), false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	const margin = 72.0 // one inch
	right := pageW - margin

	// Header
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0x31, 0x82, 0xce)
	pdf.Text(margin, margin+24, "INVOICE")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(margin, margin+46, fmt.Sprintf("Invoice #: %s", invoiceID))
	pdf.Text(margin, margin+60, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))

	// Sender details, right-aligned
	textRight(pdf, right, margin+24, g.companyName)
	textRight(pdf, right, margin+38, g.companyEmail)

	// Separator
	pdf.SetDrawColor(0xd3, 0xd3, 0xd3)
	pdf.Line(margin, margin+76, right, margin+76)

	// Bill to
	y := margin + 120.0
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(margin, y, "Bill To:")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(margin, y+18, rec.ClientName)
	pdf.Text(margin, y+32, rec.ClientEmail)

	// Line item table header
	y += 90
	pdf.SetFillColor(0xed, 0xf2, 0xf7)
	pdf.Rect(margin, y, right-margin, 28, "F")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin+14, y+18, "DESCRIPTION")
	pdf.Text(margin+230, y+18, "DUE DATE")
	textRight(pdf, right-14, y+18, "AMOUNT")

	// Single line item
	y += 28
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(margin+14, y+18, "Professional Services")
	pdf.Text(margin+230, y+18, rec.DueDate.Format("2006-01-02"))
	textRight(pdf, right-14, y+18, formatAmount(rec.Amount))
	pdf.Line(margin, y+28, right, y+28)

	// Total
	y += 64
	pdf.SetFont("Helvetica", "B", 12)
	textRight(pdf, right-14, y, "Total: "+formatAmount(rec.Amount))

	return pdf.OutputFileAndClose(path)
}

// textRight draws s so that its right edge ends at x.
func textRight(pdf *fpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

// formatAmount renders a dollar amount with thousands separators,
// e.g. 1234.5 -> "$1,234.50".
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := fmt.Sprintf("%.2f", v)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
