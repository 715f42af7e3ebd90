// Package receipt renders purchase receipts as PDF documents.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// Data is everything printed on a receipt.  Event fields may be empty
// when the event has since been deleted.
type Data struct {
	Brand          string
	OrderNumber    string
	PurchasedAt    time.Time
	EventTitle     string
	EventDate      string
	EventLocation  string
	EventStartTime string
	EventEndTime   string
	BuyerName      string
	Email          string
	PhoneNumber    string
	TShirtSize     string
	Total          int64
	Currency       string
}

// FromOrder builds receipt data from a stored order.
func FromOrder(o model.ReceiptOrder, brand, currency string) Data {
	d := Data{
		Brand:          brand,
		OrderNumber:    o.OrderNumber,
		PurchasedAt:    o.CreatedAt,
		EventLocation:  o.EventLocation,
		EventStartTime: o.EventStartTime,
		EventEndTime:   o.EventEndTime,
		BuyerName:      o.BuyerName(),
		Email:          o.Email,
		PhoneNumber:    o.PhoneNumber,
		TShirtSize:     o.TShirtSize,
		Total:          o.Total,
		Currency:       currency,
	}
	if o.EventTitle != nil {
		d.EventTitle = *o.EventTitle
	}
	if !o.EventDate.IsZero() {
		d.EventDate = o.EventDate.Format("2006-01-02")
	}
	return d
}

// FormatAmount renders minor units as "45.00 CAD".
func FormatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, strings.ToUpper(currency))
}

// Render produces the PDF bytes for d.
func Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Receipt "+d.OrderNumber), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(d.Brand), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Purchase receipt", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	row := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(value), "", "L", false)
	}

	row("Order number", d.OrderNumber)
	if !d.PurchasedAt.IsZero() {
		row("Purchased", d.PurchasedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	pdf.Ln(3)
	row("Event", d.EventTitle)
	row("Date", d.EventDate)
	if d.EventStartTime != "" {
		row("Time", strings.TrimSpace(d.EventStartTime+" - "+d.EventEndTime))
	}
	row("Location", d.EventLocation)
	pdf.Ln(3)
	row("Name", d.BuyerName)
	row("Email", d.Email)
	row("Phone", d.PhoneNumber)
	row("T-shirt size", d.TShirtSize)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(45, 9, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, FormatAmount(d.Total, d.Currency), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
