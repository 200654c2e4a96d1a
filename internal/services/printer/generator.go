// Package printer renders packing slips as PDF.
package printer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"github.com/xelth-com/zapstock/internal/orders"
	"github.com/xelth-com/zapstock/internal/whatsapp"
)

// ErrNoOrders is returned when there is nothing to print
var ErrNoOrders = errors.New("no orders to print")

// SlipConfig holds configuration for PDF generation
type SlipConfig struct {
	SellerName string
	QRSize     int // QR bitmap edge in pixels
}

// A6 portrait
const (
	pageW  = 105.0
	pageH  = 148.0
	margin = 6.0
	qrMM   = 28.0
)

// GenerateSlipsPDF creates one A6 page per order. The QR code opens a
// chat with the customer.
func GenerateSlipsPDF(cfg SlipConfig, views []orders.View) ([]byte, error) {
	if len(views) == 0 {
		return nil, ErrNoOrders
	}
	if cfg.QRSize == 0 {
		cfg.QRSize = 256
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	// Core fonts are cp1252; names and addresses carry accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, v := range views {
		pdf.AddPage()
		contentW := pageW - 2*margin

		// Header
		pdf.SetFont("Arial", "B", 11)
		pdf.SetXY(margin, margin)
		pdf.CellFormat(contentW, 6, tr(cfg.SellerName), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Pedido #%s  %s", shortID(v.ID), v.Date.Format("02/01/2006 15:04")), "B", 1, "L", false, 0, "")
		pdf.Ln(2)

		// Recipient
		pdf.SetFont("Arial", "B", 7)
		pdf.CellFormat(contentW, 4, tr("DESTINATÁRIO"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(contentW-qrMM-2, 6, tr(v.CustomerName), "", "L", false)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(contentW-qrMM-2, 4.5, tr(v.CustomerWhatsApp), "", "L", false)
		pdf.MultiCell(contentW-qrMM-2, 4.5, tr(v.CustomerAddress), "", "L", false)

		// QR top right, next to the recipient block
		qrPng, err := qrcode.Encode(whatsapp.ChatLink(v.CustomerWhatsApp, whatsapp.Greeting(v.CustomerName)), qrcode.Medium, cfg.QRSize)
		if err != nil {
			return nil, fmt.Errorf("encode qr for order %s: %w", v.ID, err)
		}
		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))
		pdf.ImageOptions(imgName, pageW-margin-qrMM, margin+12, qrMM, qrMM, false, imgOptions, 0, "")

		// Contents
		y := pdf.GetY()
		if floor := margin + 12 + qrMM + 2; y < floor {
			y = floor
		}
		pdf.SetXY(margin, y)
		pdf.SetFont("Arial", "B", 7)
		pdf.CellFormat(contentW, 4, tr("CONTEÚDO"), "T", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(contentW, 5, tr(fmt.Sprintf("%d x %s", v.Quantity, v.ProductName)), "", "L", false)

		total := "A calcular"
		if v.Total != nil {
			total = "R$ " + whatsapp.Money(*v.Total)
		}
		paid := "NÃO"
		if v.IsPaid {
			paid = "SIM"
		}
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Total: %s   Pago: %s", total, paid)), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 5, tr("Status: "+string(v.Status)), "", 1, "L", false, 0, "")

		if v.Notes != "" {
			pdf.Ln(1)
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(contentW, 4, tr("Obs: "+v.Notes), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
