package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const textWidth = 64

// RenderText prints the receipt for a fixed-width printer.
func RenderText(r Receipt) string {
	var lines []string

	lines = append(lines, center(r.ShopName))
	lines = append(lines, center(r.Address))
	lines = append(lines, center("Mobile: "+r.Mobile))
	lines = append(lines, center("Email: "+r.Email))
	lines = append(lines, strings.Repeat("=", textWidth))
	lines = append(lines, center(r.Title))
	lines = append(lines, strings.Repeat("=", textWidth))
	lines = append(lines, fmt.Sprintf("Invoice No: %s", r.InvoiceNo))
	lines = append(lines, fmt.Sprintf("Date: %s", r.Timestamp))
	lines = append(lines, fmt.Sprintf("Customer: %s", r.CustomerName))
	lines = append(lines, fmt.Sprintf("Payment Method: %s", r.PaymentMethod))
	lines = append(lines, strings.Repeat("-", textWidth))
	lines = append(lines, fmt.Sprintf("%-22s %-6s %9s %11s %11s", "Product", "Unit", "Qty", "Unit Price", "Total"))
	lines = append(lines, strings.Repeat("-", textWidth))

	for _, row := range r.Rows {
		lines = append(lines, fmt.Sprintf("%-22s %-6s %9s %11s %11s",
			truncate(row.Product, 22), row.Unit, row.Qty, row.UnitPrice, row.Total))
	}

	lines = append(lines, strings.Repeat("-", textWidth))
	lines = append(lines, fmt.Sprintf("%-51s %12s", "GRAND TOTAL", r.GrandTotal))
	if r.Received != "" {
		lines = append(lines, fmt.Sprintf("%-51s %12s", "Received", r.Received))
		lines = append(lines, fmt.Sprintf("%-51s %12s", "Change", r.Change))
	}
	lines = append(lines, strings.Repeat("-", textWidth))
	for _, footer := range r.Footer {
		lines = append(lines, center(footer))
	}

	return strings.Join(lines, "\n") + "\n"
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= textWidth {
		return s
	}
	return strings.Repeat(" ", (textWidth-n)/2) + s
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "~"
}
