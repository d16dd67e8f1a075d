// Package email sends saved quotes to customers over SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"

	"github.com/domodwyer/mailyak/v3"

	"github.com/yazoosa/printstation/internal/config"
	"github.com/yazoosa/printstation/internal/quotes"
)

// Sender delivers quote emails using the configured SMTP account.
type Sender struct {
	cfg config.SMTP
}

// NewSender returns a Sender for the given SMTP settings.
func NewSender(cfg config.SMTP) *Sender {
	return &Sender{cfg: cfg}
}

// SendQuote emails the quote to its customer, attaching the rendered PDF
// when pdfData is non-empty.
func (s *Sender) SendQuote(q quotes.SavedQuote, pdfData []byte) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("smtp is not configured")
	}
	if q.Customer.Email == "" {
		return fmt.Errorf("quote %s has no customer email address", q.Reference)
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)

	mail, err := mailyak.NewWithTLS(addr, auth, nil)
	if err != nil {
		return fmt.Errorf("connect to smtp server: %w", err)
	}

	mail.From(s.cfg.From)
	mail.FromName("PrintStation Quoting")
	mail.To(q.Customer.Email)
	mail.Subject(Subject(q))

	plain, htmlBody, err := BuildBody(q)
	if err != nil {
		return fmt.Errorf("build quote email body: %w", err)
	}
	mail.Plain().Set(plain)
	mail.HTML().Set(htmlBody)

	if len(pdfData) > 0 {
		mail.Attach(q.Reference+".pdf", bytes.NewReader(pdfData))
	}

	if err := mail.Send(); err != nil {
		return fmt.Errorf("send quote email: %w", err)
	}
	return nil
}

// Subject returns the email subject line for a quote.
func Subject(q quotes.SavedQuote) string {
	return fmt.Sprintf("Your quotation %s", q.Reference)
}

var htmlTmpl = template.Must(template.New("quote").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
<p>Dear {{.Name}},</p>
<p>Thank you for your enquiry. Please find your quotation <strong>{{.Reference}}</strong> below.</p>
<table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">
<tr style="background: #eee;"><th align="left">Description</th><th align="right">Qty</th><th align="right">Total</th></tr>
{{range .Items}}<tr><td>{{.Description}}</td><td align="right">{{.Quantity}}</td><td align="right">R {{printf "%.2f" .Total}}</td></tr>
{{end}}</table>
<p>
Subtotal: R {{printf "%.2f" .Totals.Subtotal}}<br>
{{if .Discount}}Discount: - R {{printf "%.2f" .Discount}}<br>{{end}}
VAT (15%): R {{printf "%.2f" .Totals.VAT}}<br>
<strong>Total: R {{printf "%.2f" .Totals.Total}}</strong>
</p>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
<p>This quote is valid for 30 days. Reply to this email to confirm your order.</p>
</body>
</html>`))

type bodyData struct {
	Name      string
	Reference string
	Items     []quotes.Item
	Totals    quotes.Totals
	Discount  float64
	Notes     string
}

// BuildBody renders the plain-text and HTML bodies for a quote email.
func BuildBody(q quotes.SavedQuote) (plain, html string, err error) {
	data := bodyData{
		Name:      strings.TrimSpace(q.Customer.Name + " " + q.Customer.Surname),
		Reference: q.Reference,
		Items:     q.Items,
		Totals:    q.Totals,
		Notes:     q.Notes,
	}
	if data.Name == "" {
		data.Name = "customer"
	}
	if q.Totals.SubtotalAfterDiscount != nil {
		data.Discount = q.Totals.Subtotal - *q.Totals.SubtotalAfterDiscount
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return "", "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", data.Name)
	fmt.Fprintf(&sb, "Thank you for your enquiry. Your quotation %s:\n\n", q.Reference)
	for _, item := range q.Items {
		fmt.Fprintf(&sb, "  %s x%d  R %.2f\n", item.Description, item.Quantity, item.Total)
	}
	fmt.Fprintf(&sb, "\nSubtotal: R %.2f\n", q.Totals.Subtotal)
	if data.Discount > 0 {
		fmt.Fprintf(&sb, "Discount: - R %.2f\n", data.Discount)
	}
	fmt.Fprintf(&sb, "VAT (15%%): R %.2f\n", q.Totals.VAT)
	fmt.Fprintf(&sb, "Total: R %.2f\n", q.Totals.Total)
	if q.Notes != "" {
		fmt.Fprintf(&sb, "\n%s\n", q.Notes)
	}
	sb.WriteString("\nThis quote is valid for 30 days. Reply to this email to confirm your order.\n")

	return sb.String(), buf.String(), nil
}
