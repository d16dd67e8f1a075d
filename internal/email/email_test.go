package email

import (
	"strings"
	"testing"

	"github.com/yazoosa/printstation/internal/quotes"
)

func testQuote() quotes.SavedQuote {
	discounted := 270.0
	return quotes.SavedQuote{
		Reference: "QB-0007",
		Customer: quotes.Customer{
			Name:    "Sipho",
			Surname: "Dlamini",
			Email:   "sipho@example.co.za",
		},
		Totals: quotes.Totals{
			Subtotal:              300,
			VAT:                   40.50,
			Total:                 310,
			SubtotalAfterDiscount: &discounted,
		},
		Items: []quotes.Item{
			{Description: "A4 Posters - Gloss 170gsm", Quantity: 100, Total: 300},
		},
	}
}

func TestSubject(t *testing.T) {
	got := Subject(testQuote())
	want := "Your quotation QB-0007"
	if got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}
}

func TestBuildBodyIncludesLineItemsAndTotals(t *testing.T) {
	plain, html, err := BuildBody(testQuote())
	if err != nil {
		t.Fatalf("BuildBody: %v", err)
	}

	for _, want := range []string{"Sipho Dlamini", "QB-0007", "A4 Posters - Gloss 170gsm", "R 300.00", "R 40.50", "R 310.00", "Discount: - R 30.00"} {
		if !strings.Contains(plain, want) {
			t.Errorf("plain body missing %q\n%s", want, plain)
		}
	}
	for _, want := range []string{"QB-0007", "A4 Posters - Gloss 170gsm", "R 310.00", "R 30.00"} {
		if !strings.Contains(html, want) {
			t.Errorf("html body missing %q", want)
		}
	}
}

func TestBuildBodyWithoutDiscount(t *testing.T) {
	q := testQuote()
	q.Totals.SubtotalAfterDiscount = nil
	plain, _, err := BuildBody(q)
	if err != nil {
		t.Fatalf("BuildBody: %v", err)
	}
	if strings.Contains(plain, "Discount") {
		t.Errorf("plain body should not mention a discount:\n%s", plain)
	}
}

func TestBuildBodyFallsBackToGenericGreeting(t *testing.T) {
	q := testQuote()
	q.Customer.Name = ""
	q.Customer.Surname = ""
	plain, _, err := BuildBody(q)
	if err != nil {
		t.Fatalf("BuildBody: %v", err)
	}
	if !strings.HasPrefix(plain, "Dear customer,") {
		t.Errorf("expected generic greeting, got %q", strings.SplitN(plain, "\n", 2)[0])
	}
}
