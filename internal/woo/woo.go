// Package woo pushes approved quotes to a WooCommerce store as orders.
package woo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yazoosa/printstation/internal/config"
	"github.com/yazoosa/printstation/internal/quotes"
)

// Client talks to the WooCommerce REST API.
type Client struct {
	cfg       config.Woo
	productID int
	http      *http.Client
}

// NewClient returns a Client for the given WooCommerce settings.
func NewClient(cfg config.Woo) *Client {
	productID, _ := strconv.Atoi(cfg.ProductID)
	return &Client{
		cfg:       cfg,
		productID: productID,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type metaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type lineItem struct {
	ProductID int        `json:"product_id"`
	Quantity  int        `json:"quantity"`
	Price     string     `json:"price"`
	Total     string     `json:"total"`
	Subtotal  string     `json:"subtotal"`
	MetaData  []metaData `json:"meta_data"`
}

type billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
}

type orderRequest struct {
	PaymentMethod      string     `json:"payment_method"`
	PaymentMethodTitle string     `json:"payment_method_title"`
	Status             string     `json:"status"`
	Billing            billing    `json:"billing"`
	LineItems          []lineItem `json:"line_items"`
	MetaData           []metaData `json:"meta_data"`
}

// Order is the subset of the WooCommerce order response we care about.
type Order struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// CreateOrder creates a WooCommerce order from a saved quote. Line item
// amounts are sent excluding VAT since the store adds tax on top.
func (c *Client) CreateOrder(ctx context.Context, q quotes.SavedQuote) (*Order, error) {
	if q.Customer.Email == "" {
		return nil, fmt.Errorf("quote %s has no customer to bill", q.Reference)
	}
	if len(q.Items) == 0 {
		return nil, fmt.Errorf("quote %s has no items", q.Reference)
	}

	body, err := json.Marshal(buildOrderRequest(c.productID, q))
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}

	endpoint, err := c.ordersURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create woocommerce order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return nil, fmt.Errorf("woocommerce rejected order for %s: %s", q.Reference, apiErr.Message)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode woocommerce order response: %w", err)
	}
	return &order, nil
}

// ordersURL builds the orders endpoint with key/secret query credentials.
func (c *Client) ordersURL() (string, error) {
	u, err := url.Parse(strings.TrimRight(c.cfg.APIURL, "/") + "/orders")
	if err != nil {
		return "", fmt.Errorf("parse woocommerce api url: %w", err)
	}
	query := u.Query()
	query.Set("consumer_key", c.cfg.ConsumerKey)
	query.Set("consumer_secret", c.cfg.ConsumerSecret)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// buildOrderRequest maps a quote to the WooCommerce order payload.
func buildOrderRequest(productID int, q quotes.SavedQuote) orderRequest {
	items := make([]lineItem, 0, len(q.Items))
	for _, item := range q.Items {
		// Stored totals include VAT; the store expects ex-VAT amounts.
		exVAT := fmt.Sprintf("%.2f", item.Total/1.15)
		items = append(items, lineItem{
			ProductID: productID,
			Quantity:  1,
			Price:     exVAT,
			Total:     exVAT,
			Subtotal:  exVAT,
			MetaData: []metaData{
				{Key: "Description", Value: itemDescription(item, q.Reference)},
			},
		})
	}

	totalsJSON, _ := json.Marshal(map[string]float64{
		"subtotal": q.Totals.Subtotal,
		"vat":      q.Totals.VAT,
		"total":    q.Totals.Total,
	})

	return orderRequest{
		PaymentMethod:      "instore_payment",
		PaymentMethodTitle: "In-store Payment",
		Status:             "processing",
		Billing: billing{
			FirstName: q.Customer.Name,
			LastName:  q.Customer.Surname,
			Email:     q.Customer.Email,
			Phone:     q.Customer.Phone,
			Company:   q.Customer.CompanyName,
			Address1:  q.Customer.StreetAddress,
			Address2:  q.Customer.ComplexOrBuilding,
			City:      q.Customer.City,
			State:     q.Customer.Area,
			Postcode:  q.Customer.PostalCode,
		},
		LineItems: items,
		MetaData: []metaData{
			{Key: "quote_reference", Value: q.Reference},
			{Key: "quote_totals", Value: string(totalsJSON)},
		},
	}
}

// itemDescription strips pricing lines from the stored description and
// appends the quote reference, so the order shows specs without figures.
func itemDescription(item quotes.Item, reference string) string {
	var kept []string
	for _, line := range strings.Split(item.Description, "\n") {
		if strings.Contains(line, "Subtotal:") ||
			strings.Contains(line, "VAT:") ||
			strings.Contains(line, "Total:") ||
			strings.Contains(line, "Setup Fee:") ||
			strings.Contains(line, "Price:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n") + "\n\nReference: " + reference
}
