package replenishment

import (
	"testing"
	"time"

	"aquamanager/backend/internal/domain"
)

func testProducts() map[string]domain.Product {
	return map[string]domain.Product{
		"prd-chlorine": {ID: "prd-chlorine", Name: "Cloro Granulado", PriceCents: 2000, Stock: 40},
		"prd-algicide": {ID: "prd-algicide", Name: "Algicida", PriceCents: 3500, Stock: 12},
		"prd-empty":    {ID: "prd-empty", Name: "Clarificante", PriceCents: 1800, Stock: 0},
	}
}

func activeClient(id string, stock []domain.ClientProduct) domain.Client {
	return domain.Client{
		ID:           id,
		Name:         "Cliente " + id,
		ClientStatus: domain.ClientStatusActive,
		Stock:        stock,
	}
}

func TestGenerateLowStockQuote(t *testing.T) {
	client := activeClient("cli-1", []domain.ClientProduct{
		{ProductID: "prd-chlorine", Name: "Cloro Granulado", Quantity: 1},
		{ProductID: "prd-algicide", Name: "Algicida", Quantity: 7},
	})

	result := Generate([]domain.Client{client}, testProducts(), nil, 2, time.Now())
	if result.ClientsChecked != 1 {
		t.Fatalf("expected 1 client checked, got %d", result.ClientsChecked)
	}
	if len(result.Quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(result.Quotes))
	}

	quote := result.Quotes[0]
	if quote.Status != domain.QuoteStatusSuggested {
		t.Fatalf("expected suggested status, got %s", quote.Status)
	}
	if len(quote.Items) != 1 {
		t.Fatalf("expected only the low item, got %d items", len(quote.Items))
	}
	item := quote.Items[0]
	if item.ProductID != "prd-chlorine" || item.Quantity != RestockQty {
		t.Fatalf("unexpected item %+v", item)
	}
	// 2000 * 5
	if quote.TotalCents != 10000 {
		t.Fatalf("expected total 10000, got %d", quote.TotalCents)
	}
}

func TestGenerateBoundaryQuantityIsLow(t *testing.T) {
	client := activeClient("cli-1", []domain.ClientProduct{
		{ProductID: "prd-chlorine", Quantity: 2},
	})

	result := Generate([]domain.Client{client}, testProducts(), nil, 2, time.Now())
	if len(result.Quotes) != 1 {
		t.Fatalf("expected quantity equal to threshold to count as low")
	}
}

func TestGenerateSkipsInactiveClients(t *testing.T) {
	client := activeClient("cli-1", []domain.ClientProduct{{ProductID: "prd-chlorine", Quantity: 0}})
	client.ClientStatus = domain.ClientStatusPending

	result := Generate([]domain.Client{client}, testProducts(), nil, 2, time.Now())
	if result.ClientsChecked != 0 {
		t.Fatalf("expected inactive client to be ignored, checked %d", result.ClientsChecked)
	}
	if len(result.Quotes) != 0 {
		t.Fatalf("expected no quotes, got %d", len(result.Quotes))
	}
}

func TestGenerateSkipsClientsWithOpenQuote(t *testing.T) {
	client := activeClient("cli-1", []domain.ClientProduct{{ProductID: "prd-chlorine", Quantity: 0}})

	for _, status := range []string{domain.QuoteStatusSuggested, domain.QuoteStatusSent} {
		existing := []domain.ReplenishmentQuote{{ClientID: "cli-1", Status: status}}
		result := Generate([]domain.Client{client}, testProducts(), existing, 2, time.Now())
		if len(result.Quotes) != 0 {
			t.Fatalf("expected no quote while a %s quote is open", status)
		}
	}
}

func TestGenerateTerminalQuotesDoNotBlock(t *testing.T) {
	client := activeClient("cli-1", []domain.ClientProduct{{ProductID: "prd-chlorine", Quantity: 0}})

	for _, status := range []string{domain.QuoteStatusApproved, domain.QuoteStatusRejected} {
		existing := []domain.ReplenishmentQuote{{ClientID: "cli-1", Status: status}}
		result := Generate([]domain.Client{client}, testProducts(), existing, 2, time.Now())
		if len(result.Quotes) != 1 {
			t.Fatalf("expected a new quote after a %s quote", status)
		}
	}
}

func TestGenerateDropsUnknownAndOutOfStockProducts(t *testing.T) {
	client := activeClient("cli-1", []domain.ClientProduct{
		{ProductID: "prd-missing", Quantity: 0},
		{ProductID: "prd-empty", Quantity: 1},
	})

	result := Generate([]domain.Client{client}, testProducts(), nil, 2, time.Now())
	if len(result.Quotes) != 0 {
		t.Fatalf("expected no quote when every line is dropped, got %d", len(result.Quotes))
	}
}

func TestGenerateOrdersClientsByID(t *testing.T) {
	low := []domain.ClientProduct{{ProductID: "prd-chlorine", Quantity: 1}}
	clients := []domain.Client{
		activeClient("cli-b", low),
		activeClient("cli-a", low),
	}

	result := Generate(clients, testProducts(), nil, 2, time.Now())
	if len(result.Quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(result.Quotes))
	}
	if result.Quotes[0].ClientID != "cli-a" || result.Quotes[1].ClientID != "cli-b" {
		t.Fatalf("expected deterministic client order, got %s then %s",
			result.Quotes[0].ClientID, result.Quotes[1].ClientID)
	}
}

func TestGenerateIdempotentAcrossRuns(t *testing.T) {
	client := activeClient("cli-1", []domain.ClientProduct{{ProductID: "prd-chlorine", Quantity: 1}})

	first := Generate([]domain.Client{client}, testProducts(), nil, 2, time.Now())
	if len(first.Quotes) != 1 {
		t.Fatalf("expected first run to produce a quote")
	}
	second := Generate([]domain.Client{client}, testProducts(), first.Quotes, 2, time.Now())
	if len(second.Quotes) != 0 {
		t.Fatalf("expected second run to produce nothing, got %d", len(second.Quotes))
	}
}

func TestNextStatus(t *testing.T) {
	allowed := []struct{ from, to string }{
		{domain.QuoteStatusSuggested, domain.QuoteStatusSent},
		{domain.QuoteStatusSuggested, domain.QuoteStatusApproved},
		{domain.QuoteStatusSuggested, domain.QuoteStatusRejected},
		{domain.QuoteStatusSent, domain.QuoteStatusApproved},
		{domain.QuoteStatusSent, domain.QuoteStatusRejected},
	}
	for _, tc := range allowed {
		if !NextStatus(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{domain.QuoteStatusSent, domain.QuoteStatusSuggested},
		{domain.QuoteStatusApproved, domain.QuoteStatusSent},
		{domain.QuoteStatusRejected, domain.QuoteStatusSent},
		{domain.QuoteStatusApproved, domain.QuoteStatusRejected},
		{domain.QuoteStatusRejected, domain.QuoteStatusApproved},
	}
	for _, tc := range denied {
		if NextStatus(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}
