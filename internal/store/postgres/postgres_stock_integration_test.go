package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"aquamanager/backend/internal/domain"
	"aquamanager/backend/internal/store"
)

func TestAdjustProductStockGuardsNegative(t *testing.T) {
	databaseURL := os.Getenv("AQUAMANAGER_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set AQUAMANAGER_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	productID := fmt.Sprintf("prd-stock-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	})

	if _, err := s.CreateProduct(ctx, domain.Product{
		ID:         productID,
		Name:       "Cloro Integração",
		PriceCents: 8900,
		Stock:      3,
	}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	updated, err := s.AdjustProductStock(ctx, productID, -2)
	if err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if updated.Stock != 1 {
		t.Fatalf("expected stock 1 after decrement, got %d", updated.Stock)
	}

	if _, err := s.AdjustProductStock(ctx, productID, -2); !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if _, err := s.AdjustProductStock(ctx, "prd-missing", -1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown product, got %v", err)
	}
}

func TestListReplenishmentQuotesUncappedScan(t *testing.T) {
	databaseURL := os.Getenv("AQUAMANAGER_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set AQUAMANAGER_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	prefix := fmt.Sprintf("rq-scan-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM replenishment_quotes WHERE id LIKE $1`, prefix+"%")
	})

	// An old sent quote followed by enough newer ones to push it past any
	// page-sized window.
	base := time.Now().UTC().Add(-90 * 24 * time.Hour)
	oldSentID := prefix + "-old-sent"
	if _, err := s.CreateReplenishmentQuote(ctx, domain.ReplenishmentQuote{
		ID:         oldSentID,
		ClientID:   "cli-scan-it",
		ClientName: "Cliente Antigo",
		Items:      []domain.QuoteItem{{ProductID: "prd-cloro", Name: "Cloro", PriceCents: 8900, Quantity: 5}},
		TotalCents: 44500,
		Status:     domain.QuoteStatusSent,
		CreatedAt:  base,
		UpdatedAt:  base,
	}); err != nil {
		t.Fatalf("create old sent quote: %v", err)
	}

	const newer = 205
	for i := 0; i < newer; i++ {
		at := base.Add(time.Duration(i+1) * time.Hour)
		if _, err := s.CreateReplenishmentQuote(ctx, domain.ReplenishmentQuote{
			ID:         fmt.Sprintf("%s-%03d", prefix, i),
			ClientID:   fmt.Sprintf("cli-scan-it-%03d", i),
			ClientName: "Cliente Recente",
			Items:      []domain.QuoteItem{{ProductID: "prd-cloro", Name: "Cloro", PriceCents: 8900, Quantity: 5}},
			TotalCents: 44500,
			Status:     domain.QuoteStatusRejected,
			CreatedAt:  at,
			UpdatedAt:  at,
		}); err != nil {
			t.Fatalf("create quote %d: %v", i, err)
		}
	}

	quotes, err := s.ListReplenishmentQuotes(ctx, "", 0)
	if err != nil {
		t.Fatalf("list quotes: %v", err)
	}

	found := false
	mine := 0
	for _, quote := range quotes {
		if strings.HasPrefix(quote.ID, prefix) {
			mine++
		}
		if quote.ID == oldSentID {
			found = true
		}
	}
	if mine != newer+1 {
		t.Fatalf("expected %d quotes from this run, got %d", newer+1, mine)
	}
	if !found {
		t.Fatalf("old sent quote missing from uncapped scan")
	}

	capped, err := s.ListReplenishmentQuotes(ctx, "", 10)
	if err != nil {
		t.Fatalf("list capped: %v", err)
	}
	if len(capped) != 10 {
		t.Fatalf("expected 10 quotes with explicit limit, got %d", len(capped))
	}
}

func TestClientRoundTripWithJSONBDocuments(t *testing.T) {
	databaseURL := os.Getenv("AQUAMANAGER_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set AQUAMANAGER_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	clientID := fmt.Sprintf("cli-it-%d", stamp)
	email := fmt.Sprintf("cliente-it-%d@exemplo.com", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	})

	created, err := s.CreateClient(ctx, domain.Client{
		ID:      clientID,
		Name:    "Cliente Integração",
		Email:   email,
		Address: "Rua das Piscinas, 42",
		PoolDimensions: domain.PoolDimensions{
			WidthMeters:  4,
			LengthMeters: 8,
			DepthMeters:  1.4,
		},
		PoolVolume:   44800,
		HasWellWater: true,
		Plan:         domain.PlanVIP,
		ClientStatus: domain.ClientStatusActive,
		Payment: domain.PaymentInfo{
			Status:          domain.PaymentStatusPending,
			DueDate:         time.Now().UTC().AddDate(0, 1, 0),
			MonthlyFeeCents: 27000,
		},
		Stock: []domain.ClientProduct{
			{ProductID: "prd-cloro", Name: "Cloro", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	fetched, err := s.GetClientByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	if fetched.PoolDimensions.LengthMeters != 8 {
		t.Fatalf("expected pool length 8, got %v", fetched.PoolDimensions.LengthMeters)
	}
	if fetched.Payment.MonthlyFeeCents != 27000 {
		t.Fatalf("expected fee 27000, got %d", fetched.Payment.MonthlyFeeCents)
	}
	if len(fetched.Stock) != 1 || fetched.Stock[0].ProductID != "prd-cloro" {
		t.Fatalf("expected one stock entry for prd-cloro, got %+v", fetched.Stock)
	}

	if _, err := s.CreateClient(ctx, domain.Client{
		ID:    clientID + "-dup",
		Name:  "Cliente Duplicado",
		Email: email,
	}); !errors.Is(err, store.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse for duplicate email, got %v", err)
	}
}
