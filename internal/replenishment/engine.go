// Package replenishment turns low client stock into purchase suggestions.
// Generate is pure over the snapshots it is handed; persistence and the
// once-per-day guard belong to the caller.
package replenishment

import (
	"sort"
	"time"

	"aquamanager/backend/internal/domain"
)

// RestockQty is how many units of each low item a suggestion proposes.
const RestockQty = 5

type Result struct {
	Quotes         []domain.ReplenishmentQuote
	ClientsChecked int
}

// Generate walks every active client and builds a suggested quote for each
// one with at least one low-stock item. A client that already has a quote
// in a non-terminal status is skipped entirely, which makes repeated runs
// idempotent. Items whose catalog product is missing or out of stock are
// dropped; a quote is only emitted when at least one item survives.
func Generate(
	clients []domain.Client,
	products map[string]domain.Product,
	existing []domain.ReplenishmentQuote,
	threshold int,
	now time.Time,
) Result {
	open := make(map[string]bool, len(existing))
	for _, quote := range existing {
		if quote.Status == domain.QuoteStatusSuggested || quote.Status == domain.QuoteStatusSent {
			open[quote.ClientID] = true
		}
	}

	ordered := make([]domain.Client, 0, len(clients))
	for _, client := range clients {
		if client.ClientStatus == domain.ClientStatusActive {
			ordered = append(ordered, client)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	result := Result{ClientsChecked: len(ordered)}
	for _, client := range ordered {
		if open[client.ID] {
			continue
		}

		items := lowStockItems(client, products, threshold)
		if len(items) == 0 {
			continue
		}

		var total int64
		for _, item := range items {
			total += item.PriceCents * int64(item.Quantity)
		}

		result.Quotes = append(result.Quotes, domain.ReplenishmentQuote{
			ClientID:   client.ID,
			ClientName: client.Name,
			Items:      items,
			TotalCents: total,
			Status:     domain.QuoteStatusSuggested,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return result
}

func lowStockItems(client domain.Client, products map[string]domain.Product, threshold int) []domain.QuoteItem {
	var items []domain.QuoteItem
	for _, held := range client.Stock {
		if held.Quantity > threshold {
			continue
		}
		product, ok := products[held.ProductID]
		if !ok || product.Stock <= 0 {
			continue
		}
		items = append(items, domain.QuoteItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Quantity:   RestockQty,
		})
	}
	return items
}

// NextStatus validates a quote status transition. A suggested quote can be
// sent, or resolved directly; a sent one can only be resolved. Approved and
// rejected are terminal.
func NextStatus(current string, next string) bool {
	switch current {
	case domain.QuoteStatusSuggested:
		return next == domain.QuoteStatusSent || next == domain.QuoteStatusApproved || next == domain.QuoteStatusRejected
	case domain.QuoteStatusSent:
		return next == domain.QuoteStatusApproved || next == domain.QuoteStatusRejected
	default:
		return false
	}
}
