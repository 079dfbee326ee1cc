package pricing

import (
	"testing"

	"aquamanager/backend/internal/domain"
)

func testSettings() domain.Settings {
	settings := domain.DefaultSettings()
	settings.Pricing.WellWaterFeeCents = 5000
	settings.Pricing.ProductsFeeCents = 7500
	settings.Pricing.VIPDiscountPercent = 10
	settings.Pricing.VolumeTiers = []domain.VolumeTier{
		{UpToLiters: 20000, PriceCents: 15000},
		{UpToLiters: 50000, PriceCents: 25000},
		{UpToLiters: 100000, PriceCents: 40000},
	}
	settings.Features.VIPPlanEnabled = true
	return settings
}

func TestParseDimensionAcceptsCommaAndPoint(t *testing.T) {
	if got := ParseDimension("1,4"); got != 1.4 {
		t.Fatalf("expected 1.4 from comma input, got %v", got)
	}
	if got := ParseDimension("1.4"); got != 1.4 {
		t.Fatalf("expected 1.4 from point input, got %v", got)
	}
	if got := ParseDimension(" 2.5 "); got != 2.5 {
		t.Fatalf("expected whitespace to be trimmed, got %v", got)
	}
}

func TestParseDimensionRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "-3", "0", "1,2,3"} {
		if got := ParseDimension(raw); got != 0 {
			t.Fatalf("expected 0 for %q, got %v", raw, got)
		}
	}
}

func TestVolumeZeroWhenAnyDimensionMissing(t *testing.T) {
	dims := domain.PoolDimensions{WidthMeters: 4, LengthMeters: 0, DepthMeters: 1.4}
	if got := Volume(dims); got != 0 {
		t.Fatalf("expected 0 volume, got %v", got)
	}
}

func TestComputeMidTierWithWellWater(t *testing.T) {
	dims := ParseDimensions("4", "8", "1,4")
	quote, err := Compute(dims, Options{HasWellWater: true}, domain.PlanSimple, testSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.VolumeLiters != 44800 {
		t.Fatalf("expected 44800 liters, got %v", quote.VolumeLiters)
	}
	if quote.MonthlyFeeCents != 30000 {
		t.Fatalf("expected fee 30000, got %d", quote.MonthlyFeeCents)
	}
}

func TestComputeFirstTier(t *testing.T) {
	dims := domain.PoolDimensions{WidthMeters: 2, LengthMeters: 5, DepthMeters: 1}
	quote, err := Compute(dims, Options{}, domain.PlanSimple, testSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.MonthlyFeeCents != 15000 {
		t.Fatalf("expected first tier price, got %d", quote.MonthlyFeeCents)
	}
}

func TestComputeOversizedPoolUsesLastTier(t *testing.T) {
	dims := domain.PoolDimensions{WidthMeters: 10, LengthMeters: 20, DepthMeters: 2}
	quote, err := Compute(dims, Options{}, domain.PlanSimple, testSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.VolumeLiters != 400000 {
		t.Fatalf("expected 400000 liters, got %v", quote.VolumeLiters)
	}
	if quote.MonthlyFeeCents != 40000 {
		t.Fatalf("expected last tier price, got %d", quote.MonthlyFeeCents)
	}
}

func TestComputeVIPDiscount(t *testing.T) {
	settings := testSettings()
	settings.Pricing.VolumeTiers = []domain.VolumeTier{{UpToLiters: 100000, PriceCents: 10000}}
	dims := domain.PoolDimensions{WidthMeters: 4, LengthMeters: 8, DepthMeters: 1.4}

	quote, err := Compute(dims, Options{}, domain.PlanVIP, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.MonthlyFeeCents != 9000 {
		t.Fatalf("expected 10%% discount on 10000, got %d", quote.MonthlyFeeCents)
	}
}

func TestComputeVIPIgnoredWhenFeatureDisabled(t *testing.T) {
	settings := testSettings()
	settings.Features.VIPPlanEnabled = false
	dims := domain.PoolDimensions{WidthMeters: 4, LengthMeters: 8, DepthMeters: 1.4}

	vip, err := Compute(dims, Options{}, domain.PlanVIP, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	simple, err := Compute(dims, Options{}, domain.PlanSimple, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vip.MonthlyFeeCents != simple.MonthlyFeeCents {
		t.Fatalf("expected same fee with feature off, got %d vs %d", vip.MonthlyFeeCents, simple.MonthlyFeeCents)
	}
}

func TestComputeAllSurcharges(t *testing.T) {
	dims := domain.PoolDimensions{WidthMeters: 4, LengthMeters: 8, DepthMeters: 1.4}
	quote, err := Compute(dims, Options{HasWellWater: true, IncludeProducts: true}, domain.PlanVIP, testSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (25000 + 5000 + 7500) * 0.9
	if quote.MonthlyFeeCents != 33750 {
		t.Fatalf("expected 33750, got %d", quote.MonthlyFeeCents)
	}
}

func TestComputeInvalidDimensionsYieldZeroQuote(t *testing.T) {
	dims := ParseDimensions("4", "oops", "1.4")
	quote, err := Compute(dims, Options{HasWellWater: true}, domain.PlanSimple, testSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.VolumeLiters != 0 || quote.MonthlyFeeCents != 0 {
		t.Fatalf("expected zero quote, got %+v", quote)
	}
}

func TestComputeNoTiers(t *testing.T) {
	settings := testSettings()
	settings.Pricing.VolumeTiers = nil
	dims := domain.PoolDimensions{WidthMeters: 4, LengthMeters: 8, DepthMeters: 1.4}

	if _, err := Compute(dims, Options{}, domain.PlanSimple, settings); err != ErrNoTiers {
		t.Fatalf("expected ErrNoTiers, got %v", err)
	}
}

func TestComputeUnsortedTiers(t *testing.T) {
	settings := testSettings()
	settings.Pricing.VolumeTiers = []domain.VolumeTier{
		{UpToLiters: 100000, PriceCents: 40000},
		{UpToLiters: 20000, PriceCents: 15000},
		{UpToLiters: 50000, PriceCents: 25000},
	}
	dims := domain.PoolDimensions{WidthMeters: 4, LengthMeters: 8, DepthMeters: 1.4}

	quote, err := Compute(dims, Options{}, domain.PlanSimple, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.MonthlyFeeCents != 25000 {
		t.Fatalf("expected tier lookup to sort first, got %d", quote.MonthlyFeeCents)
	}
}

func TestComputeDeterministic(t *testing.T) {
	dims := ParseDimensions("3,2", "7", "1.6")
	first, err := Compute(dims, Options{IncludeProducts: true}, domain.PlanVIP, testSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Compute(dims, Options{IncludeProducts: true}, domain.PlanVIP, testSettings())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("expected identical quotes, got %+v then %+v", first, again)
		}
	}
}
