// Package pricing computes the monthly maintenance quote shown on the
// public budget page. It is pure: every function depends only on its
// arguments, so the same dimensions and settings always yield the same fee.
package pricing

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"aquamanager/backend/internal/domain"
)

// ErrNoTiers is returned when pricing settings carry no volume tiers.
var ErrNoTiers = errors.New("pricing: no volume tiers configured")

type Options struct {
	HasWellWater    bool
	IncludeProducts bool
}

type Quote struct {
	VolumeLiters    float64
	MonthlyFeeCents int64
}

// ParseDimension reads a pool dimension in meters from a form field.
// Both "1,4" and "1.4" parse to 1.4; anything unparsable or nonpositive
// yields 0, which downstream treats as invalid input.
func ParseDimension(raw string) float64 {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	val, err := strconv.ParseFloat(normalized, 64)
	if err != nil || val <= 0 {
		return 0
	}
	return val
}

func ParseDimensions(width string, length string, depth string) domain.PoolDimensions {
	return domain.PoolDimensions{
		WidthMeters:  ParseDimension(width),
		LengthMeters: ParseDimension(length),
		DepthMeters:  ParseDimension(depth),
	}
}

// Volume converts meter dimensions to liters. Any nonpositive dimension
// makes the whole volume 0.
func Volume(dims domain.PoolDimensions) float64 {
	if dims.WidthMeters <= 0 || dims.LengthMeters <= 0 || dims.DepthMeters <= 0 {
		return 0
	}
	return dims.WidthMeters * dims.LengthMeters * dims.DepthMeters * 1000
}

// Compute resolves the monthly fee for a pool. Tier lookup picks the first
// tier (ascending by capacity) the volume fits under; oversized pools pay
// the last tier's price. The VIP discount applies only while the VIP plan
// feature is enabled; a VIP selection with the feature off is priced as the
// simple plan.
func Compute(dims domain.PoolDimensions, opts Options, plan string, settings domain.Settings) (Quote, error) {
	tiers := settings.Pricing.VolumeTiers
	if len(tiers) == 0 {
		return Quote{}, ErrNoTiers
	}

	volume := Volume(dims)
	if volume <= 0 {
		return Quote{}, nil
	}

	sorted := make([]domain.VolumeTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UpToLiters < sorted[j].UpToLiters })

	base := sorted[len(sorted)-1].PriceCents
	for _, tier := range sorted {
		if volume <= tier.UpToLiters {
			base = tier.PriceCents
			break
		}
	}

	fee := base
	if opts.HasWellWater {
		fee += settings.Pricing.WellWaterFeeCents
	}
	if opts.IncludeProducts {
		fee += settings.Pricing.ProductsFeeCents
	}

	if plan == domain.PlanVIP && settings.Features.VIPPlanEnabled {
		discount := settings.Pricing.VIPDiscountPercent / 100
		fee = int64(math.Round(float64(fee) * (1 - discount)))
	}

	return Quote{VolumeLiters: volume, MonthlyFeeCents: fee}, nil
}
