// Package pricing quotes subscription prices from a package tier and a
// declared parcel area.
package pricing

import (
	"fmt"
	"math"
)

// Tier is a subscription package level.
type Tier string

const (
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
	// TierPerReport is a pseudo-tier: one report at a fixed price, no
	// area-based surcharge.
	TierPerReport Tier = "per_report"
)

// ParseTier maps a wire string onto a known tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierBasic, TierPro, TierEnterprise, TierPerReport:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown package tier %q", s)
}

// TierConfig holds the per-tier constants. Base prices and quotas drifted
// between product variants, so they are configuration, never derived.
type TierConfig struct {
	BasePrice   float64 `json:"base_price"`
	ReportQuota int     `json:"report_quota"`
}

// Table is the pricing lookup table plus the surcharge curve parameters.
type Table struct {
	Tiers       map[Tier]TierConfig `json:"tiers"`
	ThresholdHa float64             `json:"threshold_ha"`
	K           float64             `json:"k"`
	Alpha       float64             `json:"alpha"`
}

// DefaultTable returns the production constants.
func DefaultTable() Table {
	return Table{
		Tiers: map[Tier]TierConfig{
			TierBasic:      {BasePrice: 29, ReportQuota: 5},
			TierPro:        {BasePrice: 99, ReportQuota: 15},
			TierEnterprise: {BasePrice: 299, ReportQuota: 30},
			TierPerReport:  {BasePrice: 20, ReportQuota: 1},
		},
		ThresholdHa: 20,
		K:           0.857,
		Alpha:       0.833,
	}
}

// Quota returns the included report count for a tier.
func (t Table) Quota(tier Tier) (int, error) {
	cfg, ok := t.Tiers[tier]
	if !ok {
		return 0, fmt.Errorf("unknown package tier %q", tier)
	}
	return cfg.ReportQuota, nil
}

// Quote calculates the subscription price for a tier and a declared area in
// hectares. Below the threshold the flat base price applies; above it a
// power-law surcharge k*(extra)^alpha is added and the result rounded to
// cents. The per-report pseudo-tier is always its fixed price.
func (t Table) Quote(tier Tier, areaHa float64) (float64, error) {
	cfg, ok := t.Tiers[tier]
	if !ok {
		return 0, fmt.Errorf("unknown package tier %q", tier)
	}

	if tier == TierPerReport {
		return cfg.BasePrice, nil
	}

	if areaHa <= t.ThresholdHa {
		return cfg.BasePrice, nil
	}

	extra := t.K * math.Pow(areaHa-t.ThresholdHa, t.Alpha)
	return round2(cfg.BasePrice + extra), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
