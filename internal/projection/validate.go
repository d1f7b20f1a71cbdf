package projection

import (
	"fmt"
	"math"

	"CrestCast/internal/model"
)

// ValidateInputs checks every input constraint. Values are never clamped.
func ValidateInputs(in model.ProjectionInputs) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"total_aum", in.TotalAUM},
		{"allocation_pct", in.AllocationPct},
		{"base_fee_bps", in.BaseFeeBps},
		{"overlay_fee_bps", in.OverlayFeeBps},
		{"licensing_fee_bps", in.LicensingFeeBps},
		{"retention_lift_pct", in.RetentionLiftPct},
		{"organic_growth_pct", in.OrganicGrowthPct},
		{"tlh_uplift_bps", in.TLHUpliftBps},
	}
	for _, f := range fields {
		if !finite(f.value) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidInput, f.name, f.value)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidInput, f.name, f.value)
		}
	}

	if in.TotalAUM < model.MinTotalAUM {
		return fmt.Errorf("%w: total_aum must be at least %d, got %.2f", ErrInvalidInput, model.MinTotalAUM, in.TotalAUM)
	}
	if in.AllocationPct > model.MaxAllocationPct {
		return fmt.Errorf("%w: allocation_pct must be in [0,%d], got %v", ErrInvalidInput, model.MaxAllocationPct, in.AllocationPct)
	}
	if in.OrganicGrowthPct > model.MaxOrganicGrowthPct {
		return fmt.Errorf("%w: organic_growth_pct must be in [0,%d], got %v", ErrInvalidInput, model.MaxOrganicGrowthPct, in.OrganicGrowthPct)
	}
	if in.TLHUpliftBps > model.MaxTLHUpliftBps {
		return fmt.Errorf("%w: tlh_uplift_bps must be in [0,%d], got %v", ErrInvalidInput, model.MaxTLHUpliftBps, in.TLHUpliftBps)
	}
	if !in.Benchmark.Valid() {
		return fmt.Errorf("%w: unknown benchmark_choice %q", ErrInvalidInput, in.Benchmark)
	}
	if !in.Mode.Valid() {
		return fmt.Errorf("%w: unknown simulation_mode %q", ErrInvalidInput, in.Mode)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
