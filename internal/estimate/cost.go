// Package estimate computes move cost estimates from distance, declared
// move size, and special items.
package estimate

import (
	"math"

	"github.com/quickleads/lead-broker/internal/config"
	"github.com/quickleads/lead-broker/internal/model"
)

// Calculator prices moves from the configured rate tables.
type Calculator struct {
	cfg config.PricingConfig
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(cfg config.PricingConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Estimate computes the cost range for a move. distanceMiles must be >= 0.
// An unknown or empty move size uses the default multiplier. Special items
// contribute only by count. Every output component is rounded to the
// nearest $10 independently, after computation.
func (c *Calculator) Estimate(distanceMiles float64, size model.MoveSize, specialItems []string) model.Estimate {
	mult := c.cfg.DefaultMultiplier
	if m, ok := c.cfg.SizeMultipliers[string(size)]; ok {
		mult = m
	}

	labor := c.cfg.BaseRate * mult
	truckTravel := distanceMiles * c.cfg.MileageRate
	materials := c.cfg.MaterialsBase * mult
	surcharge := float64(len(specialItems)) * c.cfg.SpecialItemSurcharge

	typical := labor + truckTravel + materials + surcharge

	return model.Estimate{
		Low:         roundTen(typical * 0.8),
		High:        roundTen(typical * 1.2),
		Typical:     roundTen(typical),
		Labor:       roundTen(labor),
		TruckTravel: roundTen(truckTravel),
		Materials:   roundTen(materials),
	}
}

// roundTen rounds to the nearest multiple of 10.
func roundTen(v float64) float64 {
	return math.Round(v/10) * 10
}
