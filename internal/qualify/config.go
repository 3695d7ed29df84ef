package qualify

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/quickleads/lead-broker/internal/config"
	"github.com/quickleads/lead-broker/internal/model"
)

// ValidateConfig checks that a RubricConfig is internally consistent.
func ValidateConfig(c config.RubricConfig) error {
	var errs []string

	points := map[string]int{
		"name_points":              c.NamePoints,
		"email_points":             c.EmailPoints,
		"phone_points":             c.PhonePoints,
		"move_size_points":         c.MoveSizePoints,
		"timeline_points":          c.TimelinePoints,
		"special_items_points":     c.SpecialItemsPoints,
		"distance_over_500_points": c.DistanceOver500Points,
		"distance_over_100_points": c.DistanceOver100Points,
		"distance_over_50_points":  c.DistanceOver50Points,
		"distance_base_points":     c.DistanceBasePoints,
	}
	for name, p := range points {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	for timeline, p := range c.UrgencyPoints {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("urgency_points[%s] must be >= 0", timeline))
		}
	}

	// Thresholds must descend so every score maps to exactly one tier.
	if c.PlatinumMin <= c.GoldMin {
		errs = append(errs, "platinum_min must be > gold_min")
	}
	if c.GoldMin <= c.SilverMin {
		errs = append(errs, "gold_min must be > silver_min")
	}
	if c.SilverMin <= 0 {
		errs = append(errs, "silver_min must be > 0")
	}

	// Every tier needs a positive price.
	for _, tier := range []model.Tier{model.TierPlatinum, model.TierGold, model.TierSilver, model.TierBronze} {
		if c.TierPrices[string(tier)] <= 0 {
			errs = append(errs, fmt.Sprintf("tier_prices[%s] must be > 0", tier))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("qualify: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
