// Package match selects and ranks the buyers a qualified lead is routed to.
package match

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/quickleads/lead-broker/internal/config"
	"github.com/quickleads/lead-broker/internal/model"
)

// Matcher filters the buyer pool against a lead and ranks the survivors.
type Matcher struct {
	cfg config.MatchConfig
}

// New creates a Matcher with the given config.
func New(cfg config.MatchConfig) *Matcher {
	return &Matcher{cfg: cfg}
}

// Match returns the buyers eligible for the lead, ranked by conversion
// rate descending with buyer ID ascending as the tie-break, truncated to
// the configured cap. Inactive buyers never pass. An empty result is
// valid and means no distribution occurs.
func (m *Matcher) Match(lead *model.Lead, pool []model.Buyer) []model.Buyer {
	var matched []model.Buyer
	for _, b := range pool {
		if Eligible(lead, &b) {
			matched = append(matched, b)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ConversionRate != matched[j].ConversionRate {
			return matched[i].ConversionRate > matched[j].ConversionRate
		}
		return matched[i].BuyerID < matched[j].BuyerID
	})

	max := m.cfg.MaxBuyers
	if max > 0 && len(matched) > max {
		matched = matched[:max]
	}

	zap.L().Debug("match: buyer pool filtered",
		zap.String("lead_id", lead.LeadID),
		zap.Int("pool_size", len(pool)),
		zap.Int("matched", len(matched)),
	)

	return matched
}

// Eligible reports whether a single buyer passes every filter for the
// lead: active, tier accepted, service area, distance cap, and credit
// balance covering the lead value.
func Eligible(lead *model.Lead, b *model.Buyer) bool {
	if !b.Active {
		return false
	}
	if !b.AcceptsTier(lead.QualityTier) {
		return false
	}
	if !servesArea(b, lead.OriginAddress) {
		return false
	}
	if b.MaxDistance != nil && lead.DistanceMiles > *b.MaxDistance {
		return false
	}
	if b.CreditBalance < lead.LeadValue {
		return false
	}
	return true
}

// servesArea passes unconditionally for Nationwide buyers; otherwise any
// area name must appear as a case-insensitive substring of the origin
// address.
func servesArea(b *model.Buyer, originAddress string) bool {
	if b.ServesNationwide() {
		return true
	}
	origin := strings.ToLower(originAddress)
	for _, area := range b.ServiceAreas {
		if area == "" {
			continue
		}
		if strings.Contains(origin, strings.ToLower(area)) {
			return true
		}
	}
	return false
}
