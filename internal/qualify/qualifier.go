// Package qualify scores lead submissions against the qualification
// rubric and assigns quality tiers.
package qualify

import (
	"go.uber.org/zap"

	"github.com/quickleads/lead-broker/internal/config"
	"github.com/quickleads/lead-broker/internal/model"
)

// Result holds the qualification outcome for a single submission.
type Result struct {
	Tier      model.Tier `json:"tier"`
	Score     int        `json:"score"`
	LeadValue float64    `json:"lead_value"`
}

// Qualifier scores submissions using an injected rubric.
type Qualifier struct {
	cfg config.RubricConfig
}

// New creates a Qualifier with the given rubric.
func New(cfg config.RubricConfig) *Qualifier {
	return &Qualifier{cfg: cfg}
}

// Qualify scores a submission plus its computed distance. Checks are
// additive and independent. The distance brackets are mutually exclusive:
// exactly one fires.
func (q *Qualifier) Qualify(sub *model.Submission, distanceMiles float64) Result {
	score := 0

	// Contact completeness.
	if sub.Name != "" {
		score += q.cfg.NamePoints
	}
	if sub.Email != "" {
		score += q.cfg.EmailPoints
	}
	if sub.Phone != "" {
		score += q.cfg.PhonePoints
	}

	// Move detail.
	if sub.MoveSize != "" {
		score += q.cfg.MoveSizePoints
	}
	if sub.MoveTimeline != "" {
		score += q.cfg.TimelinePoints
	}
	if len(sub.SpecialItems) > 0 {
		score += q.cfg.SpecialItemsPoints
	}

	// Distance bracket.
	switch {
	case distanceMiles > 500:
		score += q.cfg.DistanceOver500Points
	case distanceMiles > 100:
		score += q.cfg.DistanceOver100Points
	case distanceMiles > 50:
		score += q.cfg.DistanceOver50Points
	default:
		score += q.cfg.DistanceBasePoints
	}

	// Timeline urgency. Unmatched or missing timelines score 0.
	score += q.cfg.UrgencyPoints[string(sub.MoveTimeline)]

	tier := q.tierFor(score)

	zap.L().Debug("qualify: submission scored",
		zap.Int("score", score),
		zap.String("tier", string(tier)),
		zap.Float64("distance_miles", distanceMiles),
	)

	return Result{
		Tier:      tier,
		Score:     score,
		LeadValue: q.cfg.TierPrices[string(tier)],
	}
}

func (q *Qualifier) tierFor(score int) model.Tier {
	switch {
	case score >= q.cfg.PlatinumMin:
		return model.TierPlatinum
	case score >= q.cfg.GoldMin:
		return model.TierGold
	case score >= q.cfg.SilverMin:
		return model.TierSilver
	default:
		return model.TierBronze
	}
}
