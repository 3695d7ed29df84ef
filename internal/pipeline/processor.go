// Package pipeline runs a move-request submission through enrichment,
// pricing, qualification, and buyer distribution.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quickleads/lead-broker/internal/config"
	"github.com/quickleads/lead-broker/internal/estimate"
	"github.com/quickleads/lead-broker/internal/geo"
	"github.com/quickleads/lead-broker/internal/match"
	"github.com/quickleads/lead-broker/internal/model"
	"github.com/quickleads/lead-broker/internal/qualify"
	"github.com/quickleads/lead-broker/internal/store"
	"github.com/quickleads/lead-broker/pkg/geocode"
)

// Processor wires the pipeline stages together. All stages after
// geocoding are deterministic for a given submission.
type Processor struct {
	store     store.Store
	geocoder  geocode.Client
	calc      *estimate.Calculator
	qualifier *qualify.Qualifier
	matcher   *match.Matcher
}

// New creates a Processor from the loaded config.
func New(cfg *config.Config, st store.Store, geocoder geocode.Client) *Processor {
	return &Processor{
		store:     st,
		geocoder:  geocoder,
		calc:      estimate.NewCalculator(cfg.Pricing),
		qualifier: qualify.New(cfg.Rubric),
		matcher:   match.New(cfg.Match),
	}
}

// Result is the outcome of processing one submission: the persisted
// lead and the buyers it was routed to, in rank order.
type Result struct {
	Lead       *model.Lead
	Buyers     []model.Buyer
	EstimateID string
}

// Process validates, enriches, prices, qualifies, persists, and
// distributes a single submission.
func (p *Processor) Process(ctx context.Context, sub *model.Submission) (*Result, error) {
	if err := Validate(sub); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("origin", sub.OriginAddress), zap.String("destination", sub.DestinationAddress))

	// Origin and destination resolve independently; run the two
	// provider round-trips in parallel.
	var origin, destination geocode.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		origin = p.geocoder.Resolve(gctx, sub.OriginAddress)
		return nil
	})
	g.Go(func() error {
		destination = p.geocoder.Resolve(gctx, sub.DestinationAddress)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: geocode")
	}

	distance := geo.Miles(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
	est := p.calc.Estimate(distance, sub.MoveSize, sub.SpecialItems)
	quality := p.qualifier.Qualify(sub, distance)

	lead := &model.Lead{
		LeadID:              newLeadID(time.Now().UTC()),
		Submission:          *sub,
		OriginLat:           origin.Latitude,
		OriginLon:           origin.Longitude,
		OriginFallback:      origin.Fallback,
		DestinationLat:      destination.Latitude,
		DestinationLon:      destination.Longitude,
		DestinationFallback: destination.Fallback,
		DistanceMiles:       distance,
		Estimate:            est,
		QualityTier:         quality.Tier,
		QualityScore:        quality.Score,
		LeadValue:           quality.LeadValue,
	}

	if err := p.store.CreateLead(ctx, lead); err != nil {
		return nil, eris.Wrap(err, "pipeline: persist lead")
	}

	buyers, err := p.store.ListActiveBuyers(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load buyers")
	}
	matched := p.matcher.Match(lead, buyers)

	if len(matched) > 0 {
		ids := make([]string, len(matched))
		for i, b := range matched {
			ids[i] = b.BuyerID
		}
		if err := p.store.RecordDistribution(ctx, lead.LeadID, ids); err != nil {
			return nil, eris.Wrap(err, "pipeline: record distribution")
		}
		lead.Status = model.StatusDistributed
		lead.DistributedTo = ids
	}

	log.Info("pipeline: lead processed",
		zap.String("lead_id", lead.LeadID),
		zap.String("tier", string(lead.QualityTier)),
		zap.Int("score", lead.QualityScore),
		zap.Float64("distance_miles", distance),
		zap.Int("buyers_matched", len(matched)),
	)

	return &Result{
		Lead:       lead,
		Buyers:     matched,
		EstimateID: estimateID(lead.LeadID, sub.Email),
	}, nil
}

// newLeadID builds a customer-facing reference, e.g. QL2026083104217.
func newLeadID(now time.Time) string {
	return fmt.Sprintf("QL%s%05d", now.Format("20060102"), rand.IntN(100000))
}

// estimateID is a short stable token tying an estimate back to the
// lead without exposing the lead ID itself.
func estimateID(leadID, email string) string {
	sum := sha256.Sum256([]byte(leadID + email))
	return hex.EncodeToString(sum[:])[:12]
}
