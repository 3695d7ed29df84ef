// Package model defines the lead brokerage domain types shared across
// the pipeline, stores, and HTTP surface.
package model

import "time"

// MoveType classifies the kind of move requested.
type MoveType string

const (
	MoveLocal         MoveType = "local"
	MoveLongDistance  MoveType = "long_distance"
	MoveInternational MoveType = "international"
)

// MoveSize is the declared size of the move. Optional on submission;
// unknown values fall through to the default pricing multiplier.
type MoveSize string

const (
	SizeStudio MoveSize = "studio"
	SizeOneBR  MoveSize = "1br"
	SizeTwoBR  MoveSize = "2-3br"
	SizeFourBR MoveSize = "4+br"
	SizeOffice MoveSize = "office"
)

// Timeline is the declared move timeline. Optional on submission.
type Timeline string

const (
	TimelineASAP      Timeline = "asap"
	TimelineTwoWeeks  Timeline = "1-2weeks"
	TimelineTwoMonths Timeline = "1-2months"
	TimelineLater     Timeline = "3+months"
)

// Tier is the lead quality bucket. It determines the price charged to
// buyers and which buyers are eligible to receive the lead.
type Tier string

const (
	TierPlatinum Tier = "platinum"
	TierGold     Tier = "gold"
	TierSilver   Tier = "silver"
	TierBronze   Tier = "bronze"
)

// LeadStatus tracks the lead lifecycle. This core only moves leads from
// StatusNew to StatusDistributed; later transitions belong to downstream
// sales tooling.
type LeadStatus string

const (
	StatusNew         LeadStatus = "new"
	StatusDistributed LeadStatus = "distributed"
	StatusContacted   LeadStatus = "contacted"
	StatusConverted   LeadStatus = "converted"
)

// Submission is the raw move-request form input.
type Submission struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone,omitempty"`
	MoveType           MoveType `json:"move_type"`
	OriginAddress      string   `json:"origin_address"`
	DestinationAddress string   `json:"destination_address"`
	MoveSize           MoveSize `json:"move_size,omitempty"`
	MoveTimeline       Timeline `json:"move_timeline,omitempty"`
	SpecialItems       []string `json:"special_items,omitempty"`
}

// Estimate is the priced cost range for a move, all amounts rounded to
// the nearest $10.
type Estimate struct {
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	Typical     float64 `json:"typical"`
	Labor       float64 `json:"labor"`
	TruckTravel float64 `json:"truck_travel"`
	Materials   float64 `json:"materials"`
}

// Lead is a submission after enrichment, pricing, and qualification.
type Lead struct {
	ID     string `json:"id"`
	LeadID string `json:"lead_id"`

	Submission

	// Enrichment. Fallback flags mark coordinates substituted from the
	// configured default city when geocoding did not resolve.
	OriginLat           float64 `json:"origin_lat"`
	OriginLon           float64 `json:"origin_lon"`
	OriginFallback      bool    `json:"origin_fallback"`
	DestinationLat      float64 `json:"destination_lat"`
	DestinationLon      float64 `json:"destination_lon"`
	DestinationFallback bool    `json:"destination_fallback"`
	DistanceMiles       float64 `json:"distance_miles"`

	Estimate Estimate `json:"estimate"`

	QualityTier  Tier    `json:"quality_tier"`
	QualityScore int     `json:"quality_score"`
	LeadValue    float64 `json:"lead_value"`

	Status        LeadStatus `json:"status"`
	DistributedTo []string   `json:"distributed_to,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDistributed reports whether the lead has been routed to buyers.
func (l *Lead) IsDistributed() bool {
	return l.Status == StatusDistributed
}
