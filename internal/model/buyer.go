package model

import "time"

// Nationwide is the service-area sentinel that matches any origin address.
const Nationwide = "Nationwide"

// Buyer is a paying entity eligible to receive leads.
type Buyer struct {
	ID      string `json:"id" yaml:"-"`
	BuyerID string `json:"buyer_id" yaml:"buyer_id"`

	CompanyName  string `json:"company_name" yaml:"company_name"`
	ContactEmail string `json:"contact_email" yaml:"contact_email"`
	ContactPhone string `json:"contact_phone,omitempty" yaml:"contact_phone,omitempty"`

	// ServiceAreas holds region names matched against the lead's origin
	// address, or the Nationwide sentinel.
	ServiceAreas []string `json:"service_areas" yaml:"service_areas"`
	// MaxDistance caps the lead distance in miles. Nil means unbounded.
	MaxDistance *float64 `json:"max_distance,omitempty" yaml:"max_distance,omitempty"`
	Specialties []string `json:"specialties,omitempty" yaml:"specialties,omitempty"`

	AcceptsTiers []Tier `json:"accepts_lead_tiers" yaml:"accepts_lead_tiers"`

	Rating          float64 `json:"rating" yaml:"rating"`
	ResponseTimeAvg int     `json:"response_time_avg" yaml:"response_time_avg"` // minutes
	ConversionRate  float64 `json:"conversion_rate" yaml:"conversion_rate"`
	CreditBalance   float64 `json:"credit_balance" yaml:"credit_balance"`

	Active    bool      `json:"active" yaml:"active"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// AcceptsTier reports whether the buyer accepts leads of the given tier.
func (b *Buyer) AcceptsTier(t Tier) bool {
	for _, accepted := range b.AcceptsTiers {
		if accepted == t {
			return true
		}
	}
	return false
}

// ServesNationwide reports whether the buyer's area set contains the
// Nationwide sentinel.
func (b *Buyer) ServesNationwide() bool {
	for _, area := range b.ServiceAreas {
		if area == Nationwide {
			return true
		}
	}
	return false
}
