// Package store persists leads, buyers, and form analytics.
package store

import (
	"context"

	"github.com/quickleads/lead-broker/internal/model"
)

// LeadPage is one page of a lead listing, newest first.
type LeadPage struct {
	Leads   []model.Lead `json:"leads"`
	Total   int          `json:"total"`
	Pages   int          `json:"pages"`
	Page    int          `json:"current_page"`
	PerPage int          `json:"per_page"`
}

// Store defines the persistence interface for the lead pipeline.
type Store interface {
	// Leads
	CreateLead(ctx context.Context, lead *model.Lead) error
	GetLead(ctx context.Context, leadID string) (*model.Lead, error)
	ListLeads(ctx context.Context, page, perPage int) (*LeadPage, error)
	// RecordDistribution sets the lead's buyer ID set and flips its
	// status to distributed. Re-running overwrites the recorded set.
	RecordDistribution(ctx context.Context, leadID string, buyerIDs []string) error

	// Buyers
	SaveBuyer(ctx context.Context, buyer *model.Buyer) error
	GetBuyer(ctx context.Context, buyerID string) (*model.Buyer, error)
	ListActiveBuyers(ctx context.Context) ([]model.Buyer, error)

	// Analytics
	InsertAnalytics(ctx context.Context, rec *model.FormAnalytics) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
