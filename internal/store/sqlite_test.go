package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickleads/lead-broker/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleLead(leadID string) *model.Lead {
	return &model.Lead{
		LeadID: leadID,
		Submission: model.Submission{
			Name:               "Jane Doe",
			Email:              "jane@example.com",
			MoveType:           model.MoveLocal,
			OriginAddress:      "500 Congress Ave, Austin, TX",
			DestinationAddress: "1 Main St, Dallas, TX",
			MoveSize:           model.SizeOneBR,
			SpecialItems:       []string{"piano"},
		},
		OriginLat:      30.2672,
		OriginLon:      -97.7431,
		DestinationLat: 32.7767,
		DestinationLon: -96.7970,
		DistanceMiles:  182.5,
		Estimate: model.Estimate{
			Low: 560, High: 840, Typical: 700,
			Labor: 180, TruckTravel: 460, Materials: 60,
		},
		QualityTier:  model.TierGold,
		QualityScore: 77,
		LeadValue:    50,
	}
}

func sampleBuyer(buyerID string) *model.Buyer {
	return &model.Buyer{
		BuyerID:        buyerID,
		CompanyName:    "Swift Local Movers",
		ContactEmail:   "contact@swiftlocal.com",
		ServiceAreas:   []string{"Texas", "Austin"},
		AcceptsTiers:   []model.Tier{model.TierSilver, model.TierBronze},
		Rating:         4.6,
		ConversionRate: 0.25,
		CreditBalance:  1000,
		Active:         true,
	}
}

func TestSQLite_CreateAndGetLead(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	lead := sampleLead("QL2026083112345")
	require.NoError(t, s.CreateLead(ctx, lead))
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, model.StatusNew, lead.Status)

	got, err := s.GetLead(ctx, "QL2026083112345")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, model.TierGold, got.QualityTier)
	assert.Equal(t, []string{"piano"}, got.SpecialItems)
	assert.Equal(t, model.StatusNew, got.Status)
	assert.Empty(t, got.DistributedTo)
	assert.InDelta(t, 182.5, got.DistanceMiles, 0.001)
}

func TestSQLite_GetLead_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.GetLead(context.Background(), "QL-missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_DuplicateLeadIDRejected(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLead(ctx, sampleLead("QL-dup")))
	err := s.CreateLead(ctx, sampleLead("QL-dup"))
	require.Error(t, err)
}

func TestSQLite_RecordDistribution(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLead(ctx, sampleLead("QL-dist")))
	require.NoError(t, s.RecordDistribution(ctx, "QL-dist", []string{"B002", "B001"}))

	got, err := s.GetLead(ctx, "QL-dist")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDistributed, got.Status)
	assert.Equal(t, []string{"B002", "B001"}, got.DistributedTo)

	// Re-running overwrites the recorded set.
	require.NoError(t, s.RecordDistribution(ctx, "QL-dist", []string{"B003"}))
	got, err = s.GetLead(ctx, "QL-dist")
	require.NoError(t, err)
	assert.Equal(t, []string{"B003"}, got.DistributedTo)
}

func TestSQLite_RecordDistribution_UnknownLead(t *testing.T) {
	s := newTestSQLite(t)

	err := s.RecordDistribution(context.Background(), "QL-missing", []string{"B001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
}

func TestSQLite_ListLeads_Pagination(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		lead := sampleLead(leadIDForIndex(i))
		lead.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.CreateLead(ctx, lead))
	}

	page, err := s.ListLeads(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Leads, 2)

	// Newest first.
	assert.Equal(t, leadIDForIndex(4), page.Leads[0].LeadID)
	assert.Equal(t, leadIDForIndex(3), page.Leads[1].LeadID)

	last, err := s.ListLeads(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, last.Leads, 1)
	assert.Equal(t, leadIDForIndex(0), last.Leads[0].LeadID)
}

func leadIDForIndex(i int) string {
	return "QL-page-" + string(rune('a'+i))
}

func TestSQLite_SaveBuyer_UpsertAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	b := sampleBuyer("B001")
	require.NoError(t, s.SaveBuyer(ctx, b))

	got, err := s.GetBuyer(ctx, "B001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Swift Local Movers", got.CompanyName)
	assert.True(t, got.Active)

	// Saving again with changed fields overwrites.
	b.CreditBalance = 250
	b.Active = false
	require.NoError(t, s.SaveBuyer(ctx, b))

	got, err = s.GetBuyer(ctx, "B001")
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.CreditBalance)
	assert.False(t, got.Active)
}

func TestSQLite_GetBuyer_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.GetBuyer(context.Background(), "B-missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_ListActiveBuyers_FiltersInactive(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	active := sampleBuyer("B001")
	inactive := sampleBuyer("B002")
	inactive.Active = false
	require.NoError(t, s.SaveBuyer(ctx, active))
	require.NoError(t, s.SaveBuyer(ctx, inactive))

	buyers, err := s.ListActiveBuyers(ctx)
	require.NoError(t, err)
	require.Len(t, buyers, 1)
	assert.Equal(t, "B001", buyers[0].BuyerID)
}

func TestSQLite_InsertAnalytics(t *testing.T) {
	s := newTestSQLite(t)

	rec := &model.FormAnalytics{
		SessionID:   "sess-123",
		StepReached: 3,
		Completed:   true,
		UserAgent:   "Mozilla/5.0",
		TestVariant: "b",
	}
	require.NoError(t, s.InsertAnalytics(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}
