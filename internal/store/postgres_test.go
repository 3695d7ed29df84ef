package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickleads/lead-broker/internal/model"
)

func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgres_CreateLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs(pgxmock.AnyArg(), "QL-1", "new", "gold", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	lead := sampleLead("QL-1")
	require.NoError(t, s.CreateLead(context.Background(), lead))
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, model.StatusNew, lead.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	stored := sampleLead("QL-2")
	payload, err := json.Marshal(stored)
	require.NoError(t, err)
	distributed := `["B001","B003"]`
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT payload, status, distributed_to, created_at, updated_at FROM leads`).
		WithArgs("QL-2").
		WillReturnRows(pgxmock.NewRows([]string{"payload", "status", "distributed_to", "created_at", "updated_at"}).
			AddRow(payload, "distributed", &distributed, now, now))

	got, err := s.GetLead(context.Background(), "QL-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, model.StatusDistributed, got.Status)
	assert.Equal(t, []string{"B001", "B003"}, got.DistributedTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetLead_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT payload, status, distributed_to, created_at, updated_at FROM leads`).
		WithArgs("QL-missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetLead(context.Background(), "QL-missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecordDistribution(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE leads SET status`).
		WithArgs("distributed", pgxmock.AnyArg(), pgxmock.AnyArg(), "QL-3").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.RecordDistribution(context.Background(), "QL-3", []string{"B001"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecordDistribution_UnknownLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE leads SET status`).
		WithArgs("distributed", pgxmock.AnyArg(), pgxmock.AnyArg(), "QL-missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.RecordDistribution(context.Background(), "QL-missing", []string{"B001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	stored := sampleLead("QL-4")
	payload, err := json.Marshal(stored)
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT payload, status, distributed_to, created_at, updated_at FROM leads`).
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows([]string{"payload", "status", "distributed_to", "created_at", "updated_at"}).
			AddRow(payload, "new", (*string)(nil), now, now))

	page, err := s.ListLeads(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Leads, 1)
	assert.Equal(t, "QL-4", page.Leads[0].LeadID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveBuyer(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO buyers`).
		WithArgs(pgxmock.AnyArg(), "B001", true, 0.25, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveBuyer(context.Background(), sampleBuyer("B001")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListActiveBuyers(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	b1, err := json.Marshal(sampleBuyer("B001"))
	require.NoError(t, err)
	b2, err := json.Marshal(sampleBuyer("B002"))
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT payload FROM buyers WHERE active`).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(b1).AddRow(b2))

	buyers, err := s.ListActiveBuyers(context.Background())
	require.NoError(t, err)
	require.Len(t, buyers, 2)
	assert.Equal(t, "B001", buyers[0].BuyerID)
	assert.Equal(t, "B002", buyers[1].BuyerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_InsertAnalytics(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO form_analytics`).
		WithArgs(pgxmock.AnyArg(), "sess-42", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := &model.FormAnalytics{SessionID: "sess-42", StepReached: 2}
	require.NoError(t, s.InsertAnalytics(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
