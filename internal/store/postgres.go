package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/quickleads/lead-broker/internal/db"
	"github.com/quickleads/lead-broker/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_lead":         `INSERT INTO leads (id, lead_id, status, quality_tier, payload, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"get_lead":            `SELECT payload, status, distributed_to, created_at, updated_at FROM leads WHERE lead_id = $1`,
	"record_distribution": `UPDATE leads SET status = $1, distributed_to = $2, updated_at = $3 WHERE lead_id = $4`,
	"get_buyer":           `SELECT payload FROM buyers WHERE buyer_id = $1`,
	"list_active_buyers":  `SELECT payload FROM buyers WHERE active ORDER BY buyer_id`,
	"insert_analytics":    `INSERT INTO form_analytics (id, session_id, payload, created_at) VALUES ($1, $2, $3, $4)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id        TEXT NOT NULL UNIQUE,
	status         TEXT NOT NULL DEFAULT 'new',
	quality_tier   TEXT NOT NULL,
	distributed_to JSONB,
	payload        JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS buyers (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	buyer_id        TEXT NOT NULL UNIQUE,
	active          BOOLEAN NOT NULL DEFAULT true,
	conversion_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	payload         JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS form_analytics (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	session_id TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_buyers_active ON buyers(active);
CREATE INDEX IF NOT EXISTS idx_form_analytics_session ON form_analytics(session_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead *model.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now
	if lead.Status == "" {
		lead.Status = model.StatusNew
	}

	payload, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, lead_id, status, quality_tier, payload, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		lead.ID, lead.LeadID, string(lead.Status), string(lead.QualityTier), payload, lead.CreatedAt, lead.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: insert lead %s", lead.LeadID)
}

func (s *PostgresStore) GetLead(ctx context.Context, leadID string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT payload, status, distributed_to, created_at, updated_at FROM leads WHERE lead_id = $1`,
		leadID,
	)

	var payload []byte
	var status string
	var distributedTo *string
	var createdAt, updatedAt time.Time
	err := row.Scan(&payload, &status, &distributedTo, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", leadID)
	}

	return decodeLeadPG(payload, status, distributedTo, createdAt, updatedAt)
}

func (s *PostgresStore) ListLeads(ctx context.Context, page, perPage int) (*LeadPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "postgres: count leads")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT payload, status, distributed_to, created_at, updated_at FROM leads
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var payload []byte
		var status string
		var distributedTo *string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&payload, &status, &distributedTo, &createdAt, &updatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		lead, err := decodeLeadPG(payload, status, distributedTo, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: list leads iterate")
	}

	return &LeadPage{
		Leads:   leads,
		Total:   total,
		Pages:   pageCount(total, perPage),
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *PostgresStore) RecordDistribution(ctx context.Context, leadID string, buyerIDs []string) error {
	idsJSON, err := json.Marshal(buyerIDs)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal buyer ids")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET status = $1, distributed_to = $2, updated_at = $3 WHERE lead_id = $4`,
		string(model.StatusDistributed), idsJSON, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: record distribution %s", leadID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", leadID)
	}
	return nil
}

func (s *PostgresStore) SaveBuyer(ctx context.Context, buyer *model.Buyer) error {
	if buyer.ID == "" {
		buyer.ID = uuid.New().String()
	}
	if buyer.CreatedAt.IsZero() {
		buyer.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(buyer)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal buyer")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO buyers (id, buyer_id, active, conversion_rate, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (buyer_id) DO UPDATE SET
			active = EXCLUDED.active,
			conversion_rate = EXCLUDED.conversion_rate,
			payload = EXCLUDED.payload`,
		buyer.ID, buyer.BuyerID, buyer.Active, buyer.ConversionRate, payload, buyer.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: save buyer %s", buyer.BuyerID)
}

func (s *PostgresStore) GetBuyer(ctx context.Context, buyerID string) (*model.Buyer, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM buyers WHERE buyer_id = $1`, buyerID,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get buyer %s", buyerID)
	}
	return decodeBuyer(string(payload))
}

func (s *PostgresStore) ListActiveBuyers(ctx context.Context) ([]model.Buyer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM buyers WHERE active ORDER BY buyer_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list active buyers")
	}
	defer rows.Close()

	var buyers []model.Buyer
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan buyer")
		}
		b, err := decodeBuyer(string(payload))
		if err != nil {
			return nil, err
		}
		buyers = append(buyers, *b)
	}
	return buyers, eris.Wrap(rows.Err(), "postgres: list buyers iterate")
}

func (s *PostgresStore) InsertAnalytics(ctx context.Context, rec *model.FormAnalytics) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal analytics")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO form_analytics (id, session_id, payload, created_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.SessionID, payload, rec.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert analytics")
}

// decodeLeadPG rebuilds a lead from its JSONB payload, overlaying the
// columns that mutate after creation.
func decodeLeadPG(payload []byte, status string, distributedTo *string, createdAt, updatedAt time.Time) (*model.Lead, error) {
	var lead model.Lead
	if err := json.Unmarshal(payload, &lead); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal lead")
	}
	lead.Status = model.LeadStatus(status)
	lead.CreatedAt = createdAt
	lead.UpdatedAt = updatedAt
	if distributedTo != nil && *distributedTo != "" {
		if err := json.Unmarshal([]byte(*distributedTo), &lead.DistributedTo); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal distributed_to")
		}
	}
	return &lead, nil
}
