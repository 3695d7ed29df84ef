package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/quickleads/lead-broker/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	lead_id        TEXT NOT NULL UNIQUE,
	status         TEXT NOT NULL DEFAULT 'new',
	quality_tier   TEXT NOT NULL,
	distributed_to TEXT,
	payload        TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS buyers (
	id              TEXT PRIMARY KEY,
	buyer_id        TEXT NOT NULL UNIQUE,
	active          INTEGER NOT NULL DEFAULT 1,
	conversion_rate REAL NOT NULL DEFAULT 0,
	payload         TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS form_analytics (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
CREATE INDEX IF NOT EXISTS idx_buyers_active ON buyers(active);
CREATE INDEX IF NOT EXISTS idx_form_analytics_session ON form_analytics(session_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *model.Lead) error {
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
		return eris.Wrap(err, "sqlite: marshal lead")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, lead_id, status, quality_tier, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.LeadID, string(lead.Status), string(lead.QualityTier), string(payload), lead.CreatedAt, lead.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert lead %s", lead.LeadID)
}

func (s *SQLiteStore) GetLead(ctx context.Context, leadID string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, status, distributed_to, created_at, updated_at FROM leads WHERE lead_id = ?`,
		leadID,
	)

	var payload, status string
	var distributedTo sql.NullString
	var createdAt, updatedAt time.Time
	err := row.Scan(&payload, &status, &distributedTo, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", leadID)
	}

	return decodeLead(payload, status, distributedTo, createdAt, updatedAt)
}

func (s *SQLiteStore) ListLeads(ctx context.Context, page, perPage int) (*LeadPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "sqlite: count leads")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload, status, distributed_to, created_at, updated_at FROM leads
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var payload, status string
		var distributedTo sql.NullString
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&payload, &status, &distributedTo, &createdAt, &updatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		lead, err := decodeLead(payload, status, distributedTo, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads iterate")
	}

	return &LeadPage{
		Leads:   leads,
		Total:   total,
		Pages:   pageCount(total, perPage),
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *SQLiteStore) RecordDistribution(ctx context.Context, leadID string, buyerIDs []string) error {
	idsJSON, err := json.Marshal(buyerIDs)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal buyer ids")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, distributed_to = ?, updated_at = ? WHERE lead_id = ?`,
		string(model.StatusDistributed), string(idsJSON), time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: record distribution %s", leadID)
	}
	return checkRowsAffected(res, "lead", leadID)
}

func (s *SQLiteStore) SaveBuyer(ctx context.Context, buyer *model.Buyer) error {
	if buyer.ID == "" {
		buyer.ID = uuid.New().String()
	}
	if buyer.CreatedAt.IsZero() {
		buyer.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(buyer)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal buyer")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO buyers (id, buyer_id, active, conversion_rate, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (buyer_id) DO UPDATE SET
			active = excluded.active,
			conversion_rate = excluded.conversion_rate,
			payload = excluded.payload`,
		buyer.ID, buyer.BuyerID, buyer.Active, buyer.ConversionRate, string(payload), buyer.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: save buyer %s", buyer.BuyerID)
}

func (s *SQLiteStore) GetBuyer(ctx context.Context, buyerID string) (*model.Buyer, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM buyers WHERE buyer_id = ?`, buyerID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get buyer %s", buyerID)
	}
	return decodeBuyer(payload)
}

func (s *SQLiteStore) ListActiveBuyers(ctx context.Context) ([]model.Buyer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM buyers WHERE active = 1 ORDER BY buyer_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list active buyers")
	}
	defer rows.Close()

	var buyers []model.Buyer
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan buyer")
		}
		b, err := decodeBuyer(payload)
		if err != nil {
			return nil, err
		}
		buyers = append(buyers, *b)
	}
	return buyers, eris.Wrap(rows.Err(), "sqlite: list buyers iterate")
}

func (s *SQLiteStore) InsertAnalytics(ctx context.Context, rec *model.FormAnalytics) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analytics")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO form_analytics (id, session_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.SessionID, string(payload), rec.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert analytics")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

// decodeLead rebuilds a lead from its JSON payload, overlaying the
// columns that mutate after creation.
func decodeLead(payload, status string, distributedTo sql.NullString, createdAt, updatedAt time.Time) (*model.Lead, error) {
	var lead model.Lead
	if err := json.Unmarshal([]byte(payload), &lead); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal lead")
	}
	lead.Status = model.LeadStatus(status)
	lead.CreatedAt = createdAt
	lead.UpdatedAt = updatedAt
	if distributedTo.Valid && distributedTo.String != "" {
		if err := json.Unmarshal([]byte(distributedTo.String), &lead.DistributedTo); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal distributed_to")
		}
	}
	return &lead, nil
}

func decodeBuyer(payload string) (*model.Buyer, error) {
	var b model.Buyer
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal buyer")
	}
	return &b, nil
}

func pageCount(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
