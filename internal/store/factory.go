package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/quickleads/lead-broker/internal/config"
)

// Open creates the Store configured by cfg. Supported drivers are
// "postgres" and "sqlite".
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
