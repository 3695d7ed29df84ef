package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Pricing PricingConfig `yaml:"pricing" mapstructure:"pricing"`
	Rubric  RubricConfig  `yaml:"rubric" mapstructure:"rubric"`
	Match   MatchConfig   `yaml:"match" mapstructure:"match"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// GeocodeConfig configures the Nominatim client and its fallback coordinate.
type GeocodeConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	FallbackLat float64 `yaml:"fallback_lat" mapstructure:"fallback_lat"`
	FallbackLon float64 `yaml:"fallback_lon" mapstructure:"fallback_lon"`
}

// PricingConfig holds the estimate formula rates, in dollars.
type PricingConfig struct {
	BaseRate             float64            `yaml:"base_rate" mapstructure:"base_rate"`
	MileageRate          float64            `yaml:"mileage_rate" mapstructure:"mileage_rate"`
	MaterialsBase        float64            `yaml:"materials_base" mapstructure:"materials_base"`
	SpecialItemSurcharge float64            `yaml:"special_item_surcharge" mapstructure:"special_item_surcharge"`
	DefaultMultiplier    float64            `yaml:"default_multiplier" mapstructure:"default_multiplier"`
	SizeMultipliers      map[string]float64 `yaml:"size_multipliers" mapstructure:"size_multipliers"`
}

// RubricConfig holds the lead qualification point values, tier thresholds,
// and per-tier lead prices.
type RubricConfig struct {
	// Contact completeness.
	NamePoints  int `yaml:"name_points" mapstructure:"name_points"`
	EmailPoints int `yaml:"email_points" mapstructure:"email_points"`
	PhonePoints int `yaml:"phone_points" mapstructure:"phone_points"`

	// Move detail.
	MoveSizePoints     int `yaml:"move_size_points" mapstructure:"move_size_points"`
	TimelinePoints     int `yaml:"timeline_points" mapstructure:"timeline_points"`
	SpecialItemsPoints int `yaml:"special_items_points" mapstructure:"special_items_points"`

	// Distance brackets, mutually exclusive; exactly one fires.
	DistanceOver500Points int `yaml:"distance_over_500_points" mapstructure:"distance_over_500_points"`
	DistanceOver100Points int `yaml:"distance_over_100_points" mapstructure:"distance_over_100_points"`
	DistanceOver50Points  int `yaml:"distance_over_50_points" mapstructure:"distance_over_50_points"`
	DistanceBasePoints    int `yaml:"distance_base_points" mapstructure:"distance_base_points"`

	// Timeline urgency, keyed by the exact submission string.
	UrgencyPoints map[string]int `yaml:"urgency_points" mapstructure:"urgency_points"`

	// Tier thresholds on the total score.
	PlatinumMin int `yaml:"platinum_min" mapstructure:"platinum_min"`
	GoldMin     int `yaml:"gold_min" mapstructure:"gold_min"`
	SilverMin   int `yaml:"silver_min" mapstructure:"silver_min"`

	// Price charged to buyers per tier.
	TierPrices map[string]float64 `yaml:"tier_prices" mapstructure:"tier_prices"`
}

// MatchConfig configures buyer matching.
type MatchConfig struct {
	MaxBuyers int `yaml:"max_buyers" mapstructure:"max_buyers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Defaults returns the built-in configuration, matching the defaults
// Load registers. Useful for tests and embedded use.
func Defaults() *Config {
	return &Config{
		Store:  StoreConfig{Driver: "sqlite", DatabaseURL: "leadbroker.db"},
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info", Format: "json"},
		Geocode: GeocodeConfig{
			BaseURL:     "https://nominatim.openstreetmap.org",
			UserAgent:   "lead-broker/1.0",
			TimeoutSecs: 10,
			RateLimit:   1,
			FallbackLat: 30.2672,
			FallbackLon: -97.7431,
		},
		Pricing: PricingConfig{
			BaseRate:             150.0,
			MileageRate:          2.50,
			MaterialsBase:        50.0,
			SpecialItemSurcharge: 100.0,
			DefaultMultiplier:    1.5,
			SizeMultipliers: map[string]float64{
				"studio": 1.0,
				"1br":    1.2,
				"2-3br":  1.8,
				"4+br":   2.5,
				"office": 2.0,
			},
		},
		Rubric: RubricConfig{
			NamePoints:            10,
			EmailPoints:           10,
			PhonePoints:           10,
			MoveSizePoints:        15,
			TimelinePoints:        15,
			SpecialItemsPoints:    10,
			DistanceOver500Points: 20,
			DistanceOver100Points: 15,
			DistanceOver50Points:  10,
			DistanceBasePoints:    5,
			UrgencyPoints: map[string]int{
				"asap":      10,
				"1-2weeks":  7,
				"1-2months": 4,
				"3+months":  2,
			},
			PlatinumMin: 85,
			GoldMin:     70,
			SilverMin:   50,
			TierPrices: map[string]float64{
				"platinum": 75.00,
				"gold":     50.00,
				"silver":   35.00,
				"bronze":   25.00,
			},
		},
		Match: MatchConfig{MaxBuyers: 5},
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADBROKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadbroker.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "lead-broker/1.0")
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.rate_limit", 1) // Nominatim usage policy: 1 req/s
	v.SetDefault("geocode.fallback_lat", 30.2672)
	v.SetDefault("geocode.fallback_lon", -97.7431)

	v.SetDefault("pricing.base_rate", 150.0)
	v.SetDefault("pricing.mileage_rate", 2.50)
	v.SetDefault("pricing.materials_base", 50.0)
	v.SetDefault("pricing.special_item_surcharge", 100.0)
	v.SetDefault("pricing.default_multiplier", 1.5)
	v.SetDefault("pricing.size_multipliers", map[string]float64{
		"studio": 1.0,
		"1br":    1.2,
		"2-3br":  1.8,
		"4+br":   2.5,
		"office": 2.0,
	})

	v.SetDefault("rubric.name_points", 10)
	v.SetDefault("rubric.email_points", 10)
	v.SetDefault("rubric.phone_points", 10)
	v.SetDefault("rubric.move_size_points", 15)
	v.SetDefault("rubric.timeline_points", 15)
	v.SetDefault("rubric.special_items_points", 10)
	v.SetDefault("rubric.distance_over_500_points", 20)
	v.SetDefault("rubric.distance_over_100_points", 15)
	v.SetDefault("rubric.distance_over_50_points", 10)
	v.SetDefault("rubric.distance_base_points", 5)
	v.SetDefault("rubric.urgency_points", map[string]int{
		"asap":      10,
		"1-2weeks":  7,
		"1-2months": 4,
		"3+months":  2,
	})
	v.SetDefault("rubric.platinum_min", 85)
	v.SetDefault("rubric.gold_min", 70)
	v.SetDefault("rubric.silver_min", 50)
	v.SetDefault("rubric.tier_prices", map[string]float64{
		"platinum": 75.00,
		"gold":     50.00,
		"silver":   35.00,
		"bronze":   25.00,
	})

	v.SetDefault("match.max_buyers", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
