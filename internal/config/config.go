package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// VenueConfig describes one of the operational sites (recintos). Each
// venue has its own Skill idData identifier and its own CRM Firebase
// Realtime Database instance.
type VenueConfig struct {
	Code        string `mapstructure:"code"`
	Name        string `mapstructure:"name"`
	IDData      string `mapstructure:"id_data"`
	FirebaseURL string `mapstructure:"firebase_url"`
}

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Skill struct {
		BaseURL       string `mapstructure:"base_url"`
		CompanyAuthID string `mapstructure:"company_auth_id"`
		ServiceToken  string `mapstructure:"service_token"`
		TimeoutSecs   int    `mapstructure:"timeout_secs"`
	} `mapstructure:"skill"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Firebase struct {
		CredentialsFile string `mapstructure:"credentials_file"`
	} `mapstructure:"firebase"`

	Venues []VenueConfig `mapstructure:"venues"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "skill-backend")
	v.SetDefault("skill.timeout_secs", 30)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type", "X-Venue"})

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override Skill API settings from SKILL_* environment variables
	if base := os.Getenv("SKILL_BASE_URL"); base != "" {
		cfg.Skill.BaseURL = base
	}
	if authID := os.Getenv("SKILL_COMPANY_AUTH_ID"); authID != "" {
		cfg.Skill.CompanyAuthID = authID
	}
	if token := os.Getenv("SKILL_SERVICE_TOKEN"); token != "" {
		cfg.Skill.ServiceToken = token
	}
	if secs := os.Getenv("SKILL_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			cfg.Skill.TimeoutSecs = n
		}
	}

	// Override JWT secret from environment if not set
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not found in environment or config file")
		}
	}

	if file := os.Getenv("FIREBASE_CREDENTIALS_FILE"); file != "" {
		cfg.Firebase.CredentialsFile = file
	}

	// Default venue table: the three recintos. Overridable via config file
	// for staging setups that point at a single test database.
	if len(cfg.Venues) == 0 {
		cfg.Venues = []VenueConfig{
			{Code: "CCCR", Name: "Centro de Convenciones de Costa Rica", IDData: os.Getenv("VENUE_CCCR_ID_DATA"), FirebaseURL: os.Getenv("VENUE_CCCR_FIREBASE_URL")},
			{Code: "CCCI", Name: "Centro de Convenciones CI", IDData: os.Getenv("VENUE_CCCI_ID_DATA"), FirebaseURL: os.Getenv("VENUE_CCCI_FIREBASE_URL")},
			{Code: "CEVP", Name: "Centro de Eventos VP", IDData: os.Getenv("VENUE_CEVP_ID_DATA"), FirebaseURL: os.Getenv("VENUE_CEVP_FIREBASE_URL")},
		}
	}

	if cfg.Skill.BaseURL == "" {
		log.Printf("[Config] WARNING: SKILL_BASE_URL not set, upstream calls will fail")
	}

	return &cfg
}

// Venue returns the venue entry matching code (case-insensitive), or nil.
func (c *Config) Venue(code string) *VenueConfig {
	for i := range c.Venues {
		if strings.EqualFold(c.Venues[i].Code, code) {
			return &c.Venues[i]
		}
	}
	return nil
}
