package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type TLSListener struct {
	Port      string `mapstructure:"port"`
	CertFile  string `mapstructure:"certFile"`
	KeyFile   string `mapstructure:"keyFile"`
	EnableTLS bool   `mapstructure:"enableTLS"`
}

type ImageProvider struct {
	Enabled     bool          `mapstructure:"enabled"`
	Priority    int           `mapstructure:"priority"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"minInterval"`
	BaseURL     string        `mapstructure:"baseURL"`
	MaxResults  int           `mapstructure:"maxResults"`
}

type OrchestrationStage struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		ExternalAPI TLSListener `mapstructure:"externalAPI"`
		Prometheus  TLSListener `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
			MaxConns          int32  `mapstructure:"maxConns"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Cache struct {
		// Backend is memory or redis.
		Backend         string        `mapstructure:"backend"`
		DefaultTTL      time.Duration `mapstructure:"defaultTTL"`
		CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
		Redis           struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Auth struct {
		Enabled   bool   `mapstructure:"enabled"`
		JWTSecret string `mapstructure:"jwtSecret"`
		Audience  string `mapstructure:"audience"`
	} `mapstructure:"auth"`
	AI struct {
		APIKey      string        `mapstructure:"apiKey"`
		Model       string        `mapstructure:"model"`
		Temperature float32       `mapstructure:"temperature"`
		Timeout     time.Duration `mapstructure:"timeout"`
	} `mapstructure:"ai"`
	Routing struct {
		BaseURL    string        `mapstructure:"baseURL"`
		APIKey     string        `mapstructure:"apiKey"`
		Timeout    time.Duration `mapstructure:"timeout"`
		MaxRetries int           `mapstructure:"maxRetries"`
	} `mapstructure:"routing"`
	Images struct {
		PlaceholderURL string        `mapstructure:"placeholderURL"`
		Reddit         ImageProvider `mapstructure:"reddit"`
		Pinterest      ImageProvider `mapstructure:"pinterest"`
		Flickr         ImageProvider `mapstructure:"flickr"`
		RejectWords    []string      `mapstructure:"rejectWords"`
	} `mapstructure:"images"`
	Itinerary struct {
		KmPerTravelDay     float64 `mapstructure:"kmPerTravelDay"`
		StartDayShare      float64 `mapstructure:"startDayShare"`
		MaxDetourKm        float64 `mapstructure:"maxDetourKm"`
		BBoxPaddingDeg     float64 `mapstructure:"bboxPaddingDeg"`
		ReservedAnchorDays int     `mapstructure:"reservedAnchorDays"`
		ActivityPoolSize   int     `mapstructure:"activityPoolSize"`
		Concurrency        int     `mapstructure:"concurrency"`
		MaxTripDays        int     `mapstructure:"maxTripDays"`
	} `mapstructure:"itinerary"`
	Orchestration struct {
		Enabled      bool               `mapstructure:"enabled"`
		MinRelevance float64            `mapstructure:"minRelevance"`
		Strategy     OrchestrationStage `mapstructure:"strategy"`
		Validation   OrchestrationStage `mapstructure:"validation"`
		GapDetection OrchestrationStage `mapstructure:"gapDetection"`
		GapFill      OrchestrationStage `mapstructure:"gapFill"`
	} `mapstructure:"orchestration"`
	Observability struct {
		ServiceName string `mapstructure:"serviceName"`
	} `mapstructure:"observability"`
}

// InitConfig loads .env, then config.yml from the usual locations or the
// embedded copy. Environment variables override file values, with dots in
// keys replaced by underscores (AI_APIKEY, ROUTING_APIKEY, ...).
func InitConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		log.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}
