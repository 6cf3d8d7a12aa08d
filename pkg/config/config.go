package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		HTTP      HTTP      `envPrefix:"HTTP_"`
		Logger    Logger    `envPrefix:"LOGGER_"`
		Cache     Cache     `envPrefix:"CACHE_"`
		Upstream  Upstream  `envPrefix:"UPSTREAM_"`
		Prefetch  Prefetch  `envPrefix:"PREFETCH_"`
		Resources Resources `envPrefix:"RESOURCES_"`
		Telemetry Telemetry `envPrefix:"TELEMETRY_"`
	}

	HTTP struct {
		Server Server `envPrefix:"SERVER_"`
	}

	Server struct {
		Host string `env:"HOST" envDefault:"localhost"`
		// Port is the first candidate; the server scans upward from here
		// until it finds a free port or exhausts PortAttempts.
		Port         int           `env:"PORT" envDefault:"8080"`
		PortAttempts int           `env:"PORT_ATTEMPTS" envDefault:"20"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
		IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	}

	Logger struct {
		Level string `env:"LEVEL" envDefault:"info"`
	}

	Cache struct {
		Dir string `env:"DIR" envDefault:"cache"`
		// HotMaxTiles bounds the in-memory cache of recently served tiles.
		HotMaxTiles     int64         `env:"HOT_MAX_TILES" envDefault:"512"`
		HotItemsToPrune uint32        `env:"HOT_ITEMS_TO_PRUNE" envDefault:"64"`
		HotTTL          time.Duration `env:"HOT_TTL" envDefault:"10m"`
	}

	Upstream struct {
		UserAgent string        `env:"USER_AGENT" envDefault:"MissionMap/1.0"`
		Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
	}

	Prefetch struct {
		Workers int `env:"WORKERS" envDefault:"8"`
		// Optional region warmed at startup, matching the initial map view.
		WarmOnStart bool    `env:"WARM_ON_START" envDefault:"false"`
		CenterLat   float64 `env:"CENTER_LAT" envDefault:"64.185717"`
		CenterLon   float64 `env:"CENTER_LON" envDefault:"27.704128"`
		ZoomMin     int     `env:"ZOOM_MIN" envDefault:"12"`
		ZoomMax     int     `env:"ZOOM_MAX" envDefault:"15"`
		Radius      int     `env:"RADIUS" envDefault:"2"`
	}

	Resources struct {
		Dir string `env:"DIR" envDefault:"resources"`
	}

	Telemetry struct {
		Enabled        bool   `env:"ENABLED" envDefault:"false"`
		ServiceName    string `env:"SERVICE_NAME" envDefault:"missionmap-tileserver"`
		ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
		Environment    string `env:"ENVIRONMENT" envDefault:"production"`
		OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
	}
)

func New() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("NOTICE: .env file not found or cannot be loaded: %v\n", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
