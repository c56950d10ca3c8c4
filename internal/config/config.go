package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/LJablon/EduRent/internal/mapview"
)

// Config holds everything the service reads at startup.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`

	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"availability_cache_ttl"`

	JWTSecret string `yaml:"jwt_secret"`

	// GoogleMapsKey may be empty; the map endpoints then answer with an error
	// message instead of a map.
	GoogleMapsKey string     `yaml:"google_maps_embed_key"`
	MapCenterLat  float64    `yaml:"map_center_lat"`
	MapCenterLng  float64    `yaml:"map_center_lng"`
	MapZoom       int        `yaml:"map_zoom"`
	Mail          MailConfig `yaml:"mail"`

	LogLevel string `yaml:"log_level"`
}

type MailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	From           string `yaml:"from"`
}

func Default() *Config {
	return &Config{
		Port:         "8083",
		MongoDB:      "edurent",
		CacheTTL:     5 * time.Minute,
		MapCenterLat: mapview.DefaultLat,
		MapCenterLng: mapview.DefaultLng,
		MapZoom:      mapview.DefaultZoom,
		LogLevel:     "INFO",
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then environment variables. Later sources win.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDB = getEnv("MONGO_DB", c.MongoDB)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.CacheTTL = getEnvDuration("AVAILABILITY_CACHE_TTL", c.CacheTTL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.GoogleMapsKey = getEnv("GOOGLE_MAPS_EMBED_KEY", c.GoogleMapsKey)
	c.MapCenterLat = getEnvFloat("MAP_CENTER_LAT", c.MapCenterLat)
	c.MapCenterLng = getEnvFloat("MAP_CENTER_LNG", c.MapCenterLng)
	c.MapZoom = getEnvInt("MAP_ZOOM", c.MapZoom)
	c.Mail.SendGridAPIKey = getEnv("SENDGRID_API_KEY", c.Mail.SendGridAPIKey)
	c.Mail.From = getEnv("SENDGRID_FROM", c.Mail.From)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// MapOptions is the viewport handed to the map view builder.
func (c *Config) MapOptions() mapview.Options {
	return mapview.Options{
		APIKey: c.GoogleMapsKey,
		Zoom:   c.MapZoom,
		Center: mapview.LatLng{Lat: c.MapCenterLat, Lng: c.MapCenterLng},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
