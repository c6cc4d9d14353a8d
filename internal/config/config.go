package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AppName    = "apod"
	AppVersion = "1.0.0"
	EnvPrefix  = "APOD"
)

// UserAgent is sent with every outbound request.
var UserAgent = "Mozilla/5.0 (compatible; " + AppName + "/" + AppVersion + ")"

var ErrMissingAPIKey = errors.New("api_key is required (set APOD_API_KEY or api_key in config.yaml)")

type Config struct {
	APIKey         string
	Addr           string
	DataDir        string
	DBPath         string
	WallpaperDir   string
	PaintWallpaper bool
	ProviderURL    string
	ProviderQPS    int
	ProxyURL       string
	PollInterval   time.Duration
	Location       *time.Location
	LogLevel       string
	LogFormat      string
	NodeID         int64
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("paint_wallpaper", false)
	v.SetDefault("provider_url", "https://api.nasa.gov")
	v.SetDefault("provider_qps", 2)
	v.SetDefault("poll_interval", 24*time.Hour)
	v.SetDefault("timezone", "Local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("node_id", 1)
}

// NewViper returns a viper instance reading APOD_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads and validates configuration from v.
func Load(v *viper.Viper) (Config, error) {
	dataDir := v.GetString("data_dir")
	if dataDir == "" {
		dataDir = "./data"
	}
	dbPath := v.GetString("db_path")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "apod.db")
	}
	wallpaperDir := v.GetString("wallpaper_dir")
	if wallpaperDir == "" {
		wallpaperDir = filepath.Join(dataDir, "wallpapers")
	}

	loc, err := loadLocation(v.GetString("timezone"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIKey:         strings.TrimSpace(v.GetString("api_key")),
		Addr:           v.GetString("addr"),
		DataDir:        filepath.Clean(dataDir),
		DBPath:         filepath.Clean(dbPath),
		WallpaperDir:   filepath.Clean(wallpaperDir),
		PaintWallpaper: v.GetBool("paint_wallpaper"),
		ProviderURL:    strings.TrimRight(v.GetString("provider_url"), "/"),
		ProviderQPS:    v.GetInt("provider_qps"),
		ProxyURL:       strings.TrimSpace(v.GetString("proxy_url")),
		PollInterval:   v.GetDuration("poll_interval"),
		Location:       loc,
		LogLevel:       v.GetString("log_level"),
		LogFormat:      strings.ToLower(v.GetString("log_format")),
		NodeID:         v.GetInt64("node_id"),
	}

	if cfg.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("poll_interval must be positive, got %s", cfg.PollInterval)
	}
	if cfg.NodeID < 0 || cfg.NodeID > 1023 {
		return Config{}, fmt.Errorf("node_id must be within 0-1023, got %d", cfg.NodeID)
	}

	return cfg, nil
}

func loadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
