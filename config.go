package decor

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the decor backend. Values are sourced
// once at process start (see Load) and threaded through explicitly; nothing
// re-reads configuration at request time.
type Config struct {
	Name string // Site name, used in the feed and sitemap
	URL  string // Canonical public URL
	Addr string // Listen address

	DatabasePath string // SQLite path
	MediaDir     string // Root directory for normalized uploads

	AdminToken   string // Shared token for the admin write API (required to enable it)
	AllowOrigins []string

	// Bounding box and quality for the image normalization pipeline.
	ImageMaxWidth  int
	ImageMaxHeight int
	ImageQuality   int

	// SlugUnicode preserves unicode letters in derived slugs instead of
	// transliterating to ASCII.
	SlugUnicode bool

	PostCacheTTL time.Duration

	// Google Sheets side channel for contact messages. Leaving either value
	// empty disables the sync; submissions still succeed.
	SheetsCredentialsFile string
	SheetsSpreadsheetID   string
	Timezone              string // IANA name used for sheet timestamps
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Decor"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8000"
	}
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/decor.db"
	}
	if c.MediaDir == "" {
		c.MediaDir = "media"
	}
	if c.ImageMaxWidth <= 0 {
		c.ImageMaxWidth = 1600
	}
	if c.ImageMaxHeight <= 0 {
		c.ImageMaxHeight = 1600
	}
	if c.ImageQuality <= 0 || c.ImageQuality > 100 {
		c.ImageQuality = 80
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Ho_Chi_Minh"
	}
}

// Load reads configuration from the environment with sane defaults for
// everything except credentials.
func Load() Config {
	viper.SetDefault("SITE_NAME", "Decor")
	viper.SetDefault("SITE_URL", "http://localhost:8000")
	viper.SetDefault("ADDR", ":8000")
	viper.SetDefault("DATABASE_PATH", "data/decor.db")
	viper.SetDefault("MEDIA_DIR", "media")
	viper.SetDefault("ALLOW_ORIGINS", []string{"*"})
	viper.SetDefault("IMAGE_MAX_WIDTH", 1600)
	viper.SetDefault("IMAGE_MAX_HEIGHT", 1600)
	viper.SetDefault("IMAGE_QUALITY", 80)
	viper.SetDefault("SLUG_UNICODE", false)
	viper.SetDefault("POST_CACHE_TTL", 5*time.Minute)
	viper.SetDefault("TIMEZONE", "Asia/Ho_Chi_Minh")

	viper.AutomaticEnv()

	cfg := Config{
		Name:                  viper.GetString("SITE_NAME"),
		URL:                   viper.GetString("SITE_URL"),
		Addr:                  viper.GetString("ADDR"),
		DatabasePath:          viper.GetString("DATABASE_PATH"),
		MediaDir:              viper.GetString("MEDIA_DIR"),
		AdminToken:            viper.GetString("ADMIN_TOKEN"),
		AllowOrigins:          viper.GetStringSlice("ALLOW_ORIGINS"),
		ImageMaxWidth:         viper.GetInt("IMAGE_MAX_WIDTH"),
		ImageMaxHeight:        viper.GetInt("IMAGE_MAX_HEIGHT"),
		ImageQuality:          viper.GetInt("IMAGE_QUALITY"),
		SlugUnicode:           viper.GetBool("SLUG_UNICODE"),
		PostCacheTTL:          viper.GetDuration("POST_CACHE_TTL"),
		SheetsCredentialsFile: viper.GetString("SHEETS_CREDENTIALS_FILE"),
		SheetsSpreadsheetID:   viper.GetString("SHEETS_SPREADSHEET_ID"),
		Timezone:              viper.GetString("TIMEZONE"),
	}
	cfg.setDefaults()
	return cfg
}
