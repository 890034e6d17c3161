package app

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV, default=dev"`            // Environment (dev, staging, prod)
	LogLevel  string `env:"LOG_LEVEL, default=info"`     // Log level (debug, info, warn, error)
	LogFormat string `env:"LOG_FORMAT, default=json"`    // Log format (json, text)
	Port      int    `env:"PORT, default=8080"`          // HTTP server port

	DatabaseFile string `env:"PRESS_DATABASE_FILE, default=press.db"` // Path to the SQLite database file
	PepperFile   string `env:"PRESS_PEPPER_FILE, default=pepper"`     // Pepper file for password hashing
	UploadDir    string `env:"PRESS_UPLOAD_DIR, default=uploads"`     // Directory for article images

	// AllowedImageExts overrides the stock image allow list. Empty keeps
	// the default (png, jpg, jpeg, gif, webp).
	AllowedImageExts []string `env:"PRESS_ALLOWED_IMAGE_EXTS"`

	MaxUploadBytes  int64         `env:"PRESS_MAX_UPLOAD_BYTES, default=16777216"` // Multipart form cap (16 MiB)
	SessionLifetime time.Duration `env:"PRESS_SESSION_LIFETIME, default=168h"`      // Session validity (7 days)

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD, default=10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL, default=1h"`

	// The admin account seeded into an empty database.
	AdminUsername string `env:"PRESS_ADMIN_USERNAME, default=chief"`
	AdminEmail    string `env:"PRESS_ADMIN_EMAIL, default=chief@localhost"`

	SiteName string `env:"SITE_NAME, default=Pressroom"`
	SiteURL  string `env:"SITE_URL, default=http://localhost:8080"`

	// SMTP settings for credential delivery. Leaving MAIL_HOST unset
	// disables mail; generated passwords are then only returned in the
	// API response.
	MailHost     string `env:"MAIL_HOST"`
	MailPort     int    `env:"MAIL_PORT, default=587"`
	MailUsername string `env:"MAIL_USERNAME"`
	MailPassword string `env:"MAIL_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`
}

func LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
