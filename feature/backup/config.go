package backup

// Config holds configuration for the remote snapshot backup system.
type Config struct {
	// Enabled toggles the periodic backup scheduler.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Provider selects the backend implementation: "static" uses the
	// storage access keys as-is, "oauth" exchanges a refresh token for
	// short-lived credentials.
	Provider string `mapstructure:"provider" default:"static"`
	// Bucket is the bucket holding snapshot objects.
	Bucket string `mapstructure:"bucket" default:"backups"`
	// Prefix is the object name prefix for snapshot files.
	Prefix string `mapstructure:"prefix" default:"stock_backup_"`
	// MaxBackups caps retention; the oldest snapshots beyond the cap are
	// deleted after each successful backup.
	MaxBackups int `mapstructure:"max_backups" default:"10"`
	// IntervalMinutes is the periodic backup cadence.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"60"`
	// TokenURL is the OAuth token endpoint (oauth provider only).
	TokenURL string `mapstructure:"token_url" default:""`
	// AppKey is the OAuth client id (oauth provider only).
	AppKey string `mapstructure:"app_key" default:""`
	// AppSecret is the OAuth client secret (oauth provider only).
	AppSecret string `mapstructure:"app_secret" default:""`
	// RefreshToken is the long-lived OAuth refresh token (oauth provider only).
	RefreshToken string `mapstructure:"refresh_token" default:""`
}
