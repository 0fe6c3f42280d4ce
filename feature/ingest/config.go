package ingest

// Config holds configuration for the bulk ingestion engine.
type Config struct {
	// BatchSize is the number of rows committed per transaction chunk.
	// Chunking bounds memory and transaction size; it does not change
	// ingestion semantics.
	BatchSize int `mapstructure:"batch_size" default:"50"`
	// ImageTimeoutSeconds bounds the image fetch per row. A timed-out
	// fetch skips the attachment, never the row.
	ImageTimeoutSeconds int `mapstructure:"image_timeout_seconds" default:"15"`
}
