package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the application.
type Config struct {
	Server    Server    `mapstructure:"server"`
	Storage   Storage   `mapstructure:"storage"`
	Upload    Upload    `mapstructure:"upload"`
	Sweeper   Sweeper   `mapstructure:"sweeper"`
	Detectors Detectors `mapstructure:"detectors"`
	Kafka     Kafka     `mapstructure:"kafka"`
	Retry     Retry     `mapstructure:"retry"`
}

// Server holds HTTP server-related configuration.
type Server struct {
	HTTPPort        string        `mapstructure:"http_port"` // HTTP port to listen on
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"` // must cover the slowest filter
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Storage holds configuration for the task image store.
type Storage struct {
	Driver      string `mapstructure:"driver"`       // "local" or "minio"
	BaseDir     string `mapstructure:"base_dir"`     // root directory for the local driver
	JPEGQuality int    `mapstructure:"jpeg_quality"` // quality used when encoding stored images

	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// Upload limits incoming files.
type Upload struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Sweeper configures the task garbage collector.
type Sweeper struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`  // how often a sweep runs
	Retention time.Duration `mapstructure:"retention"` // tasks idle for longer are removed
}

// Detectors configures the region detectors used by face and text operations.
type Detectors struct {
	FaceCascadePath  string `mapstructure:"face_cascade_path"`
	TesseractLang    string `mapstructure:"tesseract_lang"`
	TesseractMinConf int    `mapstructure:"tesseract_min_confidence"`
}

// Kafka holds configuration for the sweep request queue.
type Kafka struct {
	Enabled bool     `mapstructure:"enabled"`
	GroupID string   `mapstructure:"group_id"` // Consumer group ID
	Topic   string   `mapstructure:"topic"`    // Kafka topic name
	Brokers []string `mapstructure:"brokers"`  // List of Kafka broker addresses
}

// Retry defines retry policy configuration.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", ":5000")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.base_dir", "./static/task")
	v.SetDefault("storage.jpeg_quality", 95)
	v.SetDefault("upload.max_bytes", 1<<20)
	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.interval", 10*time.Minute)
	v.SetDefault("sweeper.retention", time.Hour)
	v.SetDefault("detectors.face_cascade_path", "./data/haarcascade_frontalface_default.xml")
	v.SetDefault("detectors.tesseract_lang", "eng")
	v.SetDefault("detectors.tesseract_min_confidence", 50)
	v.SetDefault("kafka.topic", "sweep-requests")
	v.SetDefault("kafka.group_id", "image-filter")
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", 100*time.Millisecond)
	v.SetDefault("retry.backoff", 2.0)
}

// bindEnv binds deployment-specific environment variables to config keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.http_port":   "HTTP_PORT",
		"storage.driver":     "STORAGE_DRIVER",
		"storage.base_dir":   "STORAGE_BASE_DIR",
		"storage.endpoint":   "MINIO_ENDPOINT",
		"storage.access_key": "MINIO_ACCESS_KEY",
		"storage.secret_key": "MINIO_SECRET_KEY",
		"kafka.brokers":      "KAFKA_BROKERS",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}

	return nil
}

// Load reads the configuration file at path, applies defaults and
// environment overrides. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad loads the configuration from the specified file path.
// It panics if the configuration file cannot be loaded or unmarshaled.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to load config")
	}

	return cfg
}
