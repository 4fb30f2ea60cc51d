package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	_responseMargin    = 2 * time.Second
	_responseMarginDiv = 4
)

type (
	Config struct {
		App          App          `env-prefix:"APP_"`
		Logger       Logger       `env-prefix:"LOGGER_"`
		HTTP         HTTP         `env-prefix:"HTTP_"`
		Metrics      Metrics      `env-prefix:"METRICS_"`
		Webhook      Webhook      `env-prefix:"WEBHOOK_"`
		Fulfillment  Fulfillment  `env-prefix:"FULFILLMENT_"`
		Reassignment Reassignment `env-prefix:"REASSIGN_"`
		Classifier   Classifier   `env-prefix:"CLASSIFIER_"`
		Admin        Admin        `env-prefix:"ADMIN_"`
		Kafka        Kafka        `env-prefix:"KAFKA_"`
		Env          string       `                              env:"ENV" env-default:"local" validate:"oneof=local dev staging prod"`
	}

	App struct {
		Name    string `env:"NAME"    validate:"required" env-default:"pickup-reassign"`
		Version string `env:"VERSION" validate:"required" env-default:"dev"`
	}

	HTTP struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"8080"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=5m"          env-default:"90s"`
		IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"        validate:"gte=10ms,lte=5m"          env-default:"60s"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    validate:"gte=10ms,lte=5m"          env-default:"30s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Metrics struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"9090"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Webhook struct {
		Topic        string `env:"TOPIC"          validate:"required"                env-default:"orders/create"`
		Secret       string `env:"SECRET"`
		MaxBodyBytes int64  `env:"MAX_BODY_BYTES" validate:"min=1024,max=10485760" env-default:"1048576"`
	}

	Fulfillment struct {
		URL               string        `env:"URL"                 validate:"required,url"`
		Token             string        `env:"TOKEN"               validate:"required"`
		PickupWarehouseID string        `env:"PICKUP_WAREHOUSE_ID" validate:"required"`
		SourceWarehouseID string        `env:"SOURCE_WAREHOUSE_ID"`
		CallTimeout       time.Duration `env:"CALL_TIMEOUT"        validate:"gte=100ms,lte=2m" env-default:"15s"`
	}

	Reassignment struct {
		GracePeriod      time.Duration `env:"GRACE_PERIOD"       validate:"gte=0s,lte=2m"                     env-default:"10s"`
		LookupPrefix     string        `env:"LOOKUP_PREFIX"                                                   env-default:"#"`
		StripPrefix      bool          `env:"STRIP_PREFIX"                                                    env-default:"true"`
		Concurrency      int           `env:"CONCURRENCY"        validate:"min=1,max=16"                      env-default:"1"`
		RetryAttempts    int           `env:"RETRY_ATTEMPTS"     validate:"min=1,max=5"                       env-default:"2"`
		RetryBaseDelay   time.Duration `env:"RETRY_BASE_DELAY"   validate:"gte=10ms,lte=10s"                  env-default:"200ms"`
		RetryMaxDelay    time.Duration `env:"RETRY_MAX_DELAY"    validate:"gte=10ms,lte=30s,gtefield=RetryBaseDelay" env-default:"2s"`
	}

	Classifier struct {
		TagKeywords        []string `env:"TAG_KEYWORDS"         validate:"min=1,dive,required" env-separator:"," env-default:"pickup"`
		ShippingKeywords   []string `env:"SHIPPING_KEYWORDS"    validate:"min=1,dive,required" env-separator:"," env-default:"pickup,pick up,local"`
		PickupLocationName string   `env:"PICKUP_LOCATION_NAME"`
	}

	Admin struct {
		Token string `env:"TOKEN"`
	}

	Kafka struct {
		Enabled      bool          `env:"ENABLED"       env-default:"false"`
		Brokers      []string      `env:"BROKERS"       validate:"required_if=Enabled true,dive,hostname_port" env-separator:","`
		Topic        string        `env:"TOPIC"         validate:"required_if=Enabled true"`
		BatchTimeout time.Duration `env:"BATCH_TIMEOUT" validate:"gte=1ms,lte=30s"                             env-default:"100ms"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" validate:"gte=1ms,lte=30s"                             env-default:"5s"`
	}

	Logger struct {
		Level      string `env:"LEVEL"       env-default:"info"                       validate:"oneof=debug info warn error"`
		Filename   string `env:"FILENAME"    env-default:"./logs/pickup-reassign.log"`
		MaxSize    int    `env:"MAX_SIZE"    env-default:"100"                        validate:"min=1,max=1000"`
		MaxBackups int    `env:"MAX_BACKUPS" env-default:"3"                          validate:"min=1,max=20"`
		MaxAge     int    `env:"MAX_AGE"     env-default:"28"                         validate:"min=1,max=365"`
	}
)

// Load reads the file given by -config or CONFIG_PATH. Without a path the
// configuration comes from the environment, optionally seeded by a .env file.
func Load() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return LoadEnv()
	}
	return LoadPath(path)
}

func LoadEnv() (*Config, error) {
	const op = "config.LoadEnv"

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: load .env: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: read env: %w", op, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func LoadPath(configPath string) (*Config, error) {
	const op = "config.LoadPath"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	} else if err != nil {
		return nil, fmt.Errorf("%s: checking config file: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: read config: %w", op, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New()

	var validationErrors []string
	if err := v.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, ve := range validationErrs {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s=%v must satisfy '%s'", ve.Namespace(), ve.Value(), ve.Tag()))
			}
			return fmt.Errorf("config validation: %v", strings.Join(validationErrors, "; "))
		}
		return fmt.Errorf("config validation: %w", err)
	}

	// The webhook response is written only after the grace period has elapsed.
	if budget := cfg.HTTP.ProcessingBudget(); budget <= cfg.Reassignment.GracePeriod {
		return fmt.Errorf(
			"config validation: HTTP.WriteTimeout=%s leaves %s for processing, must exceed Reassignment.GracePeriod=%s",
			cfg.HTTP.WriteTimeout, budget, cfg.Reassignment.GracePeriod,
		)
	}
	return nil
}

// ProcessingBudget is how long a request may spend before its response has
// to be written so that it still goes out within WriteTimeout. Zero means no
// limit.
func (h HTTP) ProcessingBudget() time.Duration {
	if h.WriteTimeout <= 0 {
		return 0
	}
	return h.WriteTimeout - min(_responseMargin, h.WriteTimeout/_responseMarginDiv)
}

func fetchConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "Path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}
