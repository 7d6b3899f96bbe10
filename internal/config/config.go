package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"5000"`
	Env      string `envconfig:"APP_ENV" default:"production"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StoreDriver        string `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI           string `envconfig:"MONGO_URI"`
	DBUser             string `envconfig:"DB_USER"`
	DBPass             string `envconfig:"DB_PASS"`
	DBCluster          string `envconfig:"DB_CLUSTER"`
	MongoDatabase      string `envconfig:"MONGO_DATABASE" default:"Doctors-Portal"`
	DatabaseURL        string `envconfig:"DATABASE_URL"`
	BookingUniqueIndex bool   `envconfig:"BOOKING_UNIQUE_INDEX" default:"false"`

	AccessToken string        `envconfig:"ACCESS_TOKEN" required:"true"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"1h"`

	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	PaymentCurrency     string `envconfig:"PAYMENT_CURRENCY" default:"usd"`

	SendGridAPIKey    string `envconfig:"SENDGRID_API_KEY"`
	SendGridFromEmail string `envconfig:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `envconfig:"SENDGRID_FROM_NAME" default:"Doctors Portal"`
	TwilioAccountSID  string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `envconfig:"TWILIO_FROM_NUMBER"`

	ReminderCron string `envconfig:"REMINDER_CRON" default:"0 8 * * *"`
	DateLayout   string `envconfig:"DATE_LAYOUT" default:"Jan 2, 2006"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("ACCESS_TOKEN not set")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "" || c.DBCluster == "") {
			return fmt.Errorf("MONGO_URI or DB_USER, DB_PASS and DB_CLUSTER must be set")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// MongoConnectionURI returns MONGO_URI, or an Atlas SRV URI built from the DB_* credentials.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPass), c.DBCluster)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
