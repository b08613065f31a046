package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/alexanderthegreat96/mongo-cdc-seeder/helpers"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete seeder configuration.
type Config struct {
	Mongo Mongo `yaml:"mongo"`
	Seed  Seed  `yaml:"seed"`
	API   API   `yaml:"api"`
}

// Mongo holds connection parameters. Credentials are optional.
type Mongo struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Database    string `yaml:"database"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	AuthSource  string `yaml:"authSource"`
	UsersTable  string `yaml:"usersTable"`
	OrdersTable string `yaml:"ordersTable"`
	Debug       bool   `yaml:"debug"`
}

// Seed controls how many records each mode writes and the pause between
// single inserts.
type Seed struct {
	Delay        time.Duration `yaml:"delay"`
	SampleUsers  int           `yaml:"sampleUsers"`
	SampleOrders int           `yaml:"sampleOrders"`
	BulkUsers    int           `yaml:"bulkUsers"`
	BulkOrders   int           `yaml:"bulkOrders"`
	Recent       int           `yaml:"recent"`
	// MaxCount bounds every per-request count accepted over HTTP and every
	// configured count above.
	MaxCount int `yaml:"maxCount"`
}

type API struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// URI is the connection string without credentials.
func (m Mongo) URI() string {
	return "mongodb://" + m.Host + ":" + m.Port
}

// Address is the host:port the HTTP surface listens on.
func (a API) Address() string {
	return a.Host + ":" + a.Port
}

// Load reads .env (if present), the environment, and then the optional YAML
// file at path. Values from the file win over the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := FromEnv()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables, using the defaults of
// a local single-node development setup for anything unset.
func FromEnv() *Config {
	return &Config{
		Mongo: Mongo{
			Host:        helpers.GetEnv("MONGO_DB_HOST", "localhost"),
			Port:        helpers.GetEnv("MONGO_DB_PORT", "27017"),
			Database:    helpers.GetEnv("MONGO_DB_NAME", "testdb"),
			Username:    helpers.GetEnv("MONGO_DB_USERNAME", ""),
			Password:    helpers.GetEnv("MONGO_DB_PASSWORD", ""),
			AuthSource:  helpers.GetEnv("MONGO_DB_AUTH_SOURCE", "admin"),
			UsersTable:  helpers.GetEnv("MONGO_DB_USERS_TABLE", "users"),
			OrdersTable: helpers.GetEnv("MONGO_DB_ORDERS_TABLE", "orders"),
			Debug:       helpers.GetEnvBool("HANDLER_DEBUG", false),
		},
		Seed: Seed{
			Delay:        helpers.GetEnvDuration("SEED_DELAY", time.Second),
			SampleUsers:  helpers.GetEnvInt("SEED_SAMPLE_USERS", 3),
			SampleOrders: helpers.GetEnvInt("SEED_SAMPLE_ORDERS", 3),
			BulkUsers:    helpers.GetEnvInt("SEED_BULK_USERS", 10),
			BulkOrders:   helpers.GetEnvInt("SEED_BULK_ORDERS", 15),
			Recent:       helpers.GetEnvInt("SEED_RECENT", 3),
			MaxCount:     helpers.GetEnvInt("SEED_MAX_COUNT", 10000),
		},
		API: API{
			Host: helpers.GetEnv("API_HOST", "localhost"),
			Port: helpers.GetEnv("API_PORT", "9776"),
		},
	}
}

// LoadFile overlays a YAML file onto c. Keys present in the file replace
// the current values, zero values included; absent keys are left alone.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	loaded := *c
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing YAML config: %w", err)
	}

	*c = loaded
	return nil
}

// Validate rejects counts and delays that cannot be used.
func (c *Config) Validate() error {
	counts := map[string]int{
		"sampleUsers":  c.Seed.SampleUsers,
		"sampleOrders": c.Seed.SampleOrders,
		"bulkUsers":    c.Seed.BulkUsers,
		"bulkOrders":   c.Seed.BulkOrders,
		"recent":       c.Seed.Recent,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("seed.%s must not be negative, got %d", name, n)
		}
		if c.Seed.MaxCount > 0 && n > c.Seed.MaxCount {
			return fmt.Errorf("seed.%s must not exceed seed.maxCount (%d), got %d", name, c.Seed.MaxCount, n)
		}
	}
	if c.Seed.MaxCount <= 0 {
		return fmt.Errorf("seed.maxCount must be positive, got %d", c.Seed.MaxCount)
	}
	if c.Seed.Delay < 0 {
		return fmt.Errorf("seed.delay must not be negative, got %s", c.Seed.Delay)
	}
	if c.Mongo.UsersTable == "" || c.Mongo.OrdersTable == "" {
		return errors.New("mongo.usersTable and mongo.ordersTable are required")
	}
	return nil
}
