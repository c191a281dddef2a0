package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/drugsgraph/internal/data/db"
	"github.com/yungbote/drugsgraph/internal/ingest"
	"github.com/yungbote/drugsgraph/internal/platform/envutil"
	"github.com/yungbote/drugsgraph/internal/platform/neo4jdb"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

type Config struct {
	LogMode     string        `yaml:"log_mode"`
	BatchSize   int           `yaml:"batch_size"`
	MetricsFile string        `yaml:"metrics_file"`
	Inputs      InputsConfig  `yaml:"inputs"`
	Neo4j       Neo4jConfig   `yaml:"neo4j"`
	GraphML     GraphMLConfig `yaml:"graphml"`
	Store       StoreConfig   `yaml:"store"`
}

type InputsConfig struct {
	DrugBank     string `yaml:"drugbank"`
	Diseases     string `yaml:"diseases"`
	Associations string `yaml:"associations"`
}

func (c InputsConfig) Sources() ingest.Sources {
	return ingest.Sources{DrugBank: c.DrugBank, Diseases: c.Diseases, Associations: c.Associations}
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type GraphMLConfig struct {
	Output string `yaml:"output"`
	// Input is the existing file merged on update; it defaults to Output.
	Input  string `yaml:"input"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ConfigErrorCode string

const (
	ConfigErrorUnreadableFile     ConfigErrorCode = "unreadable_file"
	ConfigErrorInvalidFile        ConfigErrorCode = "invalid_file"
	ConfigErrorInvalidBatchSize   ConfigErrorCode = "invalid_batch_size"
	ConfigErrorInvalidLogMode     ConfigErrorCode = "invalid_log_mode"
	ConfigErrorMissingDrugBank    ConfigErrorCode = "missing_drugbank"
	ConfigErrorPartialDiseases    ConfigErrorCode = "partial_disease_inputs"
	ConfigErrorMissingNeo4jURI    ConfigErrorCode = "missing_neo4j_uri"
	ConfigErrorMissingNeo4jPass   ConfigErrorCode = "missing_neo4j_password"
	ConfigErrorMissingOutput      ConfigErrorCode = "missing_graphml_output"
	ConfigErrorInvalidStoreDriver ConfigErrorCode = "invalid_store_driver"
	ConfigErrorMissingStoreDSN    ConfigErrorCode = "missing_store_dsn"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid drugsgraph config"
	}
	switch e.Code {
	case ConfigErrorUnreadableFile:
		return fmt.Sprintf("cannot read config file %q: %v", e.Value, e.Cause)
	case ConfigErrorInvalidFile:
		return fmt.Sprintf("invalid config file %q: %v", e.Value, e.Cause)
	case ConfigErrorInvalidBatchSize:
		return fmt.Sprintf("invalid batch size %q; expected positive integer", e.Value)
	case ConfigErrorInvalidLogMode:
		return fmt.Sprintf("invalid log mode %q; expected dev or prod", e.Value)
	case ConfigErrorMissingDrugBank:
		return "DrugBank XML path is required (--drugbank or DRUGSGRAPH_DRUGBANK)"
	case ConfigErrorPartialDiseases:
		return "disease inputs need both --diseases and --associations"
	case ConfigErrorMissingNeo4jURI:
		return "NEO4J_URI is required"
	case ConfigErrorMissingNeo4jPass:
		return "NEO4J_PASSWORD is required"
	case ConfigErrorMissingOutput:
		return "GraphML output path is required (--output or DRUGSGRAPH_GRAPHML_OUTPUT)"
	case ConfigErrorInvalidStoreDriver:
		return fmt.Sprintf("invalid store driver %q; expected sqlite or postgres", e.Value)
	case ConfigErrorMissingStoreDSN:
		return "store DSN is required (--dsn or DRUGSGRAPH_STORE_DSN)"
	default:
		return "invalid drugsgraph config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func DefaultConfig() Config {
	return Config{
		LogMode:   "dev",
		BatchSize: upsert.DefaultBatchSize,
		Neo4j:     Neo4jConfig{User: "neo4j"},
		Store:     StoreConfig{Driver: db.DriverSQLite},
	}
}

// LoadConfig layers defaults, the optional YAML file, a .env file and the
// process environment, in that order. Flags are applied by the caller.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &ConfigError{Code: ConfigErrorUnreadableFile, Value: path, Cause: err}
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, &ConfigError{Code: ConfigErrorInvalidFile, Value: path, Cause: err}
		}
	}

	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, &ConfigError{Code: ConfigErrorUnreadableFile, Value: ".env", Cause: err}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.LogMode, "DRUGSGRAPH_LOG_MODE", "LOG_MODE")
	setString(&cfg.MetricsFile, "DRUGSGRAPH_METRICS_FILE")
	setString(&cfg.Inputs.DrugBank, "DRUGSGRAPH_DRUGBANK")
	setString(&cfg.Inputs.Diseases, "DRUGSGRAPH_DISEASES")
	setString(&cfg.Inputs.Associations, "DRUGSGRAPH_ASSOCIATIONS")
	setString(&cfg.GraphML.Output, "DRUGSGRAPH_GRAPHML_OUTPUT")
	setString(&cfg.GraphML.Input, "DRUGSGRAPH_GRAPHML_INPUT")
	setString(&cfg.Store.Driver, "DRUGSGRAPH_STORE_DRIVER")
	setString(&cfg.Store.DSN, "DRUGSGRAPH_STORE_DSN")

	if raw := envutil.String("", "DRUGSGRAPH_BATCH_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return &ConfigError{Code: ConfigErrorInvalidBatchSize, Value: raw, Cause: err}
		}
		cfg.BatchSize = n
	}

	env := neo4jdb.ConfigFromEnv()
	setIf(&cfg.Neo4j.URI, env.URI)
	setIf(&cfg.Neo4j.Password, env.Password)
	setIf(&cfg.Neo4j.Database, env.Database)
	// ConfigFromEnv defaults the user, so only an explicit variable overrides.
	setString(&cfg.Neo4j.User, "NEO4J_USER", "USER_DRUGS")
	return nil
}

func setString(dst *string, names ...string) {
	setIf(dst, envutil.String("", names...))
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks what every command needs.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return &ConfigError{Code: ConfigErrorInvalidBatchSize, Value: strconv.Itoa(c.BatchSize)}
	}
	switch strings.ToLower(strings.TrimSpace(c.LogMode)) {
	case "", "dev", "development", "prod", "production":
	default:
		return &ConfigError{Code: ConfigErrorInvalidLogMode, Value: c.LogMode}
	}
	return nil
}

// ValidateInputs checks the inputs of commands that derive a graph.
func (c Config) ValidateInputs() error {
	if strings.TrimSpace(c.Inputs.DrugBank) == "" {
		return &ConfigError{Code: ConfigErrorMissingDrugBank}
	}
	if (c.Inputs.Diseases == "") != (c.Inputs.Associations == "") {
		return &ConfigError{Code: ConfigErrorPartialDiseases}
	}
	return nil
}

func (c Config) ValidateNeo4j() error {
	if strings.TrimSpace(c.Neo4j.URI) == "" {
		return &ConfigError{Code: ConfigErrorMissingNeo4jURI}
	}
	if strings.TrimSpace(c.Neo4j.Password) == "" {
		return &ConfigError{Code: ConfigErrorMissingNeo4jPass}
	}
	return nil
}

func (c Config) ValidateGraphML() error {
	if strings.TrimSpace(c.GraphML.Output) == "" {
		return &ConfigError{Code: ConfigErrorMissingOutput}
	}
	return nil
}

func (c Config) ValidateStore() error {
	switch c.Store.Driver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return &ConfigError{Code: ConfigErrorInvalidStoreDriver, Value: c.Store.Driver}
	}
	if strings.TrimSpace(c.Store.DSN) == "" {
		return &ConfigError{Code: ConfigErrorMissingStoreDSN}
	}
	return nil
}

func (c Config) Neo4jClientConfig() neo4jdb.Config {
	base := neo4jdb.ConfigFromEnv()
	base.URI = c.Neo4j.URI
	base.User = c.Neo4j.User
	base.Password = c.Neo4j.Password
	base.Database = c.Neo4j.Database
	return base
}
