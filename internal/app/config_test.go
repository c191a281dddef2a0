package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DRUGSGRAPH_LOG_MODE", "LOG_MODE", "DRUGSGRAPH_METRICS_FILE", "DRUGSGRAPH_DRUGBANK",
		"DRUGSGRAPH_DISEASES", "DRUGSGRAPH_ASSOCIATIONS", "DRUGSGRAPH_GRAPHML_OUTPUT",
		"DRUGSGRAPH_GRAPHML_INPUT", "DRUGSGRAPH_STORE_DRIVER", "DRUGSGRAPH_STORE_DSN",
		"DRUGSGRAPH_BATCH_SIZE", "NEO4J_URI", "URI_DRUGS", "NEO4J_USER", "USER_DRUGS",
		"NEO4J_PASSWORD", "PASSWORD_DRUGS", "NEO4J_DATABASE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigLayers(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "drugsgraph.yaml")
	yml := "batch_size: 50\ninputs:\n  drugbank: /data/full database.xml\nneo4j:\n  uri: bolt://file:7687\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("URI_DRUGS", "bolt://legacy:7687")
	t.Setenv("PASSWORD_DRUGS", "secret")
	t.Setenv("DRUGSGRAPH_BATCH_SIZE", "25")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BatchSize != 25 {
		t.Fatalf("BatchSize: want=%d got=%d", 25, cfg.BatchSize)
	}
	if cfg.Inputs.DrugBank != "/data/full database.xml" {
		t.Fatalf("DrugBank: want=%q got=%q", "/data/full database.xml", cfg.Inputs.DrugBank)
	}
	if cfg.Neo4j.URI != "bolt://legacy:7687" {
		t.Fatalf("Neo4j.URI: want=%q got=%q", "bolt://legacy:7687", cfg.Neo4j.URI)
	}
	if cfg.Neo4j.User != "neo4j" {
		t.Fatalf("Neo4j.User: want=%q got=%q", "neo4j", cfg.Neo4j.User)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := cfg.ValidateInputs(); err != nil {
		t.Fatalf("ValidateInputs: %v", err)
	}
	if err := cfg.ValidateNeo4j(); err != nil {
		t.Fatalf("ValidateNeo4j: %v", err)
	}
}

func TestLoadConfigInvalidBatchSizeEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRUGSGRAPH_BATCH_SIZE", "many")
	_, err := LoadConfig("")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got=%T (%v)", err, err)
	}
	if cfgErr.Code != ConfigErrorInvalidBatchSize {
		t.Fatalf("code: want=%q got=%q", ConfigErrorInvalidBatchSize, cfgErr.Code)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != ConfigErrorUnreadableFile {
		t.Fatalf("expected unreadable_file, got=%v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("cause must be kept, got=%v", err)
	}
}

func TestValidateCodes(t *testing.T) {
	base := DefaultConfig()
	base.Inputs.DrugBank = "drugbank.xml"

	cases := []struct {
		name   string
		mutate func(*Config)
		check  func(Config) error
		want   ConfigErrorCode
	}{
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, Config.Validate, ConfigErrorInvalidBatchSize},
		{"log mode", func(c *Config) { c.LogMode = "verbose" }, Config.Validate, ConfigErrorInvalidLogMode},
		{"no drugbank", func(c *Config) { c.Inputs.DrugBank = "" }, Config.ValidateInputs, ConfigErrorMissingDrugBank},
		{"half diseases", func(c *Config) { c.Inputs.Diseases = "d.tsv" }, Config.ValidateInputs, ConfigErrorPartialDiseases},
		{"neo4j uri", func(c *Config) {}, Config.ValidateNeo4j, ConfigErrorMissingNeo4jURI},
		{"neo4j password", func(c *Config) { c.Neo4j.URI = "bolt://x:7687" }, Config.ValidateNeo4j, ConfigErrorMissingNeo4jPass},
		{"graphml output", func(c *Config) {}, Config.ValidateGraphML, ConfigErrorMissingOutput},
		{"store driver", func(c *Config) { c.Store.Driver = "mysql" }, Config.ValidateStore, ConfigErrorInvalidStoreDriver},
		{"store dsn", func(c *Config) {}, Config.ValidateStore, ConfigErrorMissingStoreDSN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := tc.check(cfg)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got=%v", err)
			}
			if cfgErr.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, cfgErr.Code)
			}
			if cfgErr.Error() == "" {
				t.Fatalf("empty message")
			}
		})
	}
}
