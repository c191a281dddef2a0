package neo4jdb

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/drugsgraph/internal/platform/logger"
)

func TestConfigFromEnvLegacyFallbacks(t *testing.T) {
	t.Setenv("NEO4J_URI", "")
	t.Setenv("NEO4J_USER", "")
	t.Setenv("NEO4J_PASSWORD", "")
	t.Setenv("URI_DRUGS", "neo4j://graph:7687")
	t.Setenv("USER_DRUGS", "drugs")
	t.Setenv("PASSWORD_DRUGS", "pw")
	t.Setenv("NEO4J_TIMEOUT_SECONDS", "3")

	cfg := ConfigFromEnv()
	if cfg.URI != "neo4j://graph:7687" {
		t.Fatalf("URI: want=%q got=%q", "neo4j://graph:7687", cfg.URI)
	}
	if cfg.User != "drugs" {
		t.Fatalf("User: want=%q got=%q", "drugs", cfg.User)
	}
	if cfg.Password != "pw" {
		t.Fatalf("Password: want=%q got=%q", "pw", cfg.Password)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("Timeout: want=%v got=%v", 3*time.Second, cfg.Timeout)
	}
}

func TestConfigFromEnvPrefersNeo4jNames(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://primary:7687")
	t.Setenv("URI_DRUGS", "neo4j://legacy:7687")
	t.Setenv("NEO4J_USER", "")
	t.Setenv("USER_DRUGS", "")

	cfg := ConfigFromEnv()
	if cfg.URI != "bolt://primary:7687" {
		t.Fatalf("URI: want=%q got=%q", "bolt://primary:7687", cfg.URI)
	}
	if cfg.User != "neo4j" {
		t.Fatalf("User: want default %q got=%q", "neo4j", cfg.User)
	}
}

func TestNewRejectsMissingSettings(t *testing.T) {
	if _, err := New(context.Background(), Config{Password: "pw"}, logger.Nop()); err == nil {
		t.Fatalf("New: expected error for missing uri")
	}
	if _, err := New(context.Background(), Config{URI: "bolt://x:7687"}, logger.Nop()); err == nil {
		t.Fatalf("New: expected error for missing password")
	}
	if _, err := New(context.Background(), Config{URI: "bolt://x:7687", Password: "pw"}, nil); err == nil {
		t.Fatalf("New: expected error for nil logger")
	}
}

func TestCloseNilClient(t *testing.T) {
	var c *Client
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
