package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/api/comments" {
		t.Errorf("Expected base path /api/comments, got %s", cfg.Server.BasePath)
	}
	if cfg.Store.Backend != BackendPostgres {
		t.Errorf("Expected postgres backend, got %s", cfg.Store.Backend)
	}
	if cfg.Store.Timeout != 10*time.Second {
		t.Errorf("Expected 10s store timeout, got %s", cfg.Store.Timeout)
	}
	if !cfg.Store.MigrateOnStart {
		t.Error("Expected migrations on start by default")
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("Expected wildcard origin, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_PATH", "/v1/comments")
	t.Setenv("STORE_BACKEND", "Mongo")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/v1/comments" {
		t.Errorf("Unexpected base path %s", cfg.Server.BasePath)
	}
	if cfg.Store.Backend != BackendMongo {
		t.Errorf("Expected mongo backend, got %s", cfg.Store.Backend)
	}
	if cfg.Store.Timeout != 250*time.Millisecond {
		t.Errorf("Expected 250ms timeout, got %s", cfg.Store.Timeout)
	}
	if cfg.Store.MigrateOnStart {
		t.Error("Expected MIGRATE_ON_START=false to be honoured")
	}
	if cfg.Mongo.URI != "mongodb://mongo:27017" {
		t.Errorf("Unexpected mongo uri %s", cfg.Mongo.URI)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if strings.Join(cfg.Server.AllowedOrigins, "|") != strings.Join(want, "|") {
		t.Errorf("Expected origins %v, got %v", want, cfg.Server.AllowedOrigins)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_TIMEOUT", "soon")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Timeout != 10*time.Second {
		t.Errorf("Expected default timeout, got %s", cfg.Store.Timeout)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected default max open conns, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{BasePath: "/api/comments"},
			Store:    StoreConfig{Backend: BackendPostgres},
			Database: DatabaseConfig{Host: "localhost", Name: "comments"},
			Mongo:    MongoConfig{URI: "mongodb://localhost", Database: "blog", Collection: "comments"},
			SQLite:   SQLiteConfig{Path: "comments.db"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid postgres", func(c *Config) {}, ""},
		{"valid mongo", func(c *Config) { c.Store.Backend = BackendMongo }, ""},
		{"valid sqlite", func(c *Config) { c.Store.Backend = BackendSQLite }, ""},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "unsupported STORE_BACKEND"},
		{"relative base path", func(c *Config) { c.Server.BasePath = "api" }, "API_BASE_PATH"},
		{"postgres without host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"postgres without name", func(c *Config) { c.Database.Name = "" }, "DB_NAME"},
		{"mongo without uri", func(c *Config) {
			c.Store.Backend = BackendMongo
			c.Mongo.URI = ""
		}, "MONGO_URI"},
		{"sqlite without path", func(c *Config) {
			c.Store.Backend = BackendSQLite
			c.SQLite.Path = ""
		}, "SQLITE_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "require"}
	want := "host=db port=5433 user=u password=p dbname=n sslmode=require"
	if got := db.GetDSN(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
