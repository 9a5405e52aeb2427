package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "valid full config",
			yaml: `
server:
  port: 9090
database:
  host: "db.example.com"
  port: 5433
  user: "auction"
  password: "secret"
  dbname: "auction"
  sslmode: "require"
  lock_timeout: 5s
feed:
  driver: "redis"
  redis_addr: "redis.example.com:6379"
  channel_prefix: "ipl"
telemetry:
  service_name: "my-auctiond"
  otlp_endpoint: "localhost:4318"
`,
			wantErr: false,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Server.Port != 9090 {
					t.Errorf("got server port %d, want %d", cfg.Server.Port, 9090)
				}
				if cfg.Database.Port != 5433 {
					t.Errorf("got db port %d, want %d", cfg.Database.Port, 5433)
				}
				if cfg.Database.LockTimeout != 5*time.Second {
					t.Errorf("got lock timeout %s, want %s", cfg.Database.LockTimeout, 5*time.Second)
				}
				if cfg.Feed.Driver != "redis" {
					t.Errorf("got feed driver %q, want %q", cfg.Feed.Driver, "redis")
				}
				if cfg.Feed.RedisAddr != "redis.example.com:6379" {
					t.Errorf("got redis addr %q, want %q", cfg.Feed.RedisAddr, "redis.example.com:6379")
				}
				if cfg.Telemetry.ServiceName != "my-auctiond" {
					t.Errorf("got service name %q, want %q", cfg.Telemetry.ServiceName, "my-auctiond")
				}
			},
		},
		{
			name: "defaults applied",
			yaml: `
database:
  user: "auction"
`,
			wantErr: false,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Database.Host != "localhost" {
					t.Errorf("got db host %q, want %q", cfg.Database.Host, "localhost")
				}
				if cfg.Database.Port != 5432 {
					t.Errorf("got db port %d, want %d", cfg.Database.Port, 5432)
				}
				if cfg.Database.LockTimeout != 3*time.Second {
					t.Errorf("got lock timeout %s, want %s", cfg.Database.LockTimeout, 3*time.Second)
				}
				if cfg.Server.Port != 8080 {
					t.Errorf("got server port %d, want %d", cfg.Server.Port, 8080)
				}
				if cfg.Feed.Driver != "log" {
					t.Errorf("got feed driver %q, want %q", cfg.Feed.Driver, "log")
				}
				if cfg.Feed.PollInterval != 250*time.Millisecond {
					t.Errorf("got poll interval %s, want %s", cfg.Feed.PollInterval, 250*time.Millisecond)
				}
				if cfg.Feed.BatchSize != 100 {
					t.Errorf("got batch size %d, want %d", cfg.Feed.BatchSize, 100)
				}
				if cfg.Telemetry.ServiceName != "auctiond" {
					t.Errorf("got service name %q, want %q", cfg.Telemetry.ServiceName, "auctiond")
				}
			},
		},
		{
			name:    "invalid yaml",
			yaml:    `{{{invalid`,
			wantErr: true,
		},
		{
			name: "invalid feed driver rejected",
			yaml: `
feed:
  driver: "kafka"
`,
			wantErr: true,
		},
		{
			name: "zero lock timeout rejected",
			yaml: `
database:
  lock_timeout: 0s
`,
			wantErr: true,
		},
		{
			name: "negative poll interval rejected",
			yaml: `
feed:
  poll_interval: -1s
`,
			wantErr: true,
		},
		{
			name: "zero batch size rejected",
			yaml: `
feed:
  batch_size: 0
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := config.Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && cfg != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := config.Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass",
		DBName:   "auction",
		SSLMode:  "disable",
	}
	want := "host=localhost port=5432 user=user password=pass dbname=auction sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
