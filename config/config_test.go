package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fullYAML = `
server:
  port: "9090"
model:
  api_key: ${BEALIVE_TEST_API_KEY}
  base_url: https://llm.internal/v1
  chat_model: qwen-plus
  timeout: 30s
mysql:
  dsn: bealive:secret@tcp(127.0.0.1:3306)/bealive?parseTime=true
vector:
  provider: milvus
  dim: 1024
  top_k: 5
  score_threshold: 0.6
milvus:
  endpoint: http://127.0.0.1:19530
redis:
  addr: 127.0.0.1:6379
  ttl: 1h
session:
  window_size: 6
  store: redis
mq:
  name_server: ["127.0.0.1:9876"]
jwt:
  secret_key: s3cret
sentiment:
  provider: http
  endpoint: http://127.0.0.1:8000/classify
sweep:
  cron: "@every 5m"
`

const minimalYAML = `
model:
  api_key: k
mysql:
  dsn: dsn
jwt:
  secret_key: s
`

func TestParse_FullConfig(t *testing.T) {
	t.Setenv("BEALIVE_TEST_API_KEY", "from-env")

	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Model.APIKey != "from-env" {
		t.Errorf("Model.APIKey = %q, want %q", cfg.Model.APIKey, "from-env")
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "9090")
	}
	if cfg.Model.Timeout != 30*time.Second {
		t.Errorf("Model.Timeout = %v, want 30s", cfg.Model.Timeout)
	}
	if cfg.Vector.Provider != VectorProviderMilvus {
		t.Errorf("Vector.Provider = %q, want %q", cfg.Vector.Provider, VectorProviderMilvus)
	}
	if cfg.Vector.TopK != 5 {
		t.Errorf("Vector.TopK = %d, want 5", cfg.Vector.TopK)
	}
	if cfg.Session.WindowSize != 6 {
		t.Errorf("Session.WindowSize = %d, want 6", cfg.Session.WindowSize)
	}
	if cfg.Redis.TTL != time.Hour {
		t.Errorf("Redis.TTL = %v, want 1h", cfg.Redis.TTL)
	}
	if !cfg.MQ.Enabled() {
		t.Error("MQ.Enabled() = false, want true")
	}
	if cfg.Sweep.Cron != "@every 5m" {
		t.Errorf("Sweep.Cron = %q, want %q", cfg.Sweep.Cron, "@every 5m")
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Server.Port", cfg.Server.Port, "8080"},
		{"Vector.Provider", cfg.Vector.Provider, VectorProviderChromem},
		{"Vector.TopK", cfg.Vector.TopK, 3},
		{"Vector.ScoreThreshold", cfg.Vector.ScoreThreshold, float32(0.5)},
		{"Vector.ActivityCollection", cfg.Vector.ActivityCollection, "activities"},
		{"Vector.CompanyCollection", cfg.Vector.CompanyCollection, "company_info"},
		{"Session.WindowSize", cfg.Session.WindowSize, 4},
		{"Session.Store", cfg.Session.Store, SessionStoreMemory},
		{"Sentiment.Provider", cfg.Sentiment.Provider, SentimentProviderLLM},
		{"Sweep.Cron", cfg.Sweep.Cron, "*/10 * * * *"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
	if cfg.MQ.Enabled() {
		t.Error("MQ.Enabled() = true, want false")
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing api key", "mysql: {dsn: d}\njwt: {secret_key: s}\n", "model.api_key is required"},
		{"missing dsn", "model: {api_key: k}\njwt: {secret_key: s}\n", "mysql.dsn is required"},
		{"milvus without endpoint", minimalYAML + "vector: {provider: milvus}\n", "milvus.endpoint is required"},
		{"unknown vector provider", minimalYAML + "vector: {provider: faiss}\n", `unknown vector.provider "faiss"`},
		{"redis without addr", minimalYAML + "session: {store: redis}\n", "redis.addr is required"},
		{"http sentiment without endpoint", minimalYAML + "sentiment: {provider: http}\n", "sentiment.endpoint is required"},
		{"threshold out of range", minimalYAML + "vector: {score_threshold: 1.5}\n", "vector.score_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Cfg == nil || Cfg.Model.APIKey != "k" {
		t.Errorf("Cfg not populated: %+v", Cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
