package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	VectorProviderMilvus  = "milvus"
	VectorProviderChromem = "chromem"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	SentimentProviderHTTP = "http"
	SentimentProviderLLM  = "llm"
)

// Cfg is the process-wide configuration, populated by Init.
var Cfg *Config

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Model     ModelConfig     `yaml:"model"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Vector    VectorConfig    `yaml:"vector"`
	Milvus    MilvusConfig    `yaml:"milvus"`
	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	MQ        MQConfig        `yaml:"mq"`
	OSS       OSSConfig       `yaml:"oss"`
	JWT       JWTConfig       `yaml:"jwt"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Sweep     SweepConfig     `yaml:"sweep"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"`
}

type ModelConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	ChatModel      string        `yaml:"chat_model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	Timeout        time.Duration `yaml:"timeout"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// VectorConfig selects the similarity index backing activity search and company information.
type VectorConfig struct {
	Provider           string  `yaml:"provider"`
	Path               string  `yaml:"path"`
	Dim                int     `yaml:"dim"`
	ActivityCollection string  `yaml:"activity_collection"`
	CompanyCollection  string  `yaml:"company_collection"`
	TopK               int     `yaml:"top_k"`
	ScoreThreshold     float32 `yaml:"score_threshold"`
}

type MilvusConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type SessionConfig struct {
	// number of exchanges kept verbatim in the rolling window
	WindowSize int    `yaml:"window_size"`
	Store      string `yaml:"store"`
}

type MQConfig struct {
	NameServer []string `yaml:"name_server"`
}

// Enabled reports whether asynchronous indexing through RocketMQ is configured.
func (c MQConfig) Enabled() bool {
	return len(c.NameServer) > 0
}

type OSSConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
	BucketName      string `yaml:"bucket_name"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type SentimentConfig struct {
	Provider string `yaml:"provider"`
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

type SweepConfig struct {
	Cron string `yaml:"cron"`
}

// Init loads path into Cfg.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references and unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Model.ChatModel == "" {
		c.Model.ChatModel = "gpt-4o-mini"
	}
	if c.Model.EmbeddingModel == "" {
		c.Model.EmbeddingModel = "text-embedding-3-small"
	}
	if c.Model.Timeout == 0 {
		c.Model.Timeout = 120 * time.Second
	}
	if c.Vector.Provider == "" {
		c.Vector.Provider = VectorProviderChromem
	}
	if c.Vector.Dim == 0 {
		c.Vector.Dim = 1536
	}
	if c.Vector.ActivityCollection == "" {
		c.Vector.ActivityCollection = "activities"
	}
	if c.Vector.CompanyCollection == "" {
		c.Vector.CompanyCollection = "company_info"
	}
	if c.Vector.TopK == 0 {
		c.Vector.TopK = 3
	}
	if c.Vector.ScoreThreshold == 0 {
		c.Vector.ScoreThreshold = 0.5
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 24 * time.Hour
	}
	if c.Session.WindowSize == 0 {
		c.Session.WindowSize = 4
	}
	if c.Session.Store == "" {
		c.Session.Store = SessionStoreMemory
	}
	if c.Sentiment.Provider == "" {
		c.Sentiment.Provider = SentimentProviderLLM
	}
	if c.Sweep.Cron == "" {
		c.Sweep.Cron = "*/10 * * * *"
	}
}

func (c *Config) validate() error {
	var errs []string
	if c.Model.APIKey == "" {
		errs = append(errs, "model.api_key is required")
	}
	if c.MySQL.DSN == "" {
		errs = append(errs, "mysql.dsn is required")
	}
	if c.JWT.SecretKey == "" {
		errs = append(errs, "jwt.secret_key is required")
	}
	switch c.Vector.Provider {
	case VectorProviderChromem:
	case VectorProviderMilvus:
		if c.Milvus.Endpoint == "" {
			errs = append(errs, "milvus.endpoint is required when vector.provider is milvus")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown vector.provider %q", c.Vector.Provider))
	}
	if c.Vector.ScoreThreshold < 0 || c.Vector.ScoreThreshold > 1 {
		errs = append(errs, "vector.score_threshold must be within [0, 1]")
	}
	if c.Session.WindowSize < 0 {
		errs = append(errs, "session.window_size must not be negative")
	}
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, "redis.addr is required when session.store is redis")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown session.store %q", c.Session.Store))
	}
	switch c.Sentiment.Provider {
	case SentimentProviderLLM:
	case SentimentProviderHTTP:
		if c.Sentiment.Endpoint == "" {
			errs = append(errs, "sentiment.endpoint is required when sentiment.provider is http")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown sentiment.provider %q", c.Sentiment.Provider))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
