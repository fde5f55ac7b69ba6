package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port: got %s", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("default environment: got %s", cfg.Server.Environment)
	}
	if cfg.Database.Enabled {
		t.Error("database should default to disabled")
	}
	if cfg.Storage.Enabled {
		t.Error("storage should default to disabled")
	}
	if !cfg.LiveKit.Mock {
		t.Error("livekit should default to mock mode")
	}
	if cfg.Pipeline.Recognizer != "static" || cfg.Pipeline.Extractor != "rules" {
		t.Errorf("pipeline should default to offline implementations: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.ChunkQueueSize != 64 || cfg.Pipeline.MaxRetries != 3 {
		t.Errorf("unexpected pipeline sizing: %+v", cfg.Pipeline)
	}
	if cfg.Groq.BaseURL == "" || cfg.Groq.Model == "" {
		t.Errorf("groq defaults missing: %+v", cfg.Groq)
	}
}

func TestValidate_CrossFieldRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"assemblyai without key", func(c *Config) {
			c.Pipeline.Recognizer = "assemblyai"
		}, true},
		{"assemblyai with key", func(c *Config) {
			c.Pipeline.Recognizer = "assemblyai"
			c.Assembly.APIKey = "key"
		}, false},
		{"groq without key", func(c *Config) {
			c.Pipeline.Extractor = "groq"
		}, true},
		{"real livekit without credentials", func(c *Config) {
			c.LiveKit.Mock = false
		}, true},
		{"real livekit with credentials", func(c *Config) {
			c.LiveKit.Mock = false
			c.LiveKit.APIKey = "key"
			c.LiveKit.APISecret = "secret"
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{}
			cfg.LiveKit.Mock = true
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConnectionStrings(t *testing.T) {
	cfg := Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5433"
	cfg.Database.User = "svc"
	cfg.Database.Password = "pw"
	cfg.Database.Name = "meetings"
	cfg.Database.SSLMode = "require"
	cfg.Redis.Host = "cache.internal"
	cfg.Redis.Port = "6380"

	wantDSN := "host=db.internal port=5433 user=svc password=pw dbname=meetings sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != wantDSN {
		t.Errorf("dsn: got %q want %q", got, wantDSN)
	}
	if got := cfg.GetRedisAddr(); got != "cache.internal:6380" {
		t.Errorf("redis addr: got %q", got)
	}
}
