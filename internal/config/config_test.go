package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// validConfig returns a Config that passes Validate with the googleai
// provider and a key set via t.Setenv.
func validConfig() *Config {
	return &Config{
		Provider:                 ProviderGoogleAI,
		ModelName:                DefaultModelName,
		EmbedderModel:            DefaultEmbedderModel,
		TopK:                     4,
		RetrievalTimeoutSeconds:  10,
		GenerationTimeoutSeconds: 60,
		ArchiveURL:               DefaultArchiveURL,
		HistoryLimit:             DefaultHistoryLimit,
		PostgresHost:             "localhost",
		PostgresPort:             5432,
		PostgresUser:             "dokseo",
		PostgresPassword:         "a_strong_password",
		PostgresDBName:           "dokseo",
		PostgresSSLMode:          "disable",
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "test-key")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"valid openai", func(c *Config) { c.Provider = ProviderOpenAI }, nil},
		{"unknown provider", func(c *Config) { c.Provider = "ollama" }, ErrInvalidProvider},
		{"empty model", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"empty embedder", func(c *Config) { c.EmbedderModel = "" }, ErrInvalidEmbedderModel},
		{"zero top_k", func(c *Config) { c.TopK = 0 }, ErrInvalidTopK},
		{"top_k too large", func(c *Config) { c.TopK = MaxTopK + 1 }, ErrInvalidTopK},
		{"zero retrieval timeout", func(c *Config) { c.RetrievalTimeoutSeconds = 0 }, ErrInvalidTimeout},
		{"zero generation timeout", func(c *Config) { c.GenerationTimeoutSeconds = 0 }, ErrInvalidTimeout},
		{"empty archive url", func(c *Config) { c.ArchiveURL = "" }, ErrInvalidArchiveURL},
		{"archive url bad scheme", func(c *Config) { c.ArchiveURL = "ftp://host/x.zip" }, ErrInvalidArchiveURL},
		{"negative history limit", func(c *Config) { c.HistoryLimit = -1 }, ErrInvalidHistoryLimit},
		{"empty postgres host", func(c *Config) { c.PostgresHost = "" }, ErrInvalidPostgresHost},
		{"postgres port out of range", func(c *Config) { c.PostgresPort = 70000 }, ErrInvalidPostgresPort},
		{"empty db name", func(c *Config) { c.PostgresDBName = "" }, ErrInvalidPostgresDBName},
		{"empty password", func(c *Config) { c.PostgresPassword = "" }, ErrInvalidPostgresPassword},
		{"short password", func(c *Config) { c.PostgresPassword = "short" }, ErrInvalidPostgresPassword},
		{"deprecated ssl mode", func(c *Config) { c.PostgresSSLMode = "prefer" }, ErrInvalidPostgresSSLMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := validConfig()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Validate() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() error = %v, want ErrConfigNil", err)
	}
}

func TestFullModelName(t *testing.T) {
	tests := []struct {
		provider string
		model    string
		want     string
	}{
		{ProviderGoogleAI, "gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{ProviderOpenAI, "gpt-4o", "openai/gpt-4o"},
		{ProviderGoogleAI, "googleai/gemini-2.5-pro", "googleai/gemini-2.5-pro"},
	}
	for _, tt := range tests {
		c := &Config{Provider: tt.provider, ModelName: tt.model}
		if got := c.FullModelName(); got != tt.want {
			t.Errorf("FullModelName(%s, %s) = %q, want %q", tt.provider, tt.model, got, tt.want)
		}
	}
}

func TestFullEmbedderName(t *testing.T) {
	c := &Config{Provider: ProviderGoogleAI, EmbedderModel: "gemini-embedding-001"}
	if got := c.FullEmbedderName(); got != "googleai/gemini-embedding-001" {
		t.Errorf("FullEmbedderName() = %q", got)
	}
}

func TestTimeoutAccessors(t *testing.T) {
	c := &Config{RetrievalTimeoutSeconds: 10, GenerationTimeoutSeconds: 60}
	if c.RetrievalTimeout() != 10*time.Second {
		t.Errorf("RetrievalTimeout() = %v", c.RetrievalTimeout())
	}
	if c.GenerationTimeout() != 60*time.Second {
		t.Errorf("GenerationTimeout() = %v", c.GenerationTimeout())
	}
}

func TestMarshalJSON_MasksPassword(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresPassword = "super_secret_password"

	data, err := cfg.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	if strings.Contains(string(data), "super_secret_password") {
		t.Error("marshaled config leaks the PostgreSQL password")
	}
	if !strings.Contains(string(data), maskedValue) {
		t.Error("marshaled config does not contain the mask placeholder")
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", maskedValue},
		{"12345678", maskedValue},
		{"my_long_secret_key", "my<" + maskedValue + ">ey"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestString_DoesNotLeakPassword(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresPassword = "super_secret_password"
	if strings.Contains(cfg.String(), "super_secret_password") {
		t.Error("String() leaks the PostgreSQL password")
	}
}
