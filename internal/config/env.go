package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names read by ApplyEnv.
const (
	EnvProvider     = "EMBEDDING_PROVIDER"
	EnvModel        = "EMBEDDING_MODEL"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set.
// Missing files are ignored. With no arguments it loads ".env".
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv copies provider settings and API keys from the environment onto cfg.
func (c *Config) ApplyEnv() {
	c.applyEnv(os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.ToLower(strings.TrimSpace(getenv(EnvProvider))); v != "" {
		c.Provider = v
	}
	if v := strings.TrimSpace(getenv(EnvModel)); v != "" {
		c.Model = v
	}
	if v := strings.TrimSpace(getenv(EnvOpenAIAPIKey)); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := strings.TrimSpace(getenv(EnvGeminiAPIKey)); v != "" {
		c.GeminiAPIKey = v
	}
}
