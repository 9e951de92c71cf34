package config

// DefaultModels maps each provider to the model used when none is set.
var DefaultModels = map[ProviderType]string{
	ProviderGoogle:    "gemini-2.5-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-haiku-4-5-20251001",
	ProviderOllama:    "llama3.2",
}

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".stockseo.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderGoogle,
		Model:        DefaultModels[ProviderGoogle],
		DataDir:      "~/.stockseo",
		Storage:      StorageSQLite,
		Language:     "en",
		DefaultCount: 45,
		Server: ServerConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
