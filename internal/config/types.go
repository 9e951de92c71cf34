package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// StorageBackend selects where registries persist their data.
type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageFile   StorageBackend = "file"
)

// Config is the top-level stockseo configuration, corresponding to .stockseo.yml.
type Config struct {
	Provider     ProviderType   `yaml:"provider" koanf:"provider"`
	Model        string         `yaml:"model" koanf:"model"`
	MaxTokens    int            `yaml:"max_tokens" koanf:"max_tokens"`
	DataDir      string         `yaml:"data_dir" koanf:"data_dir"`
	Storage      StorageBackend `yaml:"storage" koanf:"storage"`
	Language     string         `yaml:"language" koanf:"language"`
	DefaultCount int            `yaml:"default_count" koanf:"default_count"`
	Server       ServerConfig   `yaml:"server" koanf:"server"`
	Log          LogConfig      `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"` // console or json
}
