package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// WizardResult is what the init wizard collected.
type WizardResult struct {
	Config *Config
	// APIKey is the key to make active; empty if the user skipped it.
	APIKey string
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*WizardResult, error) {
	fmt.Println("Welcome to stockseo! Let's set up keyword generation.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"google", "openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModels[cfg.Provider],
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Storage backend.
	storagePrompt := promptui.Select{
		Label: "Where should history be stored",
		Items: []string{
			"sqlite - local database (recommended)",
			"file   - single JSON file, shareable between processes",
		},
	}
	storageIdx, _, err := storagePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}
	cfg.Storage = []StorageBackend{StorageSQLite, StorageFile}[storageIdx]

	// 4. Language.
	langPrompt := promptui.Select{
		Label: "Interface language",
		Items: []string{"en", "id"},
	}
	if _, cfg.Language, err = langPrompt.Run(); err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}

	// 5. API key.
	result := &WizardResult{Config: cfg}
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		keyPrompt := promptui.Prompt{
			Label:   "API key (leave blank to set later with `stockseo keys set`)",
			Mask:    '*',
			Default: os.Getenv(envVar),
		}
		key, err := keyPrompt.Run()
		if err != nil && !errors.Is(err, promptui.ErrAbort) {
			return nil, fmt.Errorf("api key: %w", err)
		}
		result.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return result, nil
}
