package config

import (
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "DebugMaster"

	// KeyringGitHubTokenItem is the key for the GitHub token
	KeyringGitHubTokenItem = "github-token"

	// KeyringAPIKeyItem is the key for the OpenAI API key
	KeyringAPIKeyItem = "openai-api-key"
)

// ResolveGitHubToken returns the GitHub token from the environment, falling
// back to the OS keychain. Empty string means no token is configured.
func ResolveGitHubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	token, err := keyring.Get(KeyringService, KeyringGitHubTokenItem)
	if err != nil {
		return ""
	}
	return token
}

// ResolveOpenAIKey returns the OpenAI API key from the environment, falling
// back to the OS keychain
func ResolveOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	key, err := keyring.Get(KeyringService, KeyringAPIKeyItem)
	if err != nil {
		return ""
	}
	return key
}

// SaveGitHubToken stores the GitHub token in the OS keychain
// - macOS: Keychain Access.app -> "DebugMaster" -> "github-token"
// - Windows: Credential Manager -> "DebugMaster"
// - Linux: Secret Service (requires libsecret)
func SaveGitHubToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if err := keyring.Set(KeyringService, KeyringGitHubTokenItem, token); err != nil {
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}
	return nil
}

// SaveOpenAIKey stores the OpenAI API key in the OS keychain
func SaveOpenAIKey(key string) error {
	if key == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if err := keyring.Set(KeyringService, KeyringAPIKeyItem, key); err != nil {
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}
	return nil
}

// DeleteCredentials removes stored credentials from the OS keychain
func DeleteCredentials() error {
	for _, item := range []string{KeyringGitHubTokenItem, KeyringAPIKeyItem} {
		if err := keyring.Delete(KeyringService, item); err != nil && err != keyring.ErrNotFound {
			return fmt.Errorf("failed to delete %s from OS keychain: %w", item, err)
		}
	}
	return nil
}
