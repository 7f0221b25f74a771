package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ghulammurtaza27/debugmaster/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage DebugMaster configuration",
	Long:  `View configuration and manage credentials stored in the OS keychain.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE:  runConfigShow,
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store the GitHub token in the OS keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveGitHubToken(args[0]); err != nil {
			return err
		}
		fmt.Println("✅ GitHub token stored in OS keychain")
		return nil
	},
}

var configSetOpenAIKeyCmd = &cobra.Command{
	Use:   "set-openai-key <key>",
	Short: "Store the OpenAI API key in the OS keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveOpenAIKey(args[0]); err != nil {
			return err
		}
		fmt.Println("✅ OpenAI API key stored in OS keychain")
		return nil
	},
}

var configClearCredentialsCmd = &cobra.Command{
	Use:   "clear-credentials",
	Short: "Remove stored credentials from the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DeleteCredentials(); err != nil {
			return err
		}
		fmt.Println("✅ Credentials removed from OS keychain")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configSetOpenAIKeyCmd)
	configCmd.AddCommand(configClearCredentialsCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	rendered, err := renderConfigYAML(cfg)
	if err != nil {
		return err
	}
	fmt.Println("📋 Effective configuration")
	fmt.Print(rendered)
	return nil
}

// renderConfigYAML marshals the effective configuration with credentials
// masked, so `config show` output is safe to paste into bug reports
func renderConfigYAML(c *config.Config) (string, error) {
	redacted := *c
	redacted.GitHub.Token = maskSecret(c.GitHub.Token)
	redacted.OpenAI.APIKey = maskSecret(c.OpenAI.APIKey)
	redacted.Neo4j.Password = maskSecret(c.Neo4j.Password)
	redacted.Redis.Password = maskSecret(c.Redis.Password)

	out, err := yaml.Marshal(&redacted)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
