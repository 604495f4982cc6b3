package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage logsift configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with API keys masked",
	Run: func(cmd *cobra.Command, args []string) {
		keys := viper.AllKeys()
		sort.Strings(keys)
		for _, key := range keys {
			value := viper.Get(key)
			if strings.Contains(key, "api_key") {
				value = maskSecret(viper.GetString(key))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
		}
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\nConfig file: %s\n", file)
		}
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider> <api-key>",
	Short: "Store an API key for an AI provider",
	Long: `Store an API key for a cloud AI provider in the config file.

Supported providers: openai, anthropic, googleai`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, key := args[0], args[1]
		switch provider {
		case "openai", "anthropic", "googleai":
		default:
			return fmt.Errorf("unknown provider: %s (expected openai, anthropic, or googleai)", provider)
		}
		viper.Set(fmt.Sprintf("llm.%s.api_key", provider), key)
		if err := writeConfig(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key for %s saved to %s\n", provider, viper.ConfigFileUsed())
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the config file and fall back to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		file := viper.ConfigFileUsed()
		if file == "" {
			file = defaultConfigPath()
		}
		if err := os.Remove(file); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No config file to remove")
				return nil
			}
			return fmt.Errorf("failed to remove config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", file)
		return nil
	},
}

func writeConfig() error {
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}
	path := defaultConfigPath()
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	viper.SetConfigFile(path)
	return nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".logsift.yaml"
	}
	return filepath.Join(home, ".logsift.yaml")
}

func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}
