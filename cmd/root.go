package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "logsift",
	Short: "System log classifier and summarizer",
	Long: `Logsift collects operating-system logs, classifies each line into
severity tiers, collapses duplicate messages into named groups, and derives
operational insights such as backup-job health and service status. Results
can be rendered as a text report, JSON, or handed to an AI provider for a
natural-language summary.

Examples:
  logsift analyze --since 2h
  logsift analyze --since 1h --only-errors
  logsift analyze --host server1.example.com --user admin --key ~/.ssh/id_rsa
  logsift analyze --since 1h --ai anthropic
  logsift config set-key anthropic sk-ant-...`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.logsift.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logsift")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGSIFT")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.temperature", 0)
	viper.SetDefault("llm.ollama.host", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", "llama3.2")
	viper.SetDefault("docker.socket", "/var/run/docker.sock")
	viper.SetDefault("docker.max_log_lines", 1000)
	viper.SetDefault("docker.include_stats", true)
	viper.SetDefault("defaults.color", true)
	viper.SetDefault("defaults.insights", true)
	viper.SetDefault("defaults.max_examples", 3)

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
