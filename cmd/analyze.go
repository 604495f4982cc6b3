package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/logsift/logsift/internal/classify"
	"github.com/logsift/logsift/internal/collector"
	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/insights"
	"github.com/logsift/logsift/internal/llm"
	"github.com/logsift/logsift/internal/registry"
	"github.com/logsift/logsift/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Collect and classify system logs",
	Long: `Collect system logs for a lookback window, classify each line into
severity tiers with noise suppression and semantic deduplication, and render
a grouped report with derived insights.

Examples:
  logsift analyze --since 2h
  logsift analyze --since 1h --only-errors --full
  logsift analyze --host pve1.lan --user root --key ~/.ssh/id_rsa --docker
  logsift analyze --since 1h --ai anthropic --max-examples 5`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("since", "t", "1h", "lookback window (e.g. 30m, 2h, 1d)")

	analyzeCmd.Flags().String("host", "", "remote host to analyze logs from")
	analyzeCmd.Flags().String("user", "", "SSH username for remote host")
	analyzeCmd.Flags().Int("port", 22, "SSH port")
	analyzeCmd.Flags().String("key", "", "path to SSH private key file")

	analyzeCmd.Flags().Bool("docker", false, "include Docker container logs (requires --host)")
	analyzeCmd.Flags().String("container", "", "specific container to analyze (default: all)")
	analyzeCmd.Flags().Bool("no-container-stats", false, "skip container stats collection")
	analyzeCmd.Flags().String("docker-socket", "", "path to Docker socket on the remote host")

	analyzeCmd.Flags().Bool("only-errors", false, "show only error messages")
	analyzeCmd.Flags().Bool("only-warnings", false, "show only warning messages")
	analyzeCmd.Flags().Bool("only-info", false, "show only info messages")
	analyzeCmd.Flags().StringSlice("ignore", nil, "tiers to ignore (error, warning, info)")

	analyzeCmd.Flags().Bool("full", false, "show full messages without truncation")
	analyzeCmd.Flags().Bool("no-color", false, "disable colored output")
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to a file")
	analyzeCmd.Flags().Bool("insights", true, "derive backup/service/error insights")

	analyzeCmd.Flags().String("ai", "", "summarize with an AI provider (ollama, openai, anthropic, googleai)")
	analyzeCmd.Flags().String("api-key", "", "API key override for the --ai provider")
	analyzeCmd.Flags().Bool("compare", false, "summarize with every provider that has credentials and compare")
	analyzeCmd.Flags().Int("max-examples", 3, "examples per group sent to the AI provider")
	analyzeCmd.Flags().String("system-info", "", "path to a JSON file with extra system information for the AI")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	sinceStr, _ := cmd.Flags().GetString("since")
	lookback, err := config.ParseLookback(sinceStr)
	if err != nil {
		return fmt.Errorf("invalid --since value: %w", err)
	}

	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	logger := newLogger(cfg.Verbose)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	enabled, err := enabledTiers(cmd)
	if err != nil {
		return err
	}

	// Pick the line source. The remote connection, when used, is shared with
	// the Docker collector below.
	var (
		source collector.Collector
		remote *collector.Remote
	)
	host, _ := cmd.Flags().GetString("host")
	if host != "" {
		user, _ := cmd.Flags().GetString("user")
		port, _ := cmd.Flags().GetInt("port")
		keyFile, _ := cmd.Flags().GetString("key")
		remote = collector.NewRemote(host, user, port, keyFile, logger)
		remote.PassphrasePrompt = promptPassphrase
		defer remote.Close()
		source = remote
	} else {
		source = collector.NewLocal(logger)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Analyzing logs for the past %s...\n", lookback)

	lines, err := source.Collect(ctx, lookback)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Warning: No logs were collected!")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Processing %d log lines...\n", len(lines))
	}

	reg := registry.Default()
	store := classify.NewStore()
	classifier := classify.New(reg, enabled, store)
	classifier.ProcessLines(lines)

	systemInfo := map[string]any{}

	// Docker container logs run through the same classifier so the report
	// covers host and containers together.
	if useDocker, _ := cmd.Flags().GetBool("docker"); useDocker {
		if remote == nil {
			return fmt.Errorf("docker collection requires a remote host (--host)")
		}
		if err := analyzeDocker(ctx, cmd, cfg, remote, classifier, lookback, systemInfo, logger); err != nil {
			logger.Warn("docker collection failed", "error", err)
		}
	}

	results := store.Results()

	showFull, _ := cmd.Flags().GetBool("full")
	wantInsights, _ := cmd.Flags().GetBool("insights")
	if !cmd.Flags().Changed("insights") {
		wantInsights = cfg.Defaults.Insights
	}
	var derived *insights.Insights
	if wantInsights {
		ins := insights.Correlate(results)
		derived = &ins
	}

	out, closeOut, err := reportWriter(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	colorMode := report.ColorAuto
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor || !cfg.Defaults.Color {
		colorMode = report.ColorNever
	}
	renderer := report.New(out, colorMode)

	format := cfg.Format
	if format == "json" {
		payload := map[string]any{
			"alerts":           results.Alerts,
			"grouped_messages": results.Grouped,
			"stats":            results.Stats,
		}
		if derived != nil {
			payload["insights"] = derived
		}
		if err := renderer.WriteJSON(payload); err != nil {
			return err
		}
	} else {
		opts := report.Options{
			ShowFull:     showFull,
			EnabledTiers: enabled,
			AllTiers:     reg.TierNames(),
		}
		if err := renderer.WriteText(results, opts); err != nil {
			return err
		}
		if derived != nil {
			if err := renderer.WriteInsights(*derived); err != nil {
				return err
			}
		}
	}

	if compare, _ := cmd.Flags().GetBool("compare"); compare {
		return runCompare(ctx, cmd, cfg, results, systemInfo, out, logger)
	}
	if provider, _ := cmd.Flags().GetString("ai"); provider != "" {
		return runSummarize(ctx, cmd, cfg, provider, results, systemInfo, out, logger)
	}

	return nil
}

// analyzeDocker feeds container logs through the classifier and records
// container stats into the system-info blob.
func analyzeDocker(ctx context.Context, cmd *cobra.Command, cfg *config.Config, remote *collector.Remote,
	classifier *classify.Classifier, lookback time.Duration, systemInfo map[string]any, logger *slog.Logger) error {

	dockerCfg := cfg.Docker
	if socket, _ := cmd.Flags().GetString("docker-socket"); socket != "" {
		dockerCfg.Socket = socket
	}

	docker := collector.NewDocker(remote, dockerCfg, logger)
	containerName, _ := cmd.Flags().GetString("container")

	logs, err := docker.Logs(ctx, lookback, containerName)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No Docker logs found")
		return nil
	}

	for _, cl := range logs {
		fmt.Fprintf(cmd.OutOrStdout(), "\nAnalyzing logs for container: %s\n", cl.Name)
		classifier.ProcessLines(cl.Lines)
	}

	noStats, _ := cmd.Flags().GetBool("no-container-stats")
	if dockerCfg.IncludeStats && !noStats {
		stats, err := docker.Stats(ctx, containerName)
		if err != nil {
			logger.Warn("container stats collection failed", "error", err)
		} else if len(stats) > 0 {
			systemInfo["docker"] = stats
		}
	}

	return nil
}

// summarizeRequest builds the request shared by single-provider and compare
// runs; per-provider chat options are filled in by the caller.
func summarizeRequest(cmd *cobra.Command, cfg *config.Config, results *classify.Results,
	systemInfo map[string]any, logger *slog.Logger) llm.SummarizeRequest {

	maxExamples, _ := cmd.Flags().GetInt("max-examples")
	if !cmd.Flags().Changed("max-examples") && cfg.Defaults.MaxExamples > 0 {
		maxExamples = cfg.Defaults.MaxExamples
	}

	infoBlob, err := systemInfoBlob(cmd, systemInfo)
	if err != nil {
		logger.Warn("error loading system info", "error", err)
	}

	return llm.SummarizeRequest{
		SystemPrompt: buildSummarySystemPrompt(),
		Payload:      buildSummaryUserPrompt(report.BuildSummaryPayload(results, maxExamples)),
		SystemInfo:   infoBlob,
	}
}

// runSummarize hands the reduced payload to the configured AI provider and
// renders the structured summary. Provider failures surface as a structured
// error-severity summary, never as a raised error.
func runSummarize(ctx context.Context, cmd *cobra.Command, cfg *config.Config, providerName string,
	results *classify.Results, systemInfo map[string]any, out io.Writer, logger *slog.Logger) error {

	key, _ := cmd.Flags().GetString("api-key")
	applyAPIKey(cfg, providerName, key)

	cfg.LLM.Provider = providerName
	provider, err := llm.NewProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	if err := provider.Heartbeat(ctx); err != nil {
		logger.Warn("provider heartbeat failed", "provider", providerName, "error", err)
	}

	req := summarizeRequest(cmd, cfg, results, systemInfo, logger)
	req.Options = &llm.ChatOptions{
		Model:       llm.DefaultModel(cfg),
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nRunning AI analysis using %s...\n", providerName)

	summary := llm.Summarize(ctx, provider, req)

	if cfg.Format == "json" {
		renderer := report.New(out, report.ColorNever)
		return renderer.WriteJSON(summary)
	}

	fmt.Fprintf(out, "\n=== AI Analysis (%s) ===\n", summary.Severity)
	fmt.Fprintln(out, summary.Text)
	return nil
}

// compareEntry is one provider's contribution to a comparison run.
type compareEntry struct {
	Provider string
	Summary  llm.Summary
}

// runCompare runs the same summarization through every provider that has
// credentials and renders the results side by side. Keyless providers are
// skipped with a notice; the per-invocation --api-key override applies only
// to single-provider runs.
func runCompare(ctx context.Context, cmd *cobra.Command, cfg *config.Config,
	results *classify.Results, systemInfo map[string]any, out io.Writer, logger *slog.Logger) error {

	req := summarizeRequest(cmd, cfg, results, systemInfo, logger)

	var entries []compareEntry
	for _, name := range llm.ProviderNames {
		if !llm.HasCredentials(cfg, name) {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipping %s: no API key configured\n", name)
			continue
		}

		cfg.LLM.Provider = name
		provider, err := llm.NewProvider(ctx, cfg, logger)
		if err != nil {
			logger.Warn("skipping provider", "provider", name, "error", err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nRunning analysis with %s...\n", name)

		preq := req
		preq.Options = &llm.ChatOptions{
			Model:       llm.DefaultModel(cfg),
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}
		entries = append(entries, compareEntry{Provider: name, Summary: llm.Summarize(ctx, provider, preq)})
	}

	if cfg.Format == "json" {
		byProvider := make(map[string]llm.Summary, len(entries))
		for _, e := range entries {
			byProvider[e.Provider] = e.Summary
		}
		return report.New(out, report.ColorNever).WriteJSON(byProvider)
	}

	writeComparison(out, entries)
	return nil
}

// writeComparison renders the comparison block, one section per provider.
func writeComparison(w io.Writer, entries []compareEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "\nNo AI analysis results available")
		return
	}
	fmt.Fprintln(w, "\n=== AI Analysis Comparison ===")
	for _, e := range entries {
		fmt.Fprintf(w, "\n%s Analysis (%s):\n", titleWord(e.Provider), e.Summary.Severity)
		fmt.Fprintln(w, e.Summary.Text)
	}
}

// applyAPIKey installs a per-invocation key override for the named provider.
func applyAPIKey(cfg *config.Config, provider, key string) {
	if key == "" {
		return
	}
	switch strings.ToLower(provider) {
	case "openai", "chatgpt":
		cfg.LLM.OpenAI.APIKey = key
	case "anthropic", "claude":
		cfg.LLM.Anthropic.APIKey = key
	case "googleai", "gemini":
		cfg.LLM.GoogleAI.APIKey = key
	}
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// systemInfoBlob merges the optional --system-info file into the collected
// info map and serializes the result.
func systemInfoBlob(cmd *cobra.Command, systemInfo map[string]any) (string, error) {
	path, _ := cmd.Flags().GetString("system-info")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return marshalInfo(systemInfo), err
		}
		var extra map[string]any
		if err := json.Unmarshal(data, &extra); err != nil {
			return marshalInfo(systemInfo), err
		}
		for k, v := range extra {
			systemInfo[k] = v
		}
	}
	return marshalInfo(systemInfo), nil
}

func marshalInfo(info map[string]any) string {
	if len(info) == 0 {
		return ""
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// enabledTiers resolves the severity filter flags into the tier set for this
// run. The --only-* flags are exclusive shortcuts; --ignore removes tiers.
func enabledTiers(cmd *cobra.Command) (map[string]bool, error) {
	enabled := map[string]bool{"error": true, "warning": true, "info": true}

	onlyErrors, _ := cmd.Flags().GetBool("only-errors")
	onlyWarnings, _ := cmd.Flags().GetBool("only-warnings")
	onlyInfo, _ := cmd.Flags().GetBool("only-info")

	exclusive := 0
	for _, set := range []bool{onlyErrors, onlyWarnings, onlyInfo} {
		if set {
			exclusive++
		}
	}
	if exclusive > 1 {
		return nil, fmt.Errorf("--only-errors, --only-warnings, and --only-info are mutually exclusive")
	}

	switch {
	case onlyErrors:
		enabled = map[string]bool{"error": true}
	case onlyWarnings:
		enabled = map[string]bool{"warning": true}
	case onlyInfo:
		enabled = map[string]bool{"info": true}
	}

	ignore, _ := cmd.Flags().GetStringSlice("ignore")
	for _, tier := range ignore {
		// Accept plural forms like "errors".
		tier = singular(tier)
		if !validTier(tier) {
			return nil, fmt.Errorf("unknown tier in --ignore: %s", tier)
		}
		delete(enabled, tier)
	}

	return enabled, nil
}

func singular(tier string) string {
	if len(tier) > 1 && tier[len(tier)-1] == 's' {
		return tier[:len(tier)-1]
	}
	return tier
}

func validTier(tier string) bool {
	return tier == "error" || tier == "warning" || tier == "info"
}

// reportWriter resolves the report destination: stdout, or the --output file.
func reportWriter(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// promptPassphrase asks for an SSH key passphrase on the terminal.
func promptPassphrase(keyPath string) (string, error) {
	fmt.Fprintf(os.Stderr, "Enter passphrase for key %s: ", keyPath)
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(pass), nil
}
