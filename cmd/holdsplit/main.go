// Package main provides the CLI entrypoint for holdsplit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/holdsplit/internal/catalog"
	"github.com/verte-zerg/holdsplit/internal/config"
	"github.com/verte-zerg/holdsplit/internal/model"
	"github.com/verte-zerg/holdsplit/internal/report"
	"github.com/verte-zerg/holdsplit/internal/reviewui"
	"github.com/verte-zerg/holdsplit/internal/sheet"
	"github.com/verte-zerg/holdsplit/internal/store"
	"github.com/verte-zerg/holdsplit/internal/workflow"
)

const (
	defaultLogLevel       = "warn"
	defaultMaterialType   = "Bound Issue"
	defaultItemPolicy     = "non-circulating"
	defaultTimeoutSeconds = 60
	defaultHistoryWindow  = 5
)

const confirmUpdatePrompt = "Are you sure you want to update without reviewing the data? (Y/N)\n"

var (
	verbose  bool
	logLevel string

	materialType string
	itemPolicy   string

	baseURL        string
	timeoutSeconds int

	runFormat bool
	runSplit  bool
	runUpdate bool
	runYes    bool

	historyKind   string
	historySince  string
	historyLast   int
	historyWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "holdsplit",
		Short:         "Split serial holdings descriptions into enumeration and chronology",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newSplitCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addColumnFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&materialType, "material-type", defaultMaterialType, "Material Type for every row")
	cmd.Flags().StringVar(&itemPolicy, "item-policy", defaultItemPolicy, "Item Policy for every row")
}

func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&baseURL, "base-url", "", "items API base url")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", defaultTimeoutSeconds, "request timeout in seconds")
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format FILE",
		Short: "Keep the workflow columns and protect numeric identifiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				return s.format(ctx, args[0])
			})
		},
	}
}

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Parse item descriptions and write enumeration and chronology columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				_, err := s.split(ctx, args[0])
				return err
			})
		},
	}
	addColumnFlags(cmd)
	return cmd
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update FILE",
		Short: "Write split columns back to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				return s.update(ctx, args[0])
			})
		},
	}
	addCatalogFlags(cmd)
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Chain the format, split and update steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunCmd,
	}
	cmd.Flags().BoolVar(&runFormat, "format", false, "run the format step")
	cmd.Flags().BoolVar(&runSplit, "split", false, "run the split step")
	cmd.Flags().BoolVar(&runUpdate, "update", false, "run the update step")
	cmd.Flags().BoolVar(&runYes, "yes", false, "update without asking for confirmation")
	addColumnFlags(cmd)
	addCatalogFlags(cmd)
	return cmd
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	if !runFormat && !runSplit && !runUpdate {
		return fmt.Errorf("select at least one of --format, --split, --update")
	}
	return withSession(cmd, func(ctx context.Context, s *session) error {
		path := args[0]
		if runFormat {
			if err := s.format(ctx, path); err != nil {
				return err
			}
			path = sheet.OutputPath(path, sheet.PrefixFormat)
		}
		if runSplit {
			out, err := s.split(ctx, path)
			if err != nil {
				return err
			}
			path = out
		}
		if !runUpdate {
			return nil
		}
		if runSplit && !runYes {
			ok, err := confirm(s.prompter)
			if err != nil {
				return err
			}
			if !ok {
				logErrln("Update skipped. Review the split output and run: holdsplit update " + path)
				return nil
			}
		}
		return s.update(ctx, path)
	})
}

func confirm(p sheet.Prompter) (bool, error) {
	for {
		answer, err := p.Prompt(confirmUpdatePrompt)
		if err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		switch strings.ToUpper(strings.TrimSpace(answer)) {
		case "Y":
			return true, nil
		case "N":
			return false, nil
		}
	}
}

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review FILE",
		Short: "Browse a split output file",
		Args:  cobra.ExactArgs(1),
		RunE:  runReviewCmd,
	}
}

func runReviewCmd(_ *cobra.Command, args []string) error {
	t, err := sheet.ReadFile(args[0])
	if err != nil {
		return err
	}
	m := reviewui.NewModel(args[0], reviewui.RowsFromTable(t))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run review TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyKind, "kind", "", "run kind filter (format, split, update)")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&historyWindow, "window", defaultHistoryWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter(historyKind, historySince, historyLast)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	rep, err := report.BuildReport(cmd.Context(), st, filter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return report.RenderHistory(out, rep, historyWindow, report.ShouldUseColor(out))
}

func historyFilter(kind, since string, last int) (model.HistoryFilter, error) {
	filter := model.HistoryFilter{Last: last}
	switch model.RunKind(kind) {
	case "":
	case model.RunFormat, model.RunSplit, model.RunUpdate:
		filter.Kind = model.RunKind(kind)
	default:
		return filter, fmt.Errorf("invalid --kind %q (expected format, split or update)", kind)
	}
	if last < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	return filter, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// session holds what the workflow commands share for one invocation.
type session struct {
	cmd      *cobra.Command
	cfg      config.FileConfig
	log      *zap.Logger
	store    *store.Store
	prompter sheet.Prompter
}

func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	if verbose {
		logLevel = "debug"
	}
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer func() {
		// Best-effort flush; stderr sync fails on some terminals.
		_ = logger.Sync()
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return fn(ctx, &session{
		cmd:      cmd,
		cfg:      fileCfg,
		log:      logger,
		store:    st,
		prompter: sheet.NewLinePrompter(os.Stdin, os.Stderr),
	})
}

func (s *session) options() workflow.Options {
	schema := sheet.DefaultSchema()
	if s.cmd.Flags().Lookup("material-type") != nil {
		applyStringConfig(s.cmd, "material-type", &materialType, s.cfg.Columns.MaterialType)
		applyStringConfig(s.cmd, "item-policy", &itemPolicy, s.cfg.Columns.ItemPolicy)
		schema = schema.
			WithDefault(sheet.ColMaterialType, materialType).
			WithDefault(sheet.ColItemPolicy, itemPolicy)
	}
	return workflow.Options{
		Schema:   &schema,
		Prompter: s.prompter,
		Recorder: s.store,
		Logger:   s.log,
	}
}

func (s *session) format(ctx context.Context, path string) error {
	res, err := workflow.Format(ctx, path, s.options())
	if err != nil {
		return err
	}
	logErrf("Formatted %d rows: %s\n", res.Rows, res.Out)
	return nil
}

func (s *session) split(ctx context.Context, path string) (string, error) {
	res, err := workflow.Split(ctx, path, s.options())
	if err != nil {
		return "", err
	}
	out := s.cmd.OutOrStdout()
	if err := report.RenderSplitSummary(out, res.Result, report.ShouldUseColor(out)); err != nil {
		return "", err
	}
	logErrf("Split data written: %s\n", res.Out)
	return res.Out, nil
}

func (s *session) update(ctx context.Context, path string) error {
	applyStringConfig(s.cmd, "base-url", &baseURL, s.cfg.Catalog.BaseURL)
	applyIntConfig(s.cmd, "timeout", &timeoutSeconds, s.cfg.Catalog.TimeoutSeconds)
	if timeoutSeconds <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	client, err := catalog.New(catalog.Config{
		BaseURL: baseURL,
		APIKey:  s.cfg.Catalog.ResolveAPIKey(os.Getenv),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, s.log)
	if err != nil {
		return fmt.Errorf("%w (set [catalog] in %s or %s)", err, config.DefaultConfigPath(), config.DefaultAPIKeyEnv)
	}
	res, err := workflow.Update(ctx, path, client, s.options())
	if err != nil {
		return err
	}
	logErrf("Updated %d items (%s), %d failed (%s)\n", res.Updated, res.SuccessOut, res.Failed, res.ErrorOut)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core), nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# holdsplit configuration
# Uncomment a value to enable it. CLI flags override config values.

[columns]
# material-type = %q     # Material Type written by split
# item-policy = %q   # Item Policy written by split

[catalog]
# base-url = "https://api-eu.hosted.exlibrisgroup.com/almaws/v1"
# api-key = ""                        # Prefer api-key-env
# api-key-env = %q     # Environment variable holding the API key
# timeout-seconds = %d

[log]
# level = %q
`,
		defaultMaterialType,
		defaultItemPolicy,
		config.DefaultAPIKeyEnv,
		defaultTimeoutSeconds,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
