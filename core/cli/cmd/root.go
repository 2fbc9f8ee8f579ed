package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diavgeia-watch/diavgeia/core/config"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
)

// version stores the version string, set via SetVersion()
var version = "dev"

// SetVersion sets the version string (called from main.init())
func SetVersion(v string) {
	version = v
}

// GetVersion returns the current version string
func GetVersion() string {
	return version
}

var (
	configFile  string
	backend     string
	model       string
	apiKey      string
	baseURL     string
	databaseURL string
	logLevel    int
	verbose     bool
	logTags     string
	logFile     bool
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "diavgeia",
	Short:         "Diavgeia\nAsk questions about Greek public spending",
	SilenceUsage:  true,
	SilenceErrors: true, // Errors are already logged, suppress Cobra's error output
}

// completionCmd is hidden from help; packaging scripts use it to install completions
var completionCmd = &cobra.Command{
	Use:          "completion [bash|zsh|fish|powershell]",
	Short:        "Generate shell completion script",
	Hidden:       true,
	ValidArgs:    []string{"bash", "zsh", "fish", "powershell"},
	Args:         cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(os.Stdout)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(completionCmd)
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Print the installed version and exit")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to the configuration file (default: ./"+config.DefaultFile+" when present)")
	flags.StringVar(&backend, "backend", "", "LLM backend: groq, ollama or openai")
	flags.StringVar(&model, "model", "", "Model name (defaults to the backend preset)")
	flags.StringVar(&apiKey, "api-key", "", "API key for the LLM backend")
	flags.StringVar(&baseURL, "base-url", "", "Custom OpenAI-compatible base URL")
	flags.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL")
	flags.IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show reasoning and SQL, and log at DEBUG level")
	flags.StringVar(&logTags, "log-tags", "", "Filter logs by tags (comma-separated, use -tag to exclude). Overrides DIAVGEIA_LOG_TAGS env var")
	flags.BoolVar(&logFile, "log-file", false, "Stream logs to file in /tmp/.diavgeia/logs/")

	// Root command should only print help.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		}
		return cmd.Help()
	}
}

func overrides() config.Overrides {
	return config.Overrides{
		Backend:     backend,
		Model:       model,
		APIKey:      apiKey,
		BaseURL:     baseURL,
		DatabaseURL: databaseURL,
		Port:        port,
		LogLevel:    logLevel,
		LogTags:     logTags,
		LogFile:     logFile,
		Verbose:     verbose,
	}
}

// loadConfig loads .env files, the config file and the environment, applies
// the global flags and configures logging from the result.
func loadConfig() (*config.Config, error) {
	dir := ""
	if configFile != "" {
		dir = filepath.Dir(configFile)
	}
	config.LoadEnvFiles(dir)

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, logging.WithTag("config", err)
	}
	overrides().Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, logging.WithTag("config", err)
	}

	if err := configureLogging(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configureLogging(cfg *config.Config) error {
	logging.SetLogLevel(cfg.Log.Level)
	logging.SetTagFilter(cfg.Log.Tags)

	if cfg.Log.File {
		path, err := logging.SetLogFile()
		if err != nil {
			return fmt.Errorf("failed to initialize log file: %w", err)
		}
		logging.New("cli").Infof("Log file: %s", path)
	}
	return nil
}
