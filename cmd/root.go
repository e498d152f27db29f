package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seven7ty/dscgg/config"
	"github.com/seven7ty/dscgg/dscgg"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *dscgg.Client

	appVersion   = "dev"
	appBuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dscgg",
	Short: "A CLI for managing dsc.gg short links",
	Long: `dscgg is a CLI for the dsc.gg link-shortening service. It can look up
users, apps and links, search the link database, and create, update and
delete your own short links.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information from build flags
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	opts := []dscgg.Option{
		dscgg.WithBaseURL(cfg.DscGG.BaseURL),
		dscgg.WithTimeout(time.Duration(cfg.DscGG.Timeout) * time.Second),
		dscgg.WithUserAgent("dscgg-cli/" + appVersion),
	}
	if cfg.DscGG.StrictErrors {
		opts = append(opts, dscgg.WithStrictErrors())
	}

	client, err = dscgg.NewClient(cfg.DscGG.Token, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create dsc.gg client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; only colorize when stderr is a terminal.
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config or client needed for version output.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dscgg %s (built %s)\n", appVersion, appBuildTime)
	},
}

// testCmd verifies the configured token against the live service
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to dsc.gg",
	Long:  `Test the connection to dsc.gg using the configured API token.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	defer client.Close()

	fmt.Printf("Testing connection to %s...\n", cfg.DscGG.BaseURL)

	links, err := client.GetTopLinks(cmd.Context())
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Println("✓ Connection successful!")
	fmt.Printf("- Top links returned: %d\n", len(links))
	return nil
}
