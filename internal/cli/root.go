package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mgpai22/babel/internal/config"
	"github.com/mgpai22/babel/internal/logging"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "babel",
	Short: "Subtitles for silent film intertitles",
	Long: `Babel reads the intertitle cards of a silent film, works out when each
card is on screen, translates the text and writes timed subtitles.

Frames are read with a vision model, so an API key for the chosen
provider is required (GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["skipConfigLoad"] == "true" {
			logger = logging.NewLogger(verbose)
			return nil
		}

		loaded, path, found, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
		if verbose {
			opts.Level = "debug"
		}
		logger, err = logging.New(opts)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if found {
			logger.Debugw("configuration loaded", "path", path)
		}
		return nil
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (a directory when several inputs are given)")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code of the intertitles (e.g., fr, de, sv)")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Configuration file path (default ~/.config/babel/config.toml)")
}
