package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/babel/internal/language"
	"github.com/mgpai22/babel/internal/logging"
	"github.com/mgpai22/babel/internal/pipeline"
	"github.com/mgpai22/babel/internal/subtitle"
)

var translateCmd = &cobra.Command{
	Use:   "translate [events.srt...]",
	Short: "Translate intertitle tracks written by detect",
	Long: `Translate source-language intertitle tracks produced by "babel detect"
and write wrapped, timed subtitles.

Each record of the input track is treated as one intertitle.

Examples:
  babel translate metropolis.de.srt -l de
  babel translate metropolis.de.srt -l de -t es --format vtt -o metropolis.es.vtt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	addTranslationFlags(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sourceLang, _ := cmd.Flags().GetString("language")
	targetLang, _ := cmd.Flags().GetString("target")
	output, _ := cmd.Flags().GetString("output")

	source, err := sourceLanguage(sourceLang)
	if err != nil {
		return err
	}
	target, err := language.Normalize(targetLang)
	if err != nil {
		return err
	}
	if strings.EqualFold(source, target) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			source,
			target,
		)
	}

	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}
	format, err := subtitle.ParseFormat(cfg.Captions.Format)
	if err != nil {
		return err
	}

	translator, err := newTranslator(ctx, cmd, cfg, source, target)
	if err != nil {
		return err
	}
	p := pipeline.New(nil, translator, pipelineOptions(cfg), logger)

	multi := len(args) > 1
	return processEventTracks(ctx, args, func(ctx context.Context, path string, log *logging.Logger) error {
		outPath, err := outputPath(path, output, baseName(path, source)+"."+target, format, multi)
		if err != nil {
			return err
		}

		segments, err := subtitle.ReadSRTFile(path)
		if err != nil {
			return fmt.Errorf("failed to parse event track: %w", err)
		}
		events := pipeline.EventsFromSegments(segments)

		log.Infow("translating intertitles",
			"events", len(events),
			"output", outPath,
			"target_language", target,
			"provider", cfg.Translation.Provider,
		)

		result, err := p.WithLogger(log).FromEvents(ctx, events)
		if err != nil {
			return err
		}

		if err := pipeline.WriteCues(result.Cues, outPath, format); err != nil {
			return err
		}
		printWritten(cmd, outPath, len(result.Cues), result.Empty)
		return nil
	})
}
