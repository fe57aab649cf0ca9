package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/babel/internal/language"
	"github.com/mgpai22/babel/internal/logging"
	"github.com/mgpai22/babel/internal/pipeline"
	"github.com/mgpai22/babel/internal/subtitle"
)

var runCmd = &cobra.Command{
	Use:   "run [video_file...]",
	Short: "Detect, translate and subtitle the intertitles of silent films",
	Long: `Read every intertitle card of the given videos, translate the text and
write wrapped, timed subtitles next to each video.

Examples:
  babel run metropolis.mp4 -l de
  babel run nosferatu.mkv -l de -t fr --format vtt
  babel run reel1.mp4 reel2.mp4 -l sv -o subs/ --provider anthropic`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addRecognitionFlags(runCmd)
	addTranslationFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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

	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}
	format, err := subtitle.ParseFormat(cfg.Captions.Format)
	if err != nil {
		return err
	}

	recognizer, err := newRecognizer(ctx, cmd, cfg, source)
	if err != nil {
		return err
	}

	var p *pipeline.Pipeline
	if strings.EqualFold(source, target) {
		logger.Infow("source and target language match, skipping translation", "language", source)
		p = pipeline.New(recognizer, nil, pipelineOptions(cfg), logger)
	} else {
		translator, err := newTranslator(ctx, cmd, cfg, source, target)
		if err != nil {
			return err
		}
		p = pipeline.New(recognizer, translator, pipelineOptions(cfg), logger)
	}

	multi := len(args) > 1
	return processVideos(ctx, args, func(ctx context.Context, path string, log *logging.Logger) error {
		outPath, err := outputPath(path, output, baseName(path, ""), format, multi)
		if err != nil {
			return err
		}

		log.Infow("starting intertitle subtitles",
			"output", outPath,
			"source_language", source,
			"target_language", target,
			"ocr_provider", cfg.Recognition.Provider,
			"provider", cfg.Translation.Provider,
		)

		result, err := p.WithLogger(log).RunFile(ctx, path, "")
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
