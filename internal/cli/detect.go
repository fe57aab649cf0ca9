package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/babel/internal/logging"
	"github.com/mgpai22/babel/internal/pipeline"
	"github.com/mgpai22/babel/internal/subtitle"
)

var detectCmd = &cobra.Command{
	Use:   "detect [video_file...]",
	Short: "Detect intertitles without translating them",
	Long: `Read the intertitle cards of the given videos and write them as a
source-language SRT track, one record per card and without line wrapping.

The track can be reviewed or corrected by hand and then passed to
"babel translate", so the frames are only read once.

Examples:
  babel detect metropolis.mp4 -l de
  babel detect metropolis.mp4 -l de --table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	addRecognitionFlags(detectCmd)
	detectCmd.Flags().Bool("table", false, "Print the detected intertitles as a table")
}

func runDetect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sourceLang, _ := cmd.Flags().GetString("language")
	output, _ := cmd.Flags().GetString("output")
	showTable, _ := cmd.Flags().GetBool("table")

	source, err := sourceLanguage(sourceLang)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}

	recognizer, err := newRecognizer(ctx, cmd, cfg, source)
	if err != nil {
		return err
	}
	p := pipeline.New(recognizer, nil, pipelineOptions(cfg), logger)

	multi := len(args) > 1
	return processVideos(ctx, args, func(ctx context.Context, path string, log *logging.Logger) error {
		// event tracks are always SubRip so translate can read them back
		outPath, err := outputPath(path, output, baseName(path, "")+"."+source, subtitle.FormatSRT, multi)
		if err != nil {
			return err
		}

		log.Infow("detecting intertitles", "output", outPath, "language", source)

		events, err := p.WithLogger(log).DetectFile(ctx, path, "")
		if err != nil {
			return err
		}
		if len(events) == 0 {
			log.Warnw("no intertitles found, writing empty event track")
		}

		if err := pipeline.WriteCues(pipeline.EventTrack(events), outPath, subtitle.FormatSRT); err != nil {
			return err
		}

		if showTable && len(events) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), eventTable(events))
		}
		printWritten(cmd, outPath, len(events), len(events) == 0)
		return nil
	})
}
