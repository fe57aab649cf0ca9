package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/babel/internal/config"
	"github.com/mgpai22/babel/internal/intertitle"
	"github.com/mgpai22/babel/internal/language"
	"github.com/mgpai22/babel/internal/logging"
	"github.com/mgpai22/babel/internal/pipeline"
	"github.com/mgpai22/babel/internal/recognize"
	"github.com/mgpai22/babel/internal/subtitle"
	"github.com/mgpai22/babel/internal/translate"
	"github.com/mgpai22/babel/internal/video"
)

var apiKeyEnvVars = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// returns the flag value, or the provider's environment variable
func resolveAPIKey(provider, flagValue string) (string, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}
	envVar, ok := apiKeyEnvVars[provider]
	if !ok {
		return "", fmt.Errorf("unsupported provider %q: use gemini, openai or anthropic", provider)
	}
	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf(
		"API key is required: use --api-key flag or set %s environment variable",
		envVar,
	)
}

func sourceLanguage(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", errors.New("source language is required: use -l/--language (e.g., -l fr)")
	}
	return language.Normalize(code)
}

// addRecognitionFlags registers the flags shared by commands that read video.
func addRecognitionFlags(cmd *cobra.Command) {
	cmd.Flags().
		String("ocr-provider", "", "Recognition provider (gemini, openai, anthropic)")
	cmd.Flags().
		String("ocr-model", "", "Vision model for reading frames (provider-specific default)")
	cmd.Flags().
		Int("ocr-concurrency", 0, "Number of frames recognized in parallel")
	cmd.Flags().
		Float64("duration-cap", 0, "Stop reading the video after this many seconds (0 uses config)")
	cmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
}

// addTranslationFlags registers the flags shared by commands that translate.
func addTranslationFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("target", "t", "en", "Target language code for the subtitles")
	cmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	cmd.Flags().
		String("model", "", "Model to use for translation (provider-specific default)")
	cmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers")
	cmd.Flags().
		Int("batch-size", 0, "Number of intertitles per API request")
	cmd.Flags().
		Int("wrap-width", 0, "Maximum characters per subtitle line")
	cmd.Flags().
		String("format", "", "Subtitle format (srt, vtt)")
	if cmd.Flags().Lookup("api-key") == nil {
		cmd.Flags().
			StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	}
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	setString := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = strings.ToLower(strings.TrimSpace(f.Value.String()))
		}
	}
	setInt := func(name string, dst *int) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			v, _ := flags.GetInt(name)
			*dst = v
		}
	}

	setString("ocr-provider", &c.Recognition.Provider)
	setInt("ocr-concurrency", &c.Recognition.Concurrency)
	setString("provider", &c.Translation.Provider)
	setInt("concurrency", &c.Translation.Concurrency)
	setInt("batch-size", &c.Translation.BatchSize)
	setInt("wrap-width", &c.Captions.WrapWidth)
	setString("format", &c.Captions.Format)

	if f := flags.Lookup("ocr-model"); f != nil && f.Changed {
		c.Recognition.Model = strings.TrimSpace(f.Value.String())
	}
	if f := flags.Lookup("model"); f != nil && f.Changed {
		c.Translation.Model = strings.TrimSpace(f.Value.String())
	}
	if f := flags.Lookup("duration-cap"); f != nil && f.Changed {
		v, _ := flags.GetFloat64("duration-cap")
		c.Segmentation.DurationCapSeconds = v
	}

	return c.Validate()
}

// pipelineOptions maps config onto pipeline tuning.
func pipelineOptions(c *config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Segmentation = intertitle.Config{
		SimilarityThreshold: c.Segmentation.SimilarityThreshold,
		Similarity:          intertitle.Ratio,
		FlushTrailing:       c.Segmentation.FlushTrailing,
	}
	opts.Noise = intertitle.NoiseFilter{MaxDigitRatio: c.Segmentation.MaxDigitRatio}
	opts.DurationCap = c.Segmentation.DurationCapSeconds
	opts.RecognitionConcurrency = c.Recognition.Concurrency
	opts.TranslationConcurrency = c.Translation.Concurrency
	opts.WrapWidth = c.Captions.WrapWidth
	return opts
}

func newRecognizer(ctx context.Context, cmd *cobra.Command, c *config.Config, lang string) (recognize.Recognizer, error) {
	flagKey, _ := cmd.Flags().GetString("api-key")
	apiKey, err := resolveAPIKey(c.Recognition.Provider, flagKey)
	if err != nil {
		return nil, err
	}
	rec, err := recognize.Factory(ctx, recognize.Provider(c.Recognition.Provider), apiKey, recognize.Options{
		Language: lang,
		Model:    c.Recognition.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrRecognitionUnavailable, err)
	}
	return rec, nil
}

func newTranslator(ctx context.Context, cmd *cobra.Command, c *config.Config, source, target string) (translate.Translator, error) {
	flagKey, _ := cmd.Flags().GetString("api-key")
	apiKey, err := resolveAPIKey(c.Translation.Provider, flagKey)
	if err != nil {
		return nil, err
	}
	tr, err := translate.Factory(ctx, translate.Provider(c.Translation.Provider), apiKey, translate.Options{
		InputLanguage:  source,
		TargetLanguage: target,
		Model:          c.Translation.Model,
		BatchSize:      c.Translation.BatchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrTranslationFailed, err)
	}
	return tr, nil
}

// outputPath places the result for input. name is the output file name
// without extension. With several inputs, or when output is an existing
// directory, output is used as a directory. A single output file whose
// extension does not match the format gets it replaced.
func outputPath(input, output, name string, format subtitle.Format, multi bool) (string, error) {
	ext := subtitle.GetExtensionForFormat(format)
	if output == "" {
		return filepath.Join(filepath.Dir(input), name+ext), nil
	}

	info, err := os.Stat(output)
	isDir := err == nil && info.IsDir()
	if multi {
		if err == nil && !isDir {
			return "", fmt.Errorf("output %s must be a directory when several inputs are given", output)
		}
		return filepath.Join(output, name+ext), nil
	}
	if isDir {
		return filepath.Join(output, name+ext), nil
	}

	if !strings.EqualFold(filepath.Ext(output), ext) {
		output = strings.TrimSuffix(output, filepath.Ext(output)) + ext
	}
	return output, nil
}

// trims the extension and a trailing language suffix such as ".fr"
func baseName(path, lang string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if lang != "" {
		suffix := "." + lang
		if len(name) > len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
			name = name[:len(name)-len(suffix)]
		}
	}
	return name
}

// processFiles runs fn on every input. A failing file is logged and the
// batch continues; the returned error joins every failure.
func processFiles(ctx context.Context, files []string, fn fileFunc) error {
	var errs []error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		fileLog := logger.With("file", path)
		if err := fn(ctx, path, fileLog); err != nil {
			fileLog.Errorw("file failed", "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(errs), len(files), errors.Join(errs...))
	}
	return nil
}

type fileFunc func(ctx context.Context, path string, log *logging.Logger) error

// processVideos is processFiles for video inputs. A missing or unsupported
// file fails on its own without stopping the rest of the batch.
func processVideos(ctx context.Context, files []string, fn fileFunc) error {
	return processFiles(ctx, files, func(ctx context.Context, path string, log *logging.Logger) error {
		if err := checkVideoFile(path); err != nil {
			return err
		}
		return fn(ctx, path, log)
	})
}

// processEventTracks is processFiles for the .srt tracks written by detect.
func processEventTracks(ctx context.Context, files []string, fn fileFunc) error {
	return processFiles(ctx, files, func(ctx context.Context, path string, log *logging.Logger) error {
		if err := checkEventTrack(path); err != nil {
			return err
		}
		return fn(ctx, path, log)
	})
}

func checkVideoFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: video file not found: %s", pipeline.ErrInvalidFrameSource, path)
		}
		return fmt.Errorf("%w: %w", pipeline.ErrInvalidFrameSource, err)
	}
	if !video.IsVideoFile(path) {
		return fmt.Errorf("%w: unsupported file type: %s", pipeline.ErrInvalidFrameSource, path)
	}
	return nil
}

func checkEventTrack(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("event track not found: %s", path)
		}
		return err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".srt" {
		return fmt.Errorf("unsupported event track %q: use the .srt written by detect", path)
	}
	return nil
}

func printWritten(cmd *cobra.Command, path string, cues int, empty bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	out := cmd.OutOrStdout()
	if empty {
		fmt.Fprintf(out, "No intertitles found, wrote empty subtitles: %s\n", abs)
		return
	}
	fmt.Fprintf(out, "Subtitles written: %s\n", abs)
	fmt.Fprintf(out, "  Entries: %d\n", cues)
}
