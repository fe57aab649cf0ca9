package config

import (
	"errors"
	"fmt"
)

var validProviders = map[string]bool{
	"gemini":    true,
	"openai":    true,
	"anthropic": true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	s := c.Segmentation
	if s.SimilarityThreshold <= 0 || s.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("segmentation.similarity_threshold must be in (0, 1], got %v", s.SimilarityThreshold))
	}
	if s.MaxDigitRatio <= 0 || s.MaxDigitRatio > 1 {
		errs = append(errs, fmt.Errorf("segmentation.max_digit_ratio must be in (0, 1], got %v", s.MaxDigitRatio))
	}
	if s.DurationCapSeconds < 0 {
		errs = append(errs, fmt.Errorf("segmentation.duration_cap_seconds must not be negative, got %v", s.DurationCapSeconds))
	}

	if c.Captions.WrapWidth <= 0 {
		errs = append(errs, fmt.Errorf("captions.wrap_width must be positive, got %d", c.Captions.WrapWidth))
	}
	if c.Captions.Format != "srt" && c.Captions.Format != "vtt" {
		errs = append(errs, fmt.Errorf("captions.format must be srt or vtt, got %q", c.Captions.Format))
	}

	if !validProviders[c.Recognition.Provider] {
		errs = append(errs, fmt.Errorf("recognition.provider %q is not one of gemini, openai, anthropic", c.Recognition.Provider))
	}
	if c.Recognition.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("recognition.concurrency must be positive, got %d", c.Recognition.Concurrency))
	}

	if !validProviders[c.Translation.Provider] {
		errs = append(errs, fmt.Errorf("translation.provider %q is not one of gemini, openai, anthropic", c.Translation.Provider))
	}
	if c.Translation.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("translation.batch_size must be positive, got %d", c.Translation.BatchSize))
	}
	if c.Translation.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("translation.concurrency must be positive, got %d", c.Translation.Concurrency))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
