package config

import "strings"

const (
	defaultSimilarityThreshold = 0.9
	defaultMaxDigitRatio       = 0.5
	defaultDurationCapSeconds  = 4 * 60 * 60
	defaultWrapWidth           = 50
	defaultFormat              = "srt"
	defaultProvider            = "gemini"
	defaultRecognitionWorkers  = 4
	defaultBatchSize           = 50
	defaultTranslationWorkers  = 3
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Segmentation: Segmentation{
			SimilarityThreshold: defaultSimilarityThreshold,
			MaxDigitRatio:       defaultMaxDigitRatio,
			DurationCapSeconds:  defaultDurationCapSeconds,
			FlushTrailing:       true,
		},
		Captions: Captions{
			WrapWidth: defaultWrapWidth,
			Format:    defaultFormat,
		},
		Recognition: Recognition{
			Provider:    defaultProvider,
			Concurrency: defaultRecognitionWorkers,
		},
		Translation: Translation{
			Provider:    defaultProvider,
			BatchSize:   defaultBatchSize,
			Concurrency: defaultTranslationWorkers,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// normalize trims string fields and restores defaults for zeroed values.
func (c *Config) normalize() {
	c.Captions.Format = strings.ToLower(strings.TrimSpace(c.Captions.Format))
	if c.Captions.Format == "" {
		c.Captions.Format = defaultFormat
	}
	if c.Captions.WrapWidth == 0 {
		c.Captions.WrapWidth = defaultWrapWidth
	}

	c.Recognition.Provider = strings.ToLower(strings.TrimSpace(c.Recognition.Provider))
	c.Recognition.Model = strings.TrimSpace(c.Recognition.Model)
	if c.Recognition.Provider == "" {
		c.Recognition.Provider = defaultProvider
	}
	if c.Recognition.Concurrency == 0 {
		c.Recognition.Concurrency = defaultRecognitionWorkers
	}

	c.Translation.Provider = strings.ToLower(strings.TrimSpace(c.Translation.Provider))
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.Provider == "" {
		c.Translation.Provider = defaultProvider
	}
	if c.Translation.BatchSize == 0 {
		c.Translation.BatchSize = defaultBatchSize
	}
	if c.Translation.Concurrency == 0 {
		c.Translation.Concurrency = defaultTranslationWorkers
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
