package config

const (
	defaultLedgerDir        = "~/.local/share/assetnamer"
	defaultBackupDir        = "~/.local/share/assetnamer/backups"
	defaultLogDir           = "~/.local/share/assetnamer/logs"
	defaultPattern          = "{date}_{description}_{sequence}"
	defaultVisionBaseURL    = "https://api.openai.com/v1/chat/completions"
	defaultVisionModel      = "gpt-4o"
	defaultVisionMaxTokens  = 150
	defaultVisionDetail     = "auto"
	defaultVisionTimeout    = 30
	defaultFFmpegBinary     = "ffmpeg"
	defaultBatchSize        = 10
	defaultMaxFileSizeMB    = 100
	defaultRetryAttempts    = 3
	defaultSequenceStart    = 1
	defaultDateFormat       = "2006-01-02"
	defaultSequencePadding  = 3
	defaultSpaceReplacement = "_"
	defaultNotifyTimeout    = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LedgerDir: defaultLedgerDir,
			BackupDir: defaultBackupDir,
			LogDir:    defaultLogDir,
		},
		Patterns: Patterns{
			Default: defaultPattern,
			Library: map[string]string{
				"default":        defaultPattern,
				"documentary":    "{project}_{scene}_{date}_{number}",
				"location_based": "{location}_{subject}_{action}_{counter}",
			},
			Sequence: defaultSequenceStart,
		},
		Formats: Formats{
			Images: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp"},
			Videos: []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"},
		},
		Vision: Vision{
			BaseURL:        defaultVisionBaseURL,
			Model:          defaultVisionModel,
			MaxTokens:      defaultVisionMaxTokens,
			Temperature:    0.7,
			Detail:         defaultVisionDetail,
			TimeoutSeconds: defaultVisionTimeout,
			FFmpegBinary:   defaultFFmpegBinary,
		},
		Processing: Processing{
			BatchSize:       defaultBatchSize,
			BackupOriginals: true,
			MaxFileSizeMB:   defaultMaxFileSizeMB,
			RetryAttempts:   defaultRetryAttempts,
		},
		Output: Output{
			DateFormat:       defaultDateFormat,
			SequencePadding:  defaultSequencePadding,
			SpaceReplacement: defaultSpaceReplacement,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			BatchEvents:    true,
			UndoEvents:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
