package config

const (
	defaultWidth            = 3200
	defaultZoomSeconds      = 2.0
	defaultZoomOffset       = 0.0
	defaultSampleRate       = 48000
	defaultFallbackBitDepth = 16
	defaultLogDir           = "~/.local/share/soundcheck/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultSoxBinary        = "sox"
	defaultSoxiBinary       = "soxi"
	defaultMagickBinary     = "magick"
)

func defaultFormats() []string {
	return []string{"flac", "wav"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Width:            defaultWidth,
			ZoomSeconds:      defaultZoomSeconds,
			ZoomOffset:       defaultZoomOffset,
			SampleRate:       defaultSampleRate,
			Formats:          defaultFormats(),
			FallbackBitDepth: defaultFallbackBitDepth,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Tools: Tools{
			Sox:    defaultSoxBinary,
			Soxi:   defaultSoxiBinary,
			Magick: defaultMagickBinary,
		},
		Installer: Installer{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
