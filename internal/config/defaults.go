package config

const (
	defaultMediaDir        = "~/.local/share/agrovista/media"
	defaultLogDir          = "~/.local/share/agrovista/logs"
	defaultLayersDir       = "~/.local/share/agrovista/layers"
	defaultCacheDir        = "~/.local/share/agrovista/cache/thumbnails"
	defaultDatabasePath    = "~/.local/share/agrovista/catalog.db"
	defaultProductName     = "AgroVista"
	defaultTagline         = "Satellite monitoring for smallholder parcels"
	defaultMonthsBack      = 12
	defaultEncoderCommand  = "ffmpeg"
	defaultEncoderTimeout  = 600
	defaultDownloadTimeout = 15
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MediaDir:     defaultMediaDir,
			LogDir:       defaultLogDir,
			LayersDir:    defaultLayersDir,
			CacheDir:     defaultCacheDir,
			DatabasePath: defaultDatabasePath,
		},
		Reports: Reports{
			ProductName:       defaultProductName,
			Tagline:           defaultTagline,
			DefaultMonthsBack: defaultMonthsBack,
		},
		Video: Video{
			EncoderCommand: defaultEncoderCommand,
			TimeoutSeconds: defaultEncoderTimeout,
		},
		Thumbnails: Thumbnails{
			DownloadTimeoutSeconds: defaultDownloadTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
