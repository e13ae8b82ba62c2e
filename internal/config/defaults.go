package config

const (
	defaultStagingDir      = "~/.local/share/mappack/staging"
	defaultOutputDir       = "~/.local/share/mappack/output"
	defaultCachePath       = "~/.cache/mappack/name_cache.json"
	defaultAPIBaseURL      = "https://api.steampowered.com"
	defaultRequestTimeout  = 15
	defaultDownloadTimeout = 300
	defaultNamePrefix      = "mappack"
	defaultExtension       = "vpk"
	defaultConfigFile      = "gameinfo.txt"
	defaultPayloadDir      = "custom"
	defaultVPKBinary       = "vpk"
	defaultVTexBinary      = "vtex"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			CachePath:  defaultCachePath,
		},
		Workshop: Workshop{
			APIBaseURL:      defaultAPIBaseURL,
			RequestTimeout:  defaultRequestTimeout,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Resolver: Resolver{
			PrefixPriority:   []string{"de_", "cs_", "ar_", "aim_", "awp_", "gg_", "fy_", "surf_"},
			ExcludedSuffixes: []string{"skybox", "sky", "hdr", "props", "nav", "radar"},
		},
		Package: Package{
			NamePrefix: defaultNamePrefix,
			Extension:  defaultExtension,
		},
		Assemble: Assemble{
			Locales: []string{"english"},
		},
		Install: Install{
			ConfigFile: defaultConfigFile,
			PayloadDir: defaultPayloadDir,
		},
		Tools: Tools{
			VPKBinary:  defaultVPKBinary,
			VTexBinary: defaultVTexBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
