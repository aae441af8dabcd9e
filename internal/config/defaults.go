package config

// Strategy values accepted by convert.strategy.
const (
	StrategyDirect = "direct"
	StrategyStaged = "staged"
)

const (
	defaultInputDir        = "~/scans"
	defaultOutputDir       = "~/tiles"
	defaultStagingDir      = "~/.local/share/tilepress/staging"
	defaultLogDir          = "~/.local/share/tilepress/logs"
	defaultVipsBinary      = "vips"
	defaultStrategy        = StrategyDirect
	defaultOutputExtension = ".tif"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultMinFreeGiB      = 5
	defaultStaleAfterHrs   = 24
)

func defaultInputExtensions() []string {
	return []string{".tif", ".tiff"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:   defaultInputDir,
			OutputDir:  defaultOutputDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Convert: Convert{
			VipsBinary:      defaultVipsBinary,
			Workers:         0, // 0 means auto-detect from CPU count
			Strategy:        defaultStrategy,
			InputExtensions: defaultInputExtensions(),
			OutputExtension: defaultOutputExtension,
		},
		Staging: Staging{
			MinFreeGiB:    defaultMinFreeGiB,
			StaleAfterHrs: defaultStaleAfterHrs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
