package config

const (
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultInstallWorkers = 4
	defaultChecksum       = "sha256"
	defaultEncodeScheme   = "v2"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		PID: PID{
			EncodeScheme:  defaultEncodeScheme,
			DecodeSchemes: []string{"v2", "v1"},
		},
		Install: Install{
			Workers:  defaultInstallWorkers,
			Checksum: defaultChecksum,
		},
	}
}
