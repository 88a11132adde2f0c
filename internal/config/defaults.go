package config

const (
	defaultDataDir             = "~/.local/share/rosterid"
	defaultLogDir              = "~/.local/share/rosterid/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultCrosswalkConfidence = 0.95
	defaultNameDOBConfidence   = 0.90
	defaultNameOnlyConfidence  = 0.75
	defaultFuzzyAccept         = 0.88
	defaultFuzzyMargin         = 0.05
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			CrosswalkConfidence: defaultCrosswalkConfidence,
			NameDOBConfidence:   defaultNameDOBConfidence,
			NameOnlyConfidence:  defaultNameOnlyConfidence,
			FuzzyAccept:         defaultFuzzyAccept,
			FuzzyMargin:         defaultFuzzyMargin,
		},
		Sources: Sources{
			Authoritative: []string{"sleeper"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
