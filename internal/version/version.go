package version

// Version is the current version of the strategy-backtest library.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/strategy-backtest/internal/version.Version=1.2.3"
// The default value indicates a development build.
var Version = "v0.1.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
