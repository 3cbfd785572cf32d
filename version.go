package doclai

// Version information for doclai.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/doclai.GitCommit=abc1234"
const (
	// Name is the application name.
	Name = "doclai"

	// Description is a short description of the application.
	Description = "Document Localization AI - structure-preserving translation of JSON/YAML documents"

	// Version is the semantic version of the application.
	Version = "0.3.0"
)

// Build information, typically set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version with a short commit suffix when known.
func FullVersion() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return Version
	}
	short := GitCommit
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + "+" + short
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
