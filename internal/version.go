package internal

// Overridden at build time with
// -ldflags "-X github.com/scenalab/gstream-tools/internal.version=v1.2.3"
var version = "0.1.0-dev"

func GetVersion() string {
	return version
}
