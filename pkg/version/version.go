package version

// Current defines the application version.
// It defaults to "dev" but is overwritten by the Makefile using -ldflags.
var Current = "dev"

const AppName = "drifthound"
const License = "Apache-2.0"

// VersionURL is the remote endpoint queried by check-update.
const VersionURL = "https://drifthound.dev/latest-version.txt"
