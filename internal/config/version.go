package config

// Version is the rentorad binary version.
// Set at build time via: -ldflags "-X github.com/rentora/rentora/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
