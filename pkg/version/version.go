package version

// Version is set at build time with -ldflags "-X github.com/mablhq/github-run-tests-action/pkg/version.Version=...".
var Version = "test"
