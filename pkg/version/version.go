package version

import (
	"fmt"
	"runtime"
)

// BinaryName is the name of the server binary and the MCP server name
const BinaryName = "k8stools-mcp-server"

// Build information, set through -ldflags "-X ..." at release time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	GoVersion = runtime.Version()
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)

// GetVersionInfo returns a human readable multi-line build summary
func GetVersionInfo() string {
	return fmt.Sprintf(`%s
 Version:     %s
 Git commit:  %s
 Built:       %s
 Go version:  %s
 Platform:    %s`, BinaryName, Version, GitCommit, BuildDate, GoVersion, Platform)
}
