// Command structalign converts pairwise structure alignment results into
// multiple-alignment ensemble documents and inspects them.
package main

import (
	"os"

	"github.com/turtacn/StructAlign/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
	os.Exit(cli.Execute())
}
