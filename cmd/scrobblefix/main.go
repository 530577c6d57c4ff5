// scrobblefix - Scrobbler Log Repair Tool
//
// scrobblefix repairs Rockbox play-history logs whose records were dated
// with a reset clock, moving them forward by a fixed number of days.
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/ccollicutt/scrobblefix/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
