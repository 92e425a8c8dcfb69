// Command feedcheck validates quake feed files offline, prints the records
// inside a time window, and generates synthetic feeds for fixtures.
package main

import (
	"os"

	"github.com/couchcryptid/quake-map-service/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
