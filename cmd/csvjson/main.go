// Command csvjson converts delimiter-separated files to JSON.
//
// Usage:
//
//	csvjson [--header] [--delimiter=C] [--output=PATH] [--config=FILE] [--workers=N] [--verbose] [FILES...]
//
// Without files, csvjson reads standard input and writes JSON to standard
// output. Each of several files is written to a .json file of the same name,
// next to the input or inside the --output directory.
package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/shapestone/shape-csvjson/internal/cli"
)

func main() {
	app := cli.New(afero.NewOsFs(), os.Stdin, os.Stdout, os.Stderr)
	os.Exit(app.Run(os.Args[1:]))
}
