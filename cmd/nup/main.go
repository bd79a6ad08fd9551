// Command nup lays out the pages of a PDF as a folded 2x4 booklet on A4
// sheets.
//
// Usage:
//
//	nup <input_filename> <output_filename>
//
// All source pages are assumed to have the size of the first one.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/t12nslookup/hexapdf-nup/internal/imposition"
	"github.com/t12nslookup/hexapdf-nup/internal/layout"
	"github.com/t12nslookup/hexapdf-nup/internal/logging"
	"github.com/t12nslookup/hexapdf-nup/internal/pdfdoc"
)

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	if len(args) < 3 {
		name := "nup"
		if len(args) > 0 {
			name = filepath.Base(args[0])
		}
		fmt.Fprintln(stdout, "Not enough arguments. Please use the following format:")
		fmt.Fprintf(stdout, "%s <input_filename> <output_filename>\n", name)
		return 1
	}

	logging.Init(logging.CLIConfig())
	if err := impose(args[1], args[2], stdout); err != nil {
		logging.Error().Add(logging.ErrorField(err)).Msg("imposition failed")
		return 1
	}
	return 0
}

func impose(srcPath, targetPath string, stdout io.Writer) error {
	doc, err := pdfdoc.Open(srcPath)
	if err != nil {
		return err
	}

	sheets, err := imposition.Run(doc, layout.Default())
	if err != nil {
		return err
	}
	if err := doc.Commit(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Hooray! # %d Pages.\nCreating \"%s\"\n", sheets, targetPath)

	return doc.WriteFile(targetPath)
}
