package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/scenalab/gstream-tools/internal"
)

var usg = `Usage of %s:

%s lists the segments of a Blu-ray graphic stream as JSON lines, one segment
per line, with kind, timestamps and payload size. It reads either a raw
stream (.sup/.pgs, .mnu/.igs) or a Scenarist ES file with its MUI index.
`

func parseOptions() internal.Options {
	opts := internal.Options{ShowSegments: true}
	flag.BoolVar(&opts.ShowStatistics, "stats", false, "show stream statistics")
	flag.BoolVar(&opts.ShowIndex, "index", false, "show MUI index records (ES+MUI input only)")
	flag.BoolVar(&opts.Indent, "indent", false, "indent JSON output")
	flag.StringVar(&opts.Family, "family", "", "stream family, pg or ig (inferred from the file extension if empty)")
	flag.StringVar(&opts.MuiFile, "mui", "", "MUI index file (auto-located for ES input if empty)")
	flag.BoolVar(&opts.Version, "version", false, "print version")

	flag.Usage = func() {
		parts := strings.Split(os.Args[0], "/")
		name := parts[len(parts)-1]
		fmt.Fprintf(os.Stderr, usg, name, name)
		fmt.Fprintf(os.Stderr, "\nRun as: %s [options] file.sup (- for stdin) with options:\n\n", name)
		flag.PrintDefaults()
	}

	flag.Parse()
	return opts
}

func info(ctx context.Context, w io.Writer, f io.Reader, o internal.Options) error {
	return internal.ParseStreamInfo(ctx, w, f, o)
}

func main() {
	o, inFile := internal.ParseParams(parseOptions)
	if o.Family == "" {
		if family, ok := internal.GuessFamily(inFile); ok {
			o.Family = family.String()
		} else {
			o.Family = "pg"
		}
	}
	if o.MuiFile == "" && internal.IsEsFile(inFile) {
		muiFile, err := internal.FindMuiFile(inFile)
		if err != nil {
			log.Fatal(err)
		}
		o.MuiFile = muiFile
	}
	err := internal.Execute(os.Stdout, o, inFile, info)
	if err != nil {
		log.Fatal(err)
	}
}
