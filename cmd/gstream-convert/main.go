package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/scenalab/gstream-tools/internal"
)

var usg = `Usage of %s:

%s converts Blu-ray graphic streams between the raw container (.sup/.pgs,
.mnu/.igs) and the Scenarist ES+MUI file pair, without touching a single
payload byte or timestamp. The direction is taken from the input extension:
an ES input (.es/.pes/.ies) converts back to a raw stream, anything else is
treated as a raw stream and converts to ES+MUI. The MUI index is located or
named next to the ES file unless -mui says otherwise.
`

func parseOptions() internal.Options {
	opts := internal.Options{}
	flag.StringVar(&opts.OutFile, "o", "", "output file (required); the MUI companion is derived from it")
	flag.StringVar(&opts.MuiFile, "mui", "", "MUI index file to read or write (overrides the derived name)")
	flag.StringVar(&opts.Family, "family", "", "stream family, pg or ig (inferred from file extensions if empty)")
	flag.BoolVar(&opts.Version, "version", false, "print version")

	flag.Usage = func() {
		parts := strings.Split(os.Args[0], "/")
		name := parts[len(parts)-1]
		fmt.Fprintf(os.Stderr, usg, name, name)
		fmt.Fprintf(os.Stderr, "\nRun as: %s [options] file.sup|file.es with options:\n\n", name)
		flag.PrintDefaults()
	}

	flag.Parse()
	return opts
}

func main() {
	o := parseOptions()
	if o.Version {
		fmt.Printf("gstream-convert version %s\n", internal.GetVersion())
		os.Exit(0)
	}
	if len(flag.Args()) < 1 || o.OutFile == "" {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(flag.Args()[0], o); err != nil {
		log.Fatal(err)
	}
}

func run(inFile string, o internal.Options) error {
	if internal.IsEsFile(inFile) {
		return convertToRawStream(inFile, o)
	}
	return convertToEsMui(inFile, o)
}

func resolveFamily(o internal.Options, file string) (internal.Family, error) {
	if o.Family != "" {
		return internal.ParseFamily(o.Family)
	}
	family, ok := internal.GuessFamily(file)
	if !ok {
		return family, fmt.Errorf("cannot infer stream family from %q, use -family pg|ig", file)
	}
	return family, nil
}

func convertToEsMui(inFile string, o internal.Options) error {
	family, err := resolveFamily(o, inFile)
	if err != nil {
		return err
	}
	if !internal.IsEsFile(o.OutFile) {
		return fmt.Errorf("output %q does not look like an ES file", o.OutFile)
	}
	raw, err := os.ReadFile(inFile)
	if err != nil {
		return err
	}
	muiData, esData, err := internal.RawToEsMui(raw, family)
	if err != nil {
		return err
	}
	muiFile := o.MuiFile
	if muiFile == "" {
		muiFile = internal.MuiFileName(o.OutFile)
	}
	if err := internal.WriteOutputFile(o.OutFile, esData); err != nil {
		return err
	}
	if err := internal.WriteOutputFile(muiFile, muiData); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes) and %s (%d bytes)", o.OutFile, len(esData), muiFile, len(muiData))
	return nil
}

func convertToRawStream(inFile string, o internal.Options) error {
	family, err := resolveFamily(o, o.OutFile)
	if err != nil {
		return err
	}
	muiFile := o.MuiFile
	if muiFile == "" {
		muiFile, err = internal.FindMuiFile(inFile)
		if err != nil {
			return err
		}
	}
	esData, err := os.ReadFile(inFile)
	if err != nil {
		return err
	}
	muiData, err := os.ReadFile(muiFile)
	if err != nil {
		return err
	}
	raw, err := internal.EsMuiToRaw(muiData, esData, family)
	if err != nil {
		return err
	}
	if err := internal.WriteOutputFile(o.OutFile, raw); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", o.OutFile, len(raw))
	return nil
}
