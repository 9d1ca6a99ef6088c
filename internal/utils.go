package internal

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

type Options struct {
	Version        bool
	Indent         bool
	ShowSegments   bool
	ShowIndex      bool
	ShowStatistics bool
	Family         string
	MuiFile        string
	OutFile        string
}

func CreateFullOptions() Options {
	return Options{ShowSegments: true, ShowIndex: true, ShowStatistics: true, Family: "pg"}
}

type OptionParseFunc func() Options
type RunableFunc func(ctx context.Context, w io.Writer, f io.Reader, o Options) error

// GuessFamily returns the stream family implied by a raw stream file name.
func GuessFamily(name string) (Family, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".sup", ".pgs":
		return FamilyPG, true
	case ".mnu", ".igs":
		return FamilyIG, true
	}
	return FamilyPG, false
}

// IsEsFile reports whether name looks like a Scenarist ES payload file.
func IsEsFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".es", ".pes", ".ies":
		return true
	}
	return false
}

// MuiFileName derives the companion index name from an ES file name:
// ".MUI" when the ES name ends in upper-case "ES", ".mui" otherwise.
func MuiFileName(esFile string) string {
	if strings.HasSuffix(esFile, "ES") {
		return esFile + ".MUI"
	}
	return esFile + ".mui"
}

// FindMuiFile locates the companion index next to an ES file, trying both
// suffix cases.
func FindMuiFile(esFile string) (string, error) {
	for _, cand := range []string{esFile + ".mui", esFile + ".MUI"} {
		if _, err := os.Stat(cand); err == nil {
			return cand, nil
		}
	}
	return "", fmt.Errorf("no MUI index found next to %s", esFile)
}

// RemoveFileIfExists removes file if it is present.
func RemoveFileIfExists(file string) error {
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Remove(file)
}

func OpenFileAndAppend(file string) (*os.File, error) {
	fo, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating output file %w", err)
	}

	return fo, nil
}

// WriteOutputFile replaces file with data. Callers only reach this once a
// conversion has fully succeeded, so a failed run leaves no partial output.
func WriteOutputFile(file string, data []byte) error {
	if err := RemoveFileIfExists(file); err != nil {
		return err
	}
	fo, err := OpenFileAndAppend(file)
	if err != nil {
		return err
	}
	defer fo.Close()
	_, err = fo.Write(data)
	return err
}

func ParseParams(function OptionParseFunc) (o Options, inFile string) {
	o = function()
	if o.Version {
		fmt.Printf("gstream-tools version %s\n", GetVersion())
		os.Exit(0)
	}
	if len(flag.Args()) < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inFile = flag.Args()[0]
	return o, inFile
}

func Execute(w io.Writer, o Options, inFile string, function RunableFunc) error {
	// Create a cancellable context in case you want to stop reading segments any time you want
	ctx, cancel := context.WithCancel(context.Background())
	// Handle SIGTERM signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT)
	go func() {
		<-ch
		cancel()
	}()

	var f io.Reader
	if inFile == "-" {
		f = os.Stdin
	} else {
		var err error
		fh, err := os.Open(inFile)
		if err != nil {
			log.Fatal(err)
		}
		f = fh
		defer fh.Close()
	}

	err := function(ctx, w, f, o)
	if err != nil {
		return err
	}
	return nil
}
