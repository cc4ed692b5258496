// Cora CLI - the main entry point for running cora programs
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aeldidi/cora/interp"
	"github.com/aeldidi/cora/manifest"
	"github.com/aeldidi/cora/store"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	interactive := flag.Bool("i", false, "Start interactive REPL")
	imagePath := flag.String("image", "", "Load state from an image file before running")
	saveImage := flag.String("save-image", "", "Save state to an image file after running")
	memMax := flag.Int("mem-max", 0, "Maximum arena size in bytes (0 = unlimited)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cora [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Runs .cora files against a fresh or loaded state.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cora -i                        # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  cora main.cora                 # Run a file\n")
		fmt.Fprintf(os.Stderr, "  cora -image app.image -i       # Resume a saved state in the REPL\n")
		fmt.Fprintf(os.Stderr, "  cora main.cora -save-image out # Run, then snapshot\n")
		fmt.Fprintf(os.Stderr, "\nWhen a cora.toml is found in the current directory or above, its\n")
		fmt.Fprintf(os.Stderr, "[memory], [source], and [image] sections supply defaults.\n")
	}
	flag.Parse()

	// Manifest discovery: flags win over cora.toml, which wins over defaults.
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m != nil && *verbose {
		fmt.Printf("Using manifest in %s\n", m.Dir)
	}

	limit := *memMax
	if limit == 0 && m != nil {
		limit = m.Memory.Max
	}

	files := flag.Args()
	if len(files) == 0 && !*interactive && *imagePath == "" && m != nil {
		if _, err := os.Stat(m.EntryPath()); err == nil {
			files = []string{m.EntryPath()}
		}
	}

	st, err := openState(*imagePath, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := interp.RegisterStd(st); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		stats := st.Stats()
		fmt.Printf("Arena: %d bytes used, %d objects\n", stats.UsedBytes, stats.LiveObjects)
	}

	for _, file := range files {
		if err := runFile(st, file, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive || (len(files) == 0 && *imagePath == "") {
		runREPL(st)
	}

	if out := *saveImage; out != "" {
		if err := st.SaveImage(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving image: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("Saved image to %s\n", *saveImage)
		}
	}
}

// openState builds a fresh state or loads one from an image file.
func openState(imagePath string, limit int) (*store.State, error) {
	grow := store.SliceGrower(limit)
	if imagePath == "" {
		return store.New(grow)
	}
	return store.OpenImage(imagePath, grow)
}

// runFile evaluates one .cora source file.
func runFile(st *store.State, path string, verbose bool) error {
	if !strings.HasSuffix(path, ".cora") {
		return fmt.Errorf("%q is not a .cora file", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Running %s\n", path)
	}
	if _, err := interp.Run(st, string(content)); err != nil {
		return fmt.Errorf("%s:%v", path, err)
	}
	return nil
}
