// Cora language server - LSP over stdio for editor integration
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aeldidi/cora/interp"
	"github.com/aeldidi/cora/manifest"
	"github.com/aeldidi/cora/server"
	"github.com/aeldidi/cora/store"
)

func main() {
	imagePath := flag.String("image", "", "Preload state from an image file")
	memMax := flag.Int("mem-max", 0, "Maximum arena size in bytes (0 = unlimited)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cora-lsp [options]\n\n")
		fmt.Fprintf(os.Stderr, "Starts the cora language server on stdio. Completion and hover\n")
		fmt.Fprintf(os.Stderr, "are driven by the loaded state's globals and natives.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	limit := *memMax
	if m, err := manifest.FindAndLoad("."); err == nil && m != nil && limit == 0 {
		limit = m.Memory.Max
	}

	grow := store.SliceGrower(limit)
	var st *store.State
	var err error
	if *imagePath != "" {
		st, err = store.OpenImage(*imagePath, grow)
	} else {
		st, err = store.New(grow)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := interp.RegisterStd(st); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := server.NewLSP(st).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
