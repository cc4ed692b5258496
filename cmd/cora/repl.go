package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aeldidi/cora/interp"
	"github.com/aeldidi/cora/store"
)

// runREPL starts an interactive read-eval-print loop.
func runREPL(st *store.State) {
	fmt.Println("Cora REPL (type 'exit' to quit, ':help' for commands)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	lineBuffer := strings.Builder{}

	for {
		// Show prompt
		if lineBuffer.Len() == 0 {
			fmt.Print(">> ")
		} else {
			fmt.Print(".. ")
		}

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		// Handle exit
		if lineBuffer.Len() == 0 && (line == "exit" || line == "quit") {
			break
		}

		// Handle REPL commands (start with ':')
		if lineBuffer.Len() == 0 && strings.HasPrefix(line, ":") {
			handleREPLCommand(st, line)
			continue
		}

		if lineBuffer.Len() > 0 {
			lineBuffer.WriteString("\n")
		}
		lineBuffer.WriteString(line)

		// Keep reading while forms are unbalanced.
		input := lineBuffer.String()
		if needsMore(input) {
			continue
		}
		lineBuffer.Reset()

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		evalAndPrint(st, input)
	}

	fmt.Println()
}

// needsMore reports whether input has an unterminated form and the REPL
// should keep accumulating lines.
func needsMore(input string) bool {
	err := interp.Check(input)
	return err != nil && strings.Contains(err.Msg, "unterminated form")
}

// handleREPLCommand handles REPL meta-commands.
func handleREPLCommand(st *store.State, cmd string) {
	arg := ""
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		cmd, arg = cmd[:i], strings.TrimSpace(cmd[i+1:])
	}

	switch cmd {
	case ":help", ":h", ":?":
		fmt.Println("REPL Commands:")
		fmt.Println("  :help, :h, :?     Show this help")
		fmt.Println("  :globals          List global bindings")
		fmt.Println("  :natives          List native functions")
		fmt.Println("  :stats            Show arena statistics")
		fmt.Println("  :save <path>      Save a state image")
		fmt.Println("  exit, quit        Exit REPL")
	case ":globals":
		for _, name := range st.GlobalNames() {
			h, _ := st.Lookup(name)
			fmt.Printf("  %s = %s\n", name, store.Format(st, h))
		}
	case ":natives":
		for _, name := range st.NativeNames() {
			fmt.Printf("  %s\n", name)
		}
	case ":stats":
		s := st.Stats()
		fmt.Printf("  arena: %d bytes, %d used, %d free\n", s.ArenaBytes, s.UsedBytes, s.FreeBytes)
		fmt.Printf("  objects: %d live\n", s.LiveObjects)
	case ":save":
		if arg == "" {
			fmt.Println("Usage: :save <path>")
			return
		}
		if err := st.SaveImage(arg); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Saved image to %s\n", arg)
	default:
		fmt.Printf("Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// evalAndPrint evaluates input and prints the resulting value.
func evalAndPrint(st *store.State, input string) {
	h, err := interp.Run(st, input)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(store.Format(st, h))
}
