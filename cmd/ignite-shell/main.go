// Command ignite-shell is the line-oriented REPL named as an external
// collaborator in SPEC_FULL.md §6: it reads commands from stdin and
// dispatches them to a pkg/ignite.Instance, printing results to stdout while
// sending its own diagnostics to stderr via the shared zap logger so the two
// streams never interleave.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cronvel/ukvstore/pkg/ignite"
	"github.com/cronvel/ukvstore/pkg/logger"
	"github.com/cronvel/ukvstore/pkg/options"
)

func main() {
	path := options.DefaultPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	log := logger.New("ignite-shell")
	defer log.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := ignite.NewInstance(ctx, "ignite-shell", options.WithPath(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(ctx); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	log.Infow("ignite-shell ready", "path", path)
	run(ctx, db, os.Stdin, os.Stdout)
}

// run drives the REPL loop until stdin closes or ctx is cancelled, dispatching
// each line to the command table in SPEC_FULL.md §6. ctx is checked before
// each line is read: a cancellation that arrives while the loop waits for
// input ends the loop only once the next line arrives or stdin closes.
func run(ctx context.Context, db *ignite.Instance, in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dispatch(ctx, db, line, out)
	}
}

// dispatch parses one line and executes it against db, printing the result
// or an error to out. Unknown commands and malformed arities are reported
// per §6's exact wording.
func dispatch(ctx context.Context, db *ignite.Instance, line string, out *os.File) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "has":
		if len(args) != 1 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		if db.Has(args[0]) {
			fmt.Fprintln(out, "yes")
		} else {
			fmt.Fprintln(out, "no")
		}

	case "get":
		if len(args) != 1 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		value, err := db.GetString(ctx, args[0])
		if err != nil {
			fmt.Fprintln(out, "<not found>")
			return
		}
		fmt.Fprintln(out, value)

	case "set":
		if len(args) != 2 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		if err := db.SetString(ctx, args[0], args[1]); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

	case "del", "delete":
		if len(args) != 1 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		if err := db.Delete(ctx, args[0]); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

	case "clear":
		if len(args) != 0 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		if err := db.Clear(ctx); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

	case "size":
		if len(args) != 0 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		fmt.Fprintln(out, db.Size())

	case "keys":
		if len(args) != 0 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		for _, key := range db.Keys() {
			fmt.Fprintln(out, key)
		}

	case "vals", "values":
		if len(args) != 0 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		values, err := db.Values(ctx)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		for _, value := range values {
			fmt.Fprintln(out, string(value))
		}

	case "l", "list", "entries":
		if len(args) != 0 {
			fmt.Fprintln(out, "Syntax error")
			return
		}
		entries, err := db.Entries(ctx)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		for _, entry := range entries {
			fmt.Fprintf(out, "%s: %s\n", entry.Key, string(entry.Value.Raw()))
		}

	default:
		fmt.Fprintf(out, "Unknown command: %s\n", cmd)
	}
}
