package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/scenario"
)

// REPLOptions configures RunREPL.
type REPLOptions struct {
	In      io.Reader
	Out     io.Writer
	Name    string
	Initial scenario.StateRef
	// Prompt prints "> " before each command; disable it for piped input.
	Prompt bool
}

const replHelp = `commands:
  push <factory> [name] [key=value ...]   push a new state (lists use commas: elements=a,b)
  pop                                     pop the current state
  current                                 print the current state
  stack                                   print the stack, top first
  factories                               list registered factories
  help                                    show this help
  quit                                    leave`

// RunREPL drives a manager from line commands until quit, EOF or ctx is done.
func RunREPL(ctx context.Context, w *Wiring, opts REPLOptions) error {
	initial, err := w.Registry.Build(opts.Initial.State, opts.Initial.Params)
	if err != nil {
		return fmt.Errorf("initial: %w", err)
	}
	mgr, err := strata.New(strata.Initial(initial), w.ManagerOptions(opts.Name)...)
	if err != nil {
		return err
	}
	w.Tracker.Bind(mgr)
	defer func() {
		if err := w.Store.Save(context.Background(), opts.Name, mgr.Snapshot()); err != nil {
			w.Logger.Error("failed to save snapshot", "stack", opts.Name, "err", err)
		}
	}()

	printSystemMessage(opts.Out, "stack %q started at %q; type 'help' for commands", opts.Name, domain.NameOf(initial))

	scanner := bufio.NewScanner(NewInterruptibleReader(opts.In, ctx.Done()))
	for {
		if opts.Prompt {
			fmt.Fprint(opts.Out, "> ")
		}
		if !scanner.Scan() {
			return handleExecutionError(scanner.Err())
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd := fields[0]; cmd {
		case "quit", "exit":
			printSystemMessage(opts.Out, "bye")
			return nil
		case "help":
			fmt.Fprintln(opts.Out, replHelp)
		case "factories":
			fmt.Fprintln(opts.Out, strings.Join(w.Registry.Names(), ", "))
		case "current":
			if cur, ok := mgr.Current(); ok {
				fmt.Fprintln(opts.Out, domain.NameOf(cur))
			} else {
				fmt.Fprintln(opts.Out, "(empty)")
			}
		case "stack":
			printStack(opts.Out, mgr.Snapshot())
		case "pop":
			report(opts.Out, mgr.Pop(), mgr)
		case "push":
			if len(fields) < 2 {
				fmt.Fprintln(opts.Out, "error: push needs a factory name")
				continue
			}
			params, err := parseParams(fields[2:])
			if err != nil {
				fmt.Fprintf(opts.Out, "error: %v\n", err)
				continue
			}
			s, err := w.Registry.Build(fields[1], params)
			if err != nil {
				fmt.Fprintf(opts.Out, "error: %v\n", err)
				continue
			}
			report(opts.Out, mgr.Push(s), mgr)
		default:
			fmt.Fprintf(opts.Out, "error: unknown command %q (try 'help')\n", cmd)
		}
	}
}

func report(out io.Writer, err error, mgr *strata.Manager) {
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	snap := mgr.Snapshot()
	if snap.Current == "" {
		fmt.Fprintln(out, "ok: stack is empty")
		return
	}
	fmt.Fprintf(out, "ok: %s (depth %d)\n", snap.Current, snap.Depth())
}

func printStack(out io.Writer, snap domain.Snapshot) {
	if snap.Depth() == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	for i := len(snap.States) - 1; i >= 0; i-- {
		marker := "  "
		if i == len(snap.States)-1 {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%d %s\n", marker, i+1, snap.States[i])
	}
}

// parseParams turns "pause" and "key=value" tokens into factory params.
// A bare first token is the state name; values with commas become lists.
func parseParams(tokens []string) (map[string]any, error) {
	params := make(map[string]any)
	for i, tok := range tokens {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			if i != 0 {
				return nil, fmt.Errorf("expected key=value, got %q", tok)
			}
			key, value = "name", tok
		}
		if key == "" {
			return nil, fmt.Errorf("empty key in %q", tok)
		}
		if strings.Contains(value, ",") {
			params[key] = strings.Split(value, ",")
		} else {
			params[key] = value
		}
	}
	return params, nil
}
