// Package console provides an interactive inspector for a loaded system.
// It never starts anything: the manifest is loaded, the system is built and
// validated, and the console answers questions about the resulting graph
// (keys, start order, dependency edges) with readline completion over the
// component keys.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ensemble/internal/formatting"
	"ensemble/internal/manifest"
	"ensemble/pkg/system"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/text"
)

// errExit signals a clean exit from the command loop.
var errExit = errors.New("exit")

// Console is the interactive inspector session.
type Console struct {
	sys *system.System
	m   *manifest.Manifest
	out io.Writer
}

// New creates a console over a built system and the manifest it came from.
func New(sys *system.System, m *manifest.Manifest) *Console {
	return &Console{sys: sys, m: m, out: os.Stdout}
}

// Run enters the interactive loop until EOF, interrupt or the exit command.
func (c *Console) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            fmt.Sprintf("%s %s ", text.FgHiCyan.Sprint(c.m.Name), "»"),
		HistoryFile:       filepath.Join(os.TempDir(), ".ensemble_console_history"),
		AutoComplete:      c.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(c.out, "Inspecting system %q (%d components). Type 'help' for commands, TAB completes.\n\n", c.m.Name, len(c.sys.Keys()))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := c.execute(input); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(c.out, "%s %v\n", text.FgRed.Sprint("Error:"), err)
		}
		fmt.Fprintln(c.out)
	}
}

// execute parses and dispatches one command line.
func (c *Console) execute(input string) error {
	parts := strings.Fields(input)
	name := strings.ToLower(parts[0])
	args := parts[1:]

	if name == "?" {
		name = "help"
	}

	switch name {
	case "help":
		return c.cmdHelp()
	case "list", "ls":
		return c.cmdList()
	case "order":
		return c.cmdOrder(args)
	case "deps":
		return c.cmdDeps(args)
	case "rdeps":
		return c.cmdRdeps(args)
	case "show":
		return c.cmdShow(args)
	case "exit", "quit":
		return errExit
	default:
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}
}

func (c *Console) cmdHelp() error {
	help := [][2]string{
		{"list", "components with their types and dependencies"},
		{"order [--reverse]", "computed start order (reversed: stop order)"},
		{"deps <key>", "direct dependencies of a component"},
		{"rdeps <key>", "components that depend on a component"},
		{"show <key>", "everything known about one component"},
		{"help", "this text"},
		{"exit", "leave the console"},
	}
	for _, entry := range help {
		fmt.Fprintf(c.out, "  %-20s %s\n", text.FgHiCyan.Sprint(entry[0]), entry[1])
	}
	return nil
}

func (c *Console) cmdList() error {
	return formatting.WriteList(c.out, formatting.FormatTable, c.rows())
}

func (c *Console) cmdOrder(args []string) error {
	order := c.sys.Order()
	if len(args) > 0 && args[0] == "--reverse" {
		reversed := make([]string, 0, len(order))
		for i := len(order) - 1; i >= 0; i-- {
			reversed = append(reversed, order[i])
		}
		order = reversed
		return formatting.WriteOrder(c.out, formatting.FormatTable, formatting.OrderView{
			System: c.m.Name,
			Order:  order,
		})
	}
	return formatting.WriteOrder(c.out, formatting.FormatTable, formatting.OrderView{
		System: c.m.Name,
		Order:  order,
		Levels: c.sys.Levels(),
	})
}

func (c *Console) cmdDeps(args []string) error {
	key, err := c.keyArg(args)
	if err != nil {
		return err
	}
	deps := c.sys.DependenciesOf(key)
	if len(deps) == 0 {
		fmt.Fprintf(c.out, "%s depends on nothing\n", key)
		return nil
	}
	fmt.Fprintf(c.out, "%s depends on: %s\n", key, strings.Join(deps, ", "))
	return nil
}

func (c *Console) cmdRdeps(args []string) error {
	key, err := c.keyArg(args)
	if err != nil {
		return err
	}
	dependents := c.sys.DependentsOf(key)
	if len(dependents) == 0 {
		fmt.Fprintf(c.out, "nothing depends on %s\n", key)
		return nil
	}
	fmt.Fprintf(c.out, "depended on by: %s\n", strings.Join(dependents, ", "))
	return nil
}

func (c *Console) cmdShow(args []string) error {
	key, err := c.keyArg(args)
	if err != nil {
		return err
	}
	spec := c.m.Components[key]
	position := 0
	for i, k := range c.sys.Order() {
		if k == key {
			position = i + 1
			break
		}
	}

	fmt.Fprintf(c.out, "%s %s\n", text.FgHiCyan.Sprint("Key:"), key)
	fmt.Fprintf(c.out, "%s %s\n", text.FgHiCyan.Sprint("Type:"), spec.Type)
	fmt.Fprintf(c.out, "%s %d of %d\n", text.FgHiCyan.Sprint("Start position:"), position, len(c.sys.Order()))
	fmt.Fprintf(c.out, "%s %s\n", text.FgHiCyan.Sprint("Depends on:"), orDash(c.sys.DependenciesOf(key)))
	fmt.Fprintf(c.out, "%s %s\n", text.FgHiCyan.Sprint("Depended on by:"), orDash(c.sys.DependentsOf(key)))
	if len(spec.Args) > 0 {
		argKeys := make([]string, 0, len(spec.Args))
		for argKey := range spec.Args {
			argKeys = append(argKeys, argKey)
		}
		sort.Strings(argKeys)
		fmt.Fprintf(c.out, "%s\n", text.FgHiCyan.Sprint("Args:"))
		for _, argKey := range argKeys {
			fmt.Fprintf(c.out, "  %s: %v\n", argKey, spec.Args[argKey])
		}
	}
	return nil
}

func (c *Console) keyArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one component key")
	}
	if _, err := c.sys.Get(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

func (c *Console) rows() []formatting.ComponentRow {
	position := make(map[string]int, len(c.sys.Order()))
	for i, key := range c.sys.Order() {
		position[key] = i + 1
	}

	rows := make([]formatting.ComponentRow, 0, len(c.m.Components))
	for _, key := range c.m.Keys() {
		spec := c.m.Components[key]
		rows = append(rows, formatting.ComponentRow{
			Key:          key,
			Type:         spec.Type,
			Dependencies: c.sys.DependenciesOf(key),
			Position:     position[key],
			State:        string(c.sys.State()),
		})
	}
	return rows
}

// completer offers top-level commands, with component keys completing the
// commands that take one.
func (c *Console) completer() *readline.PrefixCompleter {
	keys := func(string) []string { return c.sys.Keys() }
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("list"),
		readline.PcItem("order", readline.PcItem("--reverse")),
		readline.PcItem("deps", readline.PcItemDynamic(keys)),
		readline.PcItem("rdeps", readline.PcItemDynamic(keys)),
		readline.PcItem("show", readline.PcItemDynamic(keys)),
		readline.PcItem("exit"),
	)
}

func orDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
