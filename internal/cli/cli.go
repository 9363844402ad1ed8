package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Track  *TrackCommand
	Stats  *StatsCommand
	Status *StatusCommand
	Prune  *PruneCommand
	Clear  *ClearCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "dwell"
	parser.LongDescription = "Local per-domain browsing time tracking with daily reports."

	cmds := &commands{
		Track:  &TrackCommand{globals: &globals, version: version},
		Stats:  &StatsCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Prune:  &PruneCommand{globals: &globals, version: version},
		Clear:  &ClearCommand{globals: &globals, version: version},
	}

	parser.AddCommand("track", "Run the tracking daemon", "Run the tracking daemon the browser extension streams tab events to.", cmds.Track)
	parser.AddCommand("stats", "Show a day's per-domain report", "Show browsing time per domain for one day, ranked by total time.", cmds.Stats)
	parser.AddCommand("status", "Show database statistics", "Show database statistics, totals, and daemon liveness.", cmds.Status)
	parser.AddCommand("prune", "Delete visits past retention", "Delete visits older than the configured retention window.", cmds.Prune)
	parser.AddCommand("clear", "Delete ALL recorded visits", "Delete ALL recorded visits. Destructive operation with safety prompt.", cmds.Clear)

	return parser, &globals, cmds
}

// Run is the main entry point for the dwell CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("dwell %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
