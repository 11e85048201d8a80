package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Add    *AddCommand
	Remove *RemoveCommand
	List   *ListCommand
	Cron   *CronCommand
	Theme  *ThemeCommand
	Next   *NextCommand
	Open   *OpenCommand
	Run    *RunCommand
	Status *StatusCommand
	Purge  *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "pageopener"
	parser.LongDescription = "Opens your saved pages one at a time on a cron schedule, least recently opened first."

	cmds := &commands{
		Add:    &AddCommand{globals: &globals, version: version},
		Remove: &RemoveCommand{globals: &globals, version: version},
		List:   &ListCommand{globals: &globals, version: version},
		Cron:   &CronCommand{globals: &globals, version: version},
		Theme:  &ThemeCommand{globals: &globals, version: version},
		Next:   &NextCommand{globals: &globals, version: version},
		Open:   &OpenCommand{globals: &globals, version: version},
		Run:    &RunCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("add", "Add a page", "Add a URL to the rotation. It will be opened before any page that has been opened already.", cmds.Add)
	parser.AddCommand("remove", "Remove a page", "Remove a page from the rotation by its ID.", cmds.Remove)
	parser.AddCommand("list", "List pages", "List all pages with the time each was last opened.", cmds.List)
	parser.AddCommand("cron", "Show or set the schedule", "Show the cron expression, or set it when EXPR is given. Invalid expressions are stored but never fire.", cmds.Cron)
	parser.AddCommand("theme", "Toggle dark mode", "Toggle dark mode, or force it with --dark or --light.", cmds.Theme)
	parser.AddCommand("next", "Show the next run", "Show when the next page will be opened and how long until then.", cmds.Next)
	parser.AddCommand("open", "Open the next page now", "Open the next page in the rotation immediately and record the visit.", cmds.Open)
	parser.AddCommand("run", "Run the scheduler", "Run the scheduler in the foreground until interrupted.", cmds.Run)
	parser.AddCommand("status", "Show status", "Show database statistics, settings and the next run.", cmds.Status)
	parser.AddCommand("purge", "Delete ALL pages", "Delete ALL pages. Settings are kept. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the pageopener CLI using os.Args.
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
			fmt.Printf("pageopener %s\n", version)
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
