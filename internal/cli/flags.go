package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db-path" description:"Override the SQLite database path"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// AddCommand adds a page to the rotation.
type AddCommand struct {
	URL string `long:"url" description:"URL to add (required)"`

	globals *GlobalFlags
	version string
}

// RemoveCommand deletes a page from the rotation.
type RemoveCommand struct {
	ID int64 `long:"id" description:"Page ID (required)"`

	globals *GlobalFlags
	version string
}

// ListCommand shows all pages and when they were last opened.
type ListCommand struct {
	Never bool `long:"never" description:"Only pages that have never been opened"`

	globals *GlobalFlags
	version string
}

// CronCommand shows or sets the cron expression.
type CronCommand struct {
	Args struct {
		Expression []string `positional-arg-name:"EXPR" description:"New cron expression (quote it or pass five fields)"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// ThemeCommand toggles or forces dark mode.
type ThemeCommand struct {
	Dark  bool `long:"dark" description:"Switch dark mode on"`
	Light bool `long:"light" description:"Switch dark mode off"`

	globals *GlobalFlags
	version string
}

// NextCommand previews the next run and countdown.
type NextCommand struct {
	globals *GlobalFlags
	version string
}

// OpenCommand opens the next page in the rotation now.
type OpenCommand struct {
	globals *GlobalFlags
	version string
}

// RunCommand runs the scheduler in the foreground.
type RunCommand struct {
	Tick      string `long:"tick" description:"Override the scheduler tick (e.g. 1s, 500ms)"`
	Countdown bool   `long:"countdown" description:"Print a live countdown to the next run"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows database stats, settings and the next run.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand deletes ALL pages after a safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
