package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/vk/assetgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// arguments is the kong grammar of the command line.
type arguments struct {
	Config     []string `short:"c" help:"Pipeline HCL file or directory. Repeatable." placeholder:"PATH"`
	Root       string   `short:"C" help:"Project root selectors are resolved against." default:"." placeholder:"DIR"`
	LogLevel   string   `help:"Logging level." enum:"debug,info,warn,error" default:"info"`
	LogFormat  string   `help:"Log output format." enum:"text,json" default:"text"`
	Jobs       int      `short:"j" help:"Number of tasks run at once. 0 means one per CPU." default:"0"`
	ReloadAddr string   `help:"Live-reload listen address, or 'off'. Overrides the livereload block." placeholder:"ADDR"`
	List       bool     `short:"l" help:"List the configured tasks and exit."`
	DryRun     bool     `short:"n" help:"Print the execution plan of TASK without running it."`
	Task       string   `arg:"" optional:"" help:"Task to run." default:"default"`
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var cli arguments
	exited := false
	parser, err := kong.New(&cli,
		kong.Name("assetgrid"),
		kong.Description("Builds the distributable assets of a browser component library."),
		kong.Writers(output, output),
		kong.Exit(func(int) { exited = true }),
	)
	if err != nil {
		return nil, false, fmt.Errorf("building argument parser: %w", err)
	}

	_, err = parser.Parse(args)
	if exited {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	config, err := app.NewConfig(app.Config{
		ConfigPaths: cli.Config,
		Root:        cli.Root,
		Task:        cli.Task,
		LogFormat:   cli.LogFormat,
		LogLevel:    cli.LogLevel,
		Jobs:        cli.Jobs,
		ReloadAddr:  cli.ReloadAddr,
		List:        cli.List,
		DryRun:      cli.DryRun,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
