package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	service "github.com/okian/teamstats/internal/app"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage error")

// Command holds one parsed invocation.
type Command struct {
	Pipeline   service.Pipeline
	Input      string // overrides the configured input when set
	Output     string // overrides the configured output when set
	ConfigPath string // overrides TEAMSTATS_CONFIG when set
	LogLevel   string
	Help       bool
}

// Parse reads a subcommand and its flags from args. Flag errors are
// reported on stderr.
func Parse(args []string, stderr io.Writer) (*Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: missing command", ErrUsage)
	}
	if isHelp(args[0]) {
		return &Command{Help: true}, nil
	}

	p, err := service.ParsePipeline(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cmd := &Command{Pipeline: p}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cmd.Input, "input", "", "Source CSV file (default from config)")
	fs.StringVar(&cmd.Output, "output", "", "Destination JSON file (default from config)")
	fs.StringVar(&cmd.ConfigPath, "config", "", "YAML config file (default $TEAMSTATS_CONFIG)")
	fs.StringVar(&cmd.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&cmd.Help, "help", false, "Show help")
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &Command{Help: true}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrUsage, fs.Args())
	}
	return cmd, nil
}

func isHelp(arg string) bool {
	switch arg {
	case "help", "-h", "-help", "--help":
		return true
	}
	return false
}
