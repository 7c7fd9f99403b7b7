package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/bridge/config"
	"github.com/user-none/snowbridge/hostif"
)

// CLI holds the command line flags shared by every host entry point.
type CLI struct {
	BootROM string `name:"bootrom" default:"/rom" help:"Path to the boot ROM" placeholder:"PATH"`
	Config  string `name:"config" help:"Path to a JSON config file" placeholder:"PATH"`
}

// ParseCLI parses args into a CLI.
func ParseCLI(name string, args []string) (*CLI, error) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(name),
		kong.Description("Host bridge for a tick-driven Macintosh emulator core"),
		kong.UsageOnError(),
	)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &cli, nil
}

// Load reads the ROM and the configuration named by the flags. Config
// corrections are logged as warnings.
func (c *CLI) Load(logger *slog.Logger) ([]byte, *config.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, problems, err := config.Load(c.Config)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range problems {
		logger.Warn("invalid config value replaced with default", "problem", p)
	}

	rom, err := os.ReadFile(c.BootROM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read ROM: %w", err)
	}
	return rom, cfg, nil
}

// Run parses args, builds a Runner over p and runs it until the core
// stops or ctx is done.
func Run(ctx context.Context, name string, args []string, factory emucore.CoreFactory, p hostif.Primitives) error {
	cli, err := ParseCLI(name, args)
	if err != nil {
		return err
	}
	rom, cfg, err := cli.Load(slog.Default())
	if err != nil {
		return err
	}

	r, err := NewRunner(factory, p, rom, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Run(ctx)
}
