// Package command defines the ampauth-cli commands.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/amplify-platform/ampauth/internal/cli/connection"
	"github.com/amplify-platform/ampauth/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	info := buildinfo.Get()
	return &cli.App{
		Name:    "ampauth-cli",
		Usage:   "ampauth token management tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			TokenCommand(),
			ValidateCommand(),
			StatusCommand(),
		},
	}
}

// globalFlags returns flags shared by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "ampauth server address (e.g. localhost:8080)",
			EnvVars: []string{"AMPAUTH_SERVER"},
			Value:   "localhost:8080",
		},
		&cli.StringFlag{
			Name:    "admin-token",
			Aliases: []string{"t"},
			Usage:   "management bearer token",
			EnvVars: []string{"AMPAUTH_ADMIN_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json",
			Value:   "table",
		},
	}
}

// GlobalFlags carries the parsed shared flags.
type GlobalFlags struct {
	Server     string
	AdminToken string
	Output     string
}

// ParseGlobalFlags extracts the shared flags from the context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:     c.String("server"),
		AdminToken: c.String("admin-token"),
		Output:     c.String("output"),
	}
}

// NewAPIClient builds the HTTP client from the shared flags.
func NewAPIClient(c *cli.Context) *connection.Client {
	flags := ParseGlobalFlags(c)
	return connection.NewClient(flags.Server, flags.AdminToken)
}
