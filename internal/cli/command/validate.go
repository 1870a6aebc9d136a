package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/amplify-platform/ampauth/internal/cli/connection"
	"github.com/amplify-platform/ampauth/internal/cli/output"
)

// ValidateCommand returns the validate command. It exercises the same
// endpoint services call, which makes it handy for smoke-testing a
// freshly issued credential.
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a credential",
		ArgsUsage: "CREDENTIAL",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "scope",
				Aliases: []string{"S"},
				Usage:   "required scope (repeatable)",
			},
		},
		Action: validateCredential,
	}
}

func validateCredential(c *cli.Context) error {
	credential := c.Args().First()
	if credential == "" {
		return fmt.Errorf("credential required")
	}

	client := NewAPIClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	body := map[string]any{
		"credential":      credential,
		"required_scopes": c.StringSlice("scope"),
	}
	resp, err := client.Post(ctx, "/auth/validate", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var verdict struct {
		Valid   bool     `json:"valid"`
		Error   string   `json:"error"`
		TokenID string   `json:"token_id"`
		Name    string   `json:"name"`
		Scopes  []string `json:"scopes"`
	}
	if err := connection.ParseResponse(resp, &verdict); err != nil {
		return err
	}

	if output.Format(ParseGlobalFlags(c).Output) == output.FormatJSON {
		return output.NewFormatter(output.FormatJSON).Format(c.App.Writer, verdict)
	}

	if !verdict.Valid {
		fmt.Fprintf(c.App.Writer, "DENIED (%s)\n", verdict.Error)
		return cli.Exit("", 1)
	}

	fmt.Fprintf(c.App.Writer, "VALID\n")
	fmt.Fprintf(c.App.Writer, "  Token:  %s\n", verdict.TokenID)
	fmt.Fprintf(c.App.Writer, "  Name:   %s\n", verdict.Name)
	fmt.Fprintf(c.App.Writer, "  Scopes: %s\n", output.FormatScopes(verdict.Scopes))
	return nil
}
