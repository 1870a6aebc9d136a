package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/amplify-platform/ampauth/internal/cli/connection"
	"github.com/amplify-platform/ampauth/internal/cli/output"
)

// tokenView mirrors the server's token representation.
type tokenView struct {
	TokenID   string     `json:"token_id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	Scopes    []string   `json:"scopes"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage access tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a new token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "display name",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "scope",
						Aliases: []string{"S"},
						Usage:   "scope to grant (repeatable)",
					},
					&cli.IntFlag{
						Name:  "ttl-days",
						Usage: "days until expiry (omit for no expiry)",
					},
				},
				Action: tokenCreate,
			},
			{
				Name:  "list",
				Usage: "List tokens",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "include-revoked",
						Usage: "include revoked tokens",
					},
				},
				Action: tokenList,
			},
			{
				Name:      "info",
				Usage:     "Show token details",
				ArgsUsage: "TOKEN_ID",
				Action:    tokenInfo,
			},
			{
				Name:      "revoke",
				Usage:     "Revoke a token",
				ArgsUsage: "TOKEN_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "skip confirmation",
					},
				},
				Action: tokenRevoke,
			},
			{
				Name:      "extend",
				Usage:     "Extend a token's expiry",
				ArgsUsage: "TOKEN_ID",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "ttl-days",
						Usage:    "days to add past the current expiry",
						Required: true,
					},
				},
				Action: tokenExtend,
			},
		},
	}
}

func tokenCreate(c *cli.Context) error {
	client := NewAPIClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	body := map[string]any{
		"name":   c.String("name"),
		"scopes": c.StringSlice("scope"),
	}
	if c.IsSet("ttl-days") {
		body["ttl_days"] = c.Int("ttl-days")
	}

	resp, err := client.Post(ctx, "/auth/tokens", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Token      *tokenView `json:"token"`
		Credential string     `json:"credential"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if output.Format(ParseGlobalFlags(c).Output) == output.FormatJSON {
		return output.NewFormatter(output.FormatJSON).Format(c.App.Writer, result)
	}

	fmt.Fprintf(c.App.Writer, "Token created:\n")
	fmt.Fprintf(c.App.Writer, "  ID:         %s\n", result.Token.TokenID)
	fmt.Fprintf(c.App.Writer, "  Name:       %s\n", result.Token.Name)
	fmt.Fprintf(c.App.Writer, "  Scopes:     %s\n", output.FormatScopes(result.Token.Scopes))
	fmt.Fprintf(c.App.Writer, "  Expires:    %s\n", output.FormatTime(result.Token.ExpiresAt))
	fmt.Fprintf(c.App.Writer, "  Credential: %s\n", result.Credential)
	fmt.Fprintf(c.App.Writer, "\nSave the credential now. It cannot be retrieved later.\n")
	return nil
}

func tokenList(c *cli.Context) error {
	client := NewAPIClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	path := "/auth/tokens"
	if c.Bool("include-revoked") {
		path += "?include_revoked=true"
	}

	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Tokens []*tokenView `json:"tokens"`
		Count  int          `json:"count"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if output.Format(ParseGlobalFlags(c).Output) == output.FormatJSON {
		return output.NewFormatter(output.FormatJSON).Format(c.App.Writer, result.Tokens)
	}

	table := &output.Table{
		Headers: []string{"TOKEN ID", "NAME", "STATUS", "SCOPES", "CREATED", "EXPIRES"},
	}
	for _, tok := range result.Tokens {
		created := tok.CreatedAt
		table.AddRow(
			tok.TokenID,
			tok.Name,
			tok.Status,
			output.FormatScopes(tok.Scopes),
			output.FormatTime(&created),
			output.FormatTime(tok.ExpiresAt),
		)
	}
	if err := table.Render(c.App.Writer); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\nTotal: %d tokens\n", result.Count)
	return nil
}

func tokenInfo(c *cli.Context) error {
	tokenID := c.Args().First()
	if tokenID == "" {
		return fmt.Errorf("token ID required")
	}

	client := NewAPIClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	resp, err := client.Get(ctx, "/auth/tokens/"+tokenID)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var view tokenView
	if err := connection.ParseResponse(resp, &view); err != nil {
		return err
	}

	if output.Format(ParseGlobalFlags(c).Output) == output.FormatJSON {
		return output.NewFormatter(output.FormatJSON).Format(c.App.Writer, &view)
	}

	created := view.CreatedAt
	table := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	table.AddRow("token_id", view.TokenID)
	table.AddRow("name", view.Name)
	table.AddRow("status", view.Status)
	table.AddRow("scopes", output.FormatScopes(view.Scopes))
	table.AddRow("created_at", output.FormatTime(&created))
	table.AddRow("expires_at", output.FormatTime(view.ExpiresAt))
	table.AddRow("revoked_at", output.FormatTime(view.RevokedAt))
	return table.Render(c.App.Writer)
}

func tokenRevoke(c *cli.Context) error {
	tokenID := c.Args().First()
	if tokenID == "" {
		return fmt.Errorf("token ID required")
	}

	if !c.Bool("force") {
		fmt.Fprintf(c.App.Writer, "Revocation is permanent. Revoke token '%s'? [y/N]: ", tokenID)
		var confirm string
		fmt.Fscanln(c.App.Reader, &confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Fprintln(c.App.Writer, "Cancelled.")
			return nil
		}
	}

	client := NewAPIClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	resp, err := client.Post(ctx, "/auth/tokens/"+tokenID+"/revoke", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var view tokenView
	if err := connection.ParseResponse(resp, &view); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Token %s revoked.\n", view.TokenID)
	return nil
}

func tokenExtend(c *cli.Context) error {
	tokenID := c.Args().First()
	if tokenID == "" {
		return fmt.Errorf("token ID required")
	}

	client := NewAPIClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	body := map[string]any{"ttl_days": c.Int("ttl-days")}
	resp, err := client.Post(ctx, "/auth/tokens/"+tokenID+"/extend", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var view tokenView
	if err := connection.ParseResponse(resp, &view); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Token %s extended, expires %s.\n",
		view.TokenID, output.FormatTime(view.ExpiresAt))
	return nil
}
