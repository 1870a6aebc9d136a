package command

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/amplify-platform/ampauth/internal/cli/connection"
	"github.com/amplify-platform/ampauth/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server health",
		Action: systemStatus,
	}
}

func systemStatus(c *cli.Context) error {
	client := NewAPIClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	// A degraded server answers 503 with the same health body, so the
	// envelope is unwrapped here rather than through ParseResponse.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return connection.ParseResponse(resp, nil)
	}
	defer resp.Body.Close()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	var result struct {
		Status     string          `json:"status"`
		Components map[string]bool `json:"components"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return fmt.Errorf("parse response data: %w", err)
	}

	if output.Format(ParseGlobalFlags(c).Output) == output.FormatJSON {
		return output.NewFormatter(output.FormatJSON).Format(c.App.Writer, result)
	}

	fmt.Fprintf(c.App.Writer, "Server:  %s\n", client.BaseURL())
	fmt.Fprintf(c.App.Writer, "Status:  %s\n", result.Status)
	table := &output.Table{Headers: []string{"COMPONENT", "HEALTHY"}}
	for _, name := range []string{"database", "cache", "command_processor"} {
		table.AddRow(name, fmt.Sprintf("%t", result.Components[name]))
	}
	return table.Render(c.App.Writer)
}
