package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/config"
	"github.com/linkly-app/linkly-cli/internal/session"
)

// loggedInClient restores the saved session and builds a client around it.
func loggedInClient() (*api.Client, *session.Session, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("not logged in: %w", err)
	}
	sess := session.FromConfig(cfg)
	return api.NewClient(cfg.BaseURLOrDefault(api.DefaultBaseURL), sess), sess, cfg, nil
}

// anonymousClient talks to the configured server without credentials.
func anonymousClient() (*api.Client, *config.Config) {
	cfg := config.ReadOrDefault()
	return api.NewClient(cfg.BaseURLOrDefault(api.DefaultBaseURL), nil), cfg
}

func prompt(r *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks a y/N question; anything but y/yes declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	answer := strings.ToLower(prompt(bufio.NewReader(in), out, question+" [y/N]"))
	return answer == "y" || answer == "yes"
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// optionalID turns a 0 flag value into "no category".
func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
