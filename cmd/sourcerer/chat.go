package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sourcerer/internal/agent"
	"sourcerer/internal/config"
	"sourcerer/internal/knowledge"
	"sourcerer/internal/logging"
	"sourcerer/internal/session"
	"sourcerer/internal/store"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stateStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// =============================================================================
// INTERACTIVE CHAT LOOP
// =============================================================================

// chatLoop is the interactive read-eval-print loop. It owns the session
// state for its lifetime and passes it to the agent through context. The
// store is optional; when nil, turns are not persisted.
type chatLoop struct {
	cfg   *config.Config
	agent *agent.Agent
	state *session.State
	store *store.LocalStore
	in    io.Reader
	out   io.Writer
}

func newChatLoop(cfg *config.Config, ag *agent.Agent, st *store.LocalStore, in io.Reader, out io.Writer) *chatLoop {
	return &chatLoop{
		cfg:   cfg,
		agent: ag,
		state: session.New(),
		store: st,
		in:    in,
		out:   out,
	}
}

// run reads queries until the exit token or EOF. The exit token
// terminates the loop directly; it never reaches the agent and leaves
// no trace in the session state.
func (c *chatLoop) run(ctx context.Context) error {
	ctx = session.NewContext(ctx, c.state)
	scanner := bufio.NewScanner(c.in)

	fmt.Fprintf(c.out, "Research assistant ready. Type %q to quit.\n\n", c.cfg.Session.ExitToken)

	for {
		fmt.Fprint(c.out, promptStyle.Render("You:")+" ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		if c.isExitToken(line) {
			logging.Loop("Exit token received after %d turns", len(c.state.Turns))
			fmt.Fprintln(c.out, "Goodbye.")
			break
		}

		c.turn(ctx, line)
	}

	return scanner.Err()
}

// isExitToken reports whether line terminates the loop. The configured
// token and the short aliases all work; none of them reach the agent.
func (c *chatLoop) isExitToken(line string) bool {
	switch strings.TrimSpace(line) {
	case c.cfg.Session.ExitToken, "quit", "q":
		return true
	}
	return false
}

// turn runs one query through the agent, prints the response, and
// persists the completed turn.
func (c *chatLoop) turn(ctx context.Context, query string) {
	resp := c.agent.Respond(ctx, query)

	if len(resp.Matches) > 0 {
		fmt.Fprintln(c.out, summaryStyle.Render(agent.SummaryLine(resp.Summary)))
	}
	if resp.Err != "" {
		fmt.Fprintln(c.out, errorStyle.Render(resp.Answer))
	} else {
		fmt.Fprintln(c.out, resp.Answer)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, renderState(c.state, c.cfg.Session.HistoryDisplayLimit))
	fmt.Fprintln(c.out)

	if c.store != nil {
		if last, ok := c.state.LastTurn(); ok {
			if err := c.store.StoreTurn(c.state, last); err != nil {
				logging.Store("Failed to persist turn %d: %v", last.Number, err)
			}
		}
	}
}

// renderState formats the CURRENT STATE block shown after every turn:
// the session id, the turn history, and the cumulative sources-seen
// count. limit caps how many recent queries are listed (0 = all).
func renderState(state *session.State, limit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CURRENT STATE\n")
	fmt.Fprintf(&b, "Session:      %s\n", state.ID)
	fmt.Fprintf(&b, "Turns:        %d\n", len(state.Turns))
	fmt.Fprintf(&b, "Sources seen: %d\n", state.SourcesSeen)

	queries := state.Queries()
	if limit > 0 && len(queries) > limit {
		queries = queries[len(queries)-limit:]
	}
	if len(queries) > 0 {
		b.WriteString("History:")
		for _, q := range queries {
			fmt.Fprintf(&b, "\n  - %s", q)
		}
	}

	return stateStyle.Render(b.String())
}

// runChat builds the index and store from config and starts the
// interactive loop on stdin/stdout.
func runChat(ctx context.Context) error {
	index, err := buildIndex(ctx)
	if err != nil {
		return err
	}
	if index.Len() == 0 {
		fmt.Printf("Warning: no sources loaded from %s\n", cfg.Knowledge.SourcesPath)
	}

	var watcher *knowledge.Watcher
	if cfg.Knowledge.HotReload {
		watcher, err = knowledge.NewWatcher(cfg.Knowledge.SourcesPath, index)
		if err != nil {
			logging.Knowledge("Hot reload unavailable: %v", err)
		} else if err := watcher.Start(ctx); err != nil {
			logging.Knowledge("Failed to start sources watcher: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	st, err := store.NewLocalStore(cfg.Store.DatabasePath)
	if err != nil {
		logging.Store("Persistence disabled: %v", err)
		st = nil
	} else {
		defer st.Close()
	}

	loop := newChatLoop(cfg, agent.New(index), st, os.Stdin, os.Stdout)
	return loop.run(ctx)
}
