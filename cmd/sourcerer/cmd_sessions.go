package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sourcerer/internal/store"
)

// sessionsCmd lists persisted sessions or shows one session's history.
var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List persisted sessions or show one session's turns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewLocalStore(cfg.Store.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			return showSession(st, args[0])
		}

		sessions, err := st.ListSessions()
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}

		for _, s := range sessions {
			fmt.Printf("%s  turns=%d  started=%s\n",
				s.ID, s.Turns, s.StartedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func showSession(st *store.LocalStore, sessionID string) error {
	turns, err := st.SessionHistory(sessionID, 0)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		fmt.Printf("No turns recorded for session %s\n", sessionID)
		return nil
	}

	for _, t := range turns {
		fmt.Printf("[%d] %s\n", t.TurnNumber, t.Query)
		if len(t.Sources) > 0 {
			fmt.Printf("    sources: %s\n", strings.Join(t.Sources, ", "))
		}
		fmt.Printf("    sources seen: %d\n", t.SourcesSeen)
	}
	return nil
}

// statsCmd prints store and knowledge base counters.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base and store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := buildIndex(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Indexed records:   %d\n", index.Len())

		st, err := store.NewLocalStore(cfg.Store.DatabasePath)
		if err != nil {
			fmt.Println("Store unavailable:", err)
			return nil
		}
		defer st.Close()

		stats, err := st.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("Stored records:    %d\n", stats["knowledge_records"])
		fmt.Printf("Stored turns:      %d\n", stats["session_history"])

		sessions, err := st.ListSessions()
		if err != nil {
			return err
		}
		fmt.Printf("Stored sessions:   %d\n", len(sessions))
		return nil
	},
}
