package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sourcerer/internal/agent"
	"sourcerer/internal/session"
)

// askCmd answers a single question without starting the chat loop.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question from the knowledge base",
	Long: `Runs one query through the lookup pipeline and prints the answer.
A throwaway session is created for the turn; nothing is persisted.

Example:
  sourcerer ask "tell me about dogs"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		index, err := buildIndex(cmd.Context())
		if err != nil {
			return err
		}

		state := session.New()
		ctx := session.NewContext(cmd.Context(), state)

		resp := agent.New(index).Respond(ctx, query)
		if len(resp.Matches) > 0 {
			fmt.Println(summaryStyle.Render(agent.SummaryLine(resp.Summary)))
		}
		fmt.Println(resp.Answer)
		return nil
	},
}
