package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sourcerer/internal/knowledge"
	"sourcerer/internal/store"
)

// kbCmd groups knowledge base maintenance commands.
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect and manage the knowledge base",
}

var (
	kbListStored bool
	kbListTopic  string
)

// kbListCmd summarizes the loaded sources.
var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded sources and their topics",
	Long: `Lists the records in the knowledge base with their topics and
references. By default records come from the sources directory;
--stored reads the SQLite store instead (see "kb ingest"), and --topic
filters either view by topic prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := listRecords(cmd.Context(), kbListStored, kbListTopic)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			if kbListStored {
				fmt.Println("No records in the store.")
			} else {
				fmt.Printf("No sources found in %s\n", cfg.Knowledge.SourcesPath)
			}
			return nil
		}

		matches := make([]knowledge.Match, len(records))
		for i, rec := range records {
			matches[i] = knowledge.Match{Record: rec}
		}
		summary := knowledge.Summarize(matches)

		fmt.Printf("Sources: %d (%d URLs, %d documents)\n",
			summary.Total, summary.URLSources, summary.TitleSources)
		if len(summary.Topics) > 0 {
			fmt.Printf("Topics:  %s\n", strings.Join(summary.Topics, ", "))
		}

		for i, rec := range records {
			label := rec.Topic
			if label == "" {
				label = truncate(rec.Content, 60)
			}
			fmt.Printf("[%d] %s", i+1, label)
			if rec.HasSource() {
				fmt.Printf(" (%s)", rec.Source)
			}
			fmt.Println()
		}
		return nil
	},
}

// listRecords resolves the records for "kb list": the SQLite store
// when stored is set, the sources directory otherwise, optionally
// narrowed by topic prefix.
func listRecords(ctx context.Context, stored bool, topicPrefix string) ([]knowledge.Record, error) {
	if stored {
		st, err := store.NewLocalStore(cfg.Store.DatabasePath)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		if topicPrefix != "" {
			return st.RecordsByTopicPrefix(topicPrefix)
		}
		return st.AllRecords()
	}

	records, err := knowledge.LoadDir(ctx, cfg.Knowledge.SourcesPath)
	if err != nil {
		return nil, err
	}
	if topicPrefix == "" {
		return records, nil
	}
	filtered := records[:0]
	for _, rec := range records {
		if strings.HasPrefix(rec.Topic, topicPrefix) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// kbSearchCmd runs a lookup and prints the ranked matches.
var kbSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base and show ranked matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		index, err := buildIndex(cmd.Context())
		if err != nil {
			return err
		}

		matches := index.Search(query)
		if len(matches) == 0 {
			fmt.Printf("No matches for %q\n", query)
			return nil
		}

		for i, m := range matches {
			fmt.Printf("[%d] score=%.2f terms=%s\n", i+1, m.Score,
				strings.Join(m.MatchedTerms, ","))
			fmt.Printf("    %s\n", truncate(m.Record.Content, 100))
			if m.Record.HasSource() {
				fmt.Printf("    source: %s\n", m.Record.Source)
			}
		}
		return nil
	},
}

// kbIngestCmd copies the source files into the SQLite store.
var kbIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Persist the source records into the local store",
	Long: `Loads every record from the sources directory and writes it to the
SQLite store. Re-running is safe: records are deduplicated by content
hash, so only new records are counted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := knowledge.LoadDir(cmd.Context(), cfg.Knowledge.SourcesPath)
		if err != nil {
			return err
		}

		st, err := store.NewLocalStore(cfg.Store.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		inserted, err := st.StoreRecords(records)
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %d records (%d new)\n", len(records), inserted)
		return nil
	},
}

// truncate shortens s to max runes, never splitting a multibyte rune.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func init() {
	kbListCmd.Flags().BoolVar(&kbListStored, "stored", false, "List records from the SQLite store instead of the sources directory")
	kbListCmd.Flags().StringVar(&kbListTopic, "topic", "", "Only list records whose topic has this prefix")
	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbSearchCmd)
	kbCmd.AddCommand(kbIngestCmd)
}
