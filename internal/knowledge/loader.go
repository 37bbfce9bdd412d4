package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sourcerer/internal/logging"
)

// recordSeparator splits a sources file into record blocks.
const recordSeparator = "\n---\n"

// loadParallelism bounds concurrent source-file reads in LoadDir.
const loadParallelism = 4

// ParseRecords parses raw sources-file text into records. Blocks are
// separated by a line containing only "---". Within a block, lines
// prefixed CONTENT:, URL:, TITLE:, TOPIC:, or TAGS: are structured
// fields; a block with no CONTENT: line uses its whole text as content.
// Empty blocks are skipped.
func ParseRecords(data string) []Record {
	now := time.Now()
	var records []Record

	for _, block := range strings.Split(data, recordSeparator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		rec := Record{CreatedAt: now}
		var plain []string
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "CONTENT:"):
				rec.Content = strings.TrimSpace(strings.TrimPrefix(line, "CONTENT:"))
			case strings.HasPrefix(line, "URL:"):
				rec.Source = strings.TrimSpace(strings.TrimPrefix(line, "URL:"))
				rec.Kind = SourceURL
			case strings.HasPrefix(line, "TITLE:"):
				rec.Source = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
				rec.Kind = SourceTitle
			case strings.HasPrefix(line, "TOPIC:"):
				rec.Topic = strings.TrimSpace(strings.TrimPrefix(line, "TOPIC:"))
			case strings.HasPrefix(line, "TAGS:"):
				for _, tag := range strings.Split(strings.TrimPrefix(line, "TAGS:"), ",") {
					if tag = strings.TrimSpace(tag); tag != "" {
						rec.Tags = append(rec.Tags, tag)
					}
				}
			default:
				if line != "" {
					plain = append(plain, line)
				}
			}
		}

		if rec.Content == "" {
			rec.Content = strings.Join(plain, "\n")
		}
		if rec.Content == "" {
			continue
		}
		records = append(records, rec)
	}

	return records
}

// LoadFile loads all records from a single sources file.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}

	records := ParseRecords(string(data))
	logging.KnowledgeDebug("Loaded %d records from %s", len(records), path)
	return records, nil
}

// LoadDir loads every *.txt file under dir concurrently and returns
// the combined records in deterministic (filename, block) order.
// A missing directory yields an empty knowledge base, not an error.
func LoadDir(ctx context.Context, dir string) ([]Record, error) {
	timer := logging.StartTimer(logging.CategoryKnowledge, "LoadDir")
	defer timer.Stop()

	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob sources dir %s: %w", dir, err)
	}
	if len(paths) == 0 {
		logging.Knowledge("No source files found under %s", dir)
		return nil, nil
	}
	sort.Strings(paths)

	perFile := make([][]Record, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadParallelism)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := LoadFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			perFile[i] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Record
	for _, records := range perFile {
		all = append(all, records...)
	}

	logging.Knowledge("Loaded %d records from %d files under %s", len(all), len(paths), dir)
	return all, nil
}
