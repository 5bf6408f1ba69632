package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"egolens/internal/logging"
)

// DefaultLoadWorkers bounds the parallel log-file decode pool.
const DefaultLoadWorkers = 8

// Load reads a single dialogue log file. The file may contain either a
// wrapped object {"dialogue_id": ..., "events": [...]} or a bare event
// array, in which case the dialogue ID is derived from the filename.
func Load(path string) (*Dialogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialogue log: %w", err)
	}

	var d Dialogue
	if err := json.Unmarshal(data, &d); err == nil && len(d.Events) > 0 {
		if d.DialogueID == "" {
			d.DialogueID = idFromFilename(path)
		}
		return &d, nil
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode dialogue log %s: %w", filepath.Base(path), err)
	}
	return &Dialogue{DialogueID: idFromFilename(path), Events: events}, nil
}

// LoadDir discovers and decodes every *.json dialogue log under dir, in
// parallel. Files that fail to decode are logged and skipped; one bad
// log must not sink the batch. Results are keyed by dialogue ID.
func LoadDir(dir string) (map[string]*Dialogue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	logger := logging.New("trace")
	var mu sync.Mutex
	dialogues := make(map[string]*Dialogue, len(paths))

	var g errgroup.Group
	g.SetLimit(DefaultLoadWorkers)
	for _, path := range paths {
		g.Go(func() error {
			d, err := Load(path)
			if err != nil {
				logger.Warn("skipping unreadable dialogue log", "path", path, "error", err)
				return nil
			}
			mu.Lock()
			dialogues[d.DialogueID] = d
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("loaded dialogue logs", "dir", dir, "files", len(paths), "dialogues", len(dialogues))
	return dialogues, nil
}

// idFromFilename strips the extension and a leading "dialogue-" prefix.
func idFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimPrefix(base, "dialogue-")
}
