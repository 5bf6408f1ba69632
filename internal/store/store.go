// Package store persists per-dialogue evaluation metadata: the join key
// between the relational results and the on-disk dialogue logs. The
// analysis pipeline reads results by run; scores and profile labels come
// from the external evaluation harness that wrote the rows.
package store

// DefaultDBPath is the default relative path for the SQLite DB.
const DefaultDBPath = ".egolens/evaluations.db"

// Result is one dialogue's evaluation metadata row.
type Result struct {
	ID          int64
	RunID       string
	DialogueID  string
	ProfileName string
	ScenarioID  string
	Score       float64
	JudgeModel  string
	Rounds      int
	CreatedAt   string
}

// Store is the persistence facade over evaluation results. The pipeline
// and CLI use only this interface; the implementation is SQLite or
// in-memory.
type Store interface {
	SaveResult(r *Result) (id int64, err error)
	GetResult(id int64) (*Result, error)
	ListResultsByRun(runID string) ([]*Result, error)
	ListRuns() ([]string, error)
	Close() error
}
