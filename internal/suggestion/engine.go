package suggestion

import (
	"tasktrack/pkg/types"
)

// DefaultSimilarityThreshold is the combined score a corpus task must reach
// to be suggested. Raising it tightens the match.
const DefaultSimilarityThreshold = 0.7

// Config represents engine configuration
type Config struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{SimilarityThreshold: DefaultSimilarityThreshold}
}

// Engine selects existing tasks similar to a new one by averaging title and
// description cosine similarity.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the default threshold
func NewEngine() *Engine {
	return &Engine{config: DefaultConfig()}
}

// NewEngineWithConfig creates an engine with custom config
func NewEngineWithConfig(config Config) *Engine {
	return &Engine{config: config}
}

// SimilarTasks returns the subsequence of existing tasks, in corpus order,
// whose combined similarity to the new task meets the threshold. The
// selection is unranked and unbounded. An empty corpus yields nil without
// invoking the scorer.
func (e *Engine) SimilarTasks(existing []types.Task, in types.TaskInput) []types.Task {
	if len(existing) == 0 {
		return nil
	}

	titles := make([]string, len(existing))
	descriptions := make([]string, len(existing))
	for i, task := range existing {
		titles[i] = Normalize(task.Title)
		descriptions[i] = Normalize(task.Description)
	}

	titleScores := Scores(titles, Normalize(in.Title))
	descriptionScores := Scores(descriptions, Normalize(in.Description))

	var similar []types.Task
	for i := range existing {
		combined := (titleScores[i] + descriptionScores[i]) / 2
		if combined >= e.config.SimilarityThreshold {
			similar = append(similar, existing[i])
		}
	}
	return similar
}
