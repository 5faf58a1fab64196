package materializer

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StepResult records the outcome of one materialization step.
type StepResult struct {
	Name     string        `json:"name" yaml:"name"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Result describes a materialization run.
type Result struct {
	RunID        string        `json:"runId" yaml:"runId"`
	AppName      string        `json:"appName" yaml:"appName"`
	Target       string        `json:"target" yaml:"target"`
	WorkflowFile string        `json:"workflowFile" yaml:"workflowFile"`
	Files        []string      `json:"files" yaml:"files"`
	Size         int64         `json:"sizeBytes" yaml:"sizeBytes"`
	Replacements int           `json:"replacements" yaml:"replacements"`
	Overwritten  bool          `json:"overwritten" yaml:"overwritten"`
	Checksums    string        `json:"checksums,omitempty" yaml:"checksums,omitempty"`
	Steps        []StepResult  `json:"steps" yaml:"steps"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
	Success      bool          `json:"success" yaml:"success"`

	startedAt time.Time
	sizes     map[string]int64
}

// NewResult creates an empty result for appName with a fresh run ID.
func NewResult(appName string) *Result {
	return &Result{
		RunID:     uuid.New().String(),
		AppName:   appName,
		Files:     []string{},
		Steps:     []StepResult{},
		startedAt: time.Now(),
		sizes:     map[string]int64{},
	}
}

// AddFile records a written file. Rewriting a file already recorded
// replaces its size instead of adding a second entry.
func (r *Result) AddFile(path string, size int64) {
	if old, ok := r.sizes[path]; ok {
		r.Size += size - old
		r.sizes[path] = size
		return
	}
	r.sizes[path] = size
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddStep records a completed step.
func (r *Result) AddStep(name string, d time.Duration) {
	r.Steps = append(r.Steps, StepResult{Name: name, Duration: d})
}

// MarkSuccess finalizes the result.
func (r *Result) MarkSuccess() {
	r.Duration = time.Since(r.startedAt)
	r.Success = true
}

// GeneratedAt returns the start time of the run in RFC3339 format.
func (r *Result) GeneratedAt() string {
	return r.startedAt.UTC().Format(time.RFC3339)
}

// TotalFiles returns the number of distinct files written.
func (r *Result) TotalFiles() int {
	return len(r.Files)
}

// rebase rewrites recorded paths under oldRoot to live under newRoot.
func (r *Result) rebase(oldRoot, newRoot string) {
	prefix := oldRoot + string(filepath.Separator)
	sizes := make(map[string]int64, len(r.sizes))
	for i, f := range r.Files {
		moved := f
		if f == oldRoot {
			moved = newRoot
		} else if strings.HasPrefix(f, prefix) {
			moved = filepath.Join(newRoot, strings.TrimPrefix(f, prefix))
		}
		sizes[moved] = r.sizes[f]
		r.Files[i] = moved
	}
	r.sizes = sizes

	if strings.HasPrefix(r.Checksums, prefix) {
		r.Checksums = filepath.Join(newRoot, strings.TrimPrefix(r.Checksums, prefix))
	}
}
