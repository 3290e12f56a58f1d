// Package store implements P1: on-disk JSON persistence of project
// metadata and per-project state, with CRUD operations the CLI drives.
//
// Grounded on original_source/src-tauri/src/commands/project_commands.rs
// for the shape of the operations (list_projects, create_project,
// get_project, set_project_skip_git_repo_check,
// update_task_max_iterations, update_task_auto_commit) and on the
// teacher's internal/storage package for the load/save-by-id idiom,
// though the teacher backs that idiom with SQL; here it's a pair of
// JSON files since spec.md calls for on-disk JSON persistence, not a
// database (see DESIGN.md). Writes go through
// github.com/google/renameio/v2 for atomic replace-on-write, the same
// library used for this purpose elsewhere in the retrieval pack.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
)

// ProjectStatus is the closed set of lifecycle states a project can be in.
type ProjectStatus string

const (
	StatusBrainstorming ProjectStatus = "brainstorming"
	StatusReady         ProjectStatus = "ready"
	StatusRunning       ProjectStatus = "running"
	StatusPaused        ProjectStatus = "paused"
	StatusCompleted     ProjectStatus = "completed"
	StatusFailed        ProjectStatus = "failed"
)

// ProjectMeta is one entry in the project index.
type ProjectMeta struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Path      string        `json:"path"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ConversationTurn is one message in a brainstorm transcript.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BrainstormState tracks the pre-run conversation for a project.
type BrainstormState struct {
	Turns       []ConversationTurn `json:"turns"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// TaskConfig is the on-disk shape the CLI hydrates a loop.Config from.
type TaskConfig struct {
	Prompt           string        `json:"prompt"`
	AgentKind        string        `json:"agent_kind"`
	MaxIterations    int           `json:"max_iterations"`
	AutoCommit       bool          `json:"auto_commit"`
	Sentinel         string        `json:"sentinel"`
	IterationTimeout time.Duration `json:"iteration_timeout"`
	IdleTimeout      time.Duration `json:"idle_timeout"`

	// AutoInitGit, if set, makes 'ralph run' create a git repository
	// in the working directory (via `git init`) before starting the
	// loop engine, when one doesn't already exist.
	AutoInitGit bool `json:"auto_init_git"`
}

// ProjectState is the full per-project record.
type ProjectState struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Path                string           `json:"path"`
	Status              ProjectStatus    `json:"status"`
	SkipRepoSafetyCheck bool             `json:"skip_repo_safety_check"`
	Brainstorm          *BrainstormState `json:"brainstorm,omitempty"`
	Task                *TaskConfig      `json:"task,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type projectIndex struct {
	Projects []ProjectMeta `json:"projects"`
}

// Store is a JSON-file-backed project store rooted at a single
// directory: an index file listing every project plus one state file
// per project.
type Store struct {
	root string
}

// New returns a Store rooted at root, creating the directory layout
// if it doesn't exist yet.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "projects"), 0o755); err != nil {
		return nil, fmt.Errorf("store: creating %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.root, "projects.json")
}

func (s *Store) statePath(id string) string {
	return filepath.Join(s.root, "projects", id+".json")
}

func (s *Store) loadIndex() (projectIndex, error) {
	var idx projectIndex
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return idx, fmt.Errorf("store: reading index: %w", err)
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return idx, fmt.Errorf("store: parsing index: %w", err)
	}
	return idx, nil
}

func (s *Store) saveIndex(idx projectIndex) error {
	return writeJSONAtomic(s.indexPath(), idx)
}

// List returns every project's index entry, with status synced from
// each project's own state file (mirroring list_projects in
// original_source).
func (s *Store) List() ([]ProjectMeta, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	for i := range idx.Projects {
		if state, err := s.loadState(idx.Projects[i].ID); err == nil {
			idx.Projects[i].Status = state.Status
		}
	}
	return idx.Projects, nil
}

// Create makes a new project with the given working directory path
// and display name, in the brainstorming status, and persists both
// its index entry and its state file.
func (s *Store) Create(path, name string) (ProjectState, error) {
	now := time.Now().UTC()
	id := uuid.NewString()

	meta := ProjectMeta{
		ID:        id,
		Name:      name,
		Path:      path,
		Status:    StatusBrainstorming,
		CreatedAt: now,
		UpdatedAt: now,
	}

	idx, err := s.loadIndex()
	if err != nil {
		return ProjectState{}, err
	}
	idx.Projects = append(idx.Projects, meta)
	if err := s.saveIndex(idx); err != nil {
		return ProjectState{}, err
	}

	state := ProjectState{
		ID:                  id,
		Name:                name,
		Path:                path,
		Status:              StatusBrainstorming,
		SkipRepoSafetyCheck: false,
		Brainstorm:          &BrainstormState{Turns: []ConversationTurn{}},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.saveState(state); err != nil {
		return ProjectState{}, err
	}
	return state, nil
}

// Get returns the full state of a project by ID.
func (s *Store) Get(id string) (ProjectState, error) {
	return s.loadState(id)
}

// SetSkipRepoSafetyCheck updates a project's skip flag.
func (s *Store) SetSkipRepoSafetyCheck(id string, skip bool) (ProjectState, error) {
	state, err := s.loadState(id)
	if err != nil {
		return ProjectState{}, err
	}
	state.SkipRepoSafetyCheck = skip
	state.UpdatedAt = time.Now().UTC()
	return state, s.saveState(state)
}

// SetStatus updates a project's lifecycle status.
func (s *Store) SetStatus(id string, status ProjectStatus) (ProjectState, error) {
	state, err := s.loadState(id)
	if err != nil {
		return ProjectState{}, err
	}
	state.Status = status
	state.UpdatedAt = time.Now().UTC()
	return state, s.saveState(state)
}

// SetTaskMaxIterations updates the max-iterations field of a project's
// task. It errors if the project has no task configured yet.
func (s *Store) SetTaskMaxIterations(id string, maxIterations int) (ProjectState, error) {
	state, err := s.loadState(id)
	if err != nil {
		return ProjectState{}, err
	}
	if state.Task == nil {
		return ProjectState{}, fmt.Errorf("store: project %s has no task configured", id)
	}
	state.Task.MaxIterations = maxIterations
	state.UpdatedAt = time.Now().UTC()
	return state, s.saveState(state)
}

// SetTaskAutoCommit updates the auto-commit field of a project's task.
// It errors if the project has no task configured yet.
func (s *Store) SetTaskAutoCommit(id string, autoCommit bool) (ProjectState, error) {
	state, err := s.loadState(id)
	if err != nil {
		return ProjectState{}, err
	}
	if state.Task == nil {
		return ProjectState{}, fmt.Errorf("store: project %s has no task configured", id)
	}
	state.Task.AutoCommit = autoCommit
	state.UpdatedAt = time.Now().UTC()
	return state, s.saveState(state)
}

// SetTaskAutoInitGit updates the auto-init-git field of a project's
// task. It errors if the project has no task configured yet.
func (s *Store) SetTaskAutoInitGit(id string, autoInitGit bool) (ProjectState, error) {
	state, err := s.loadState(id)
	if err != nil {
		return ProjectState{}, err
	}
	if state.Task == nil {
		return ProjectState{}, fmt.Errorf("store: project %s has no task configured", id)
	}
	state.Task.AutoInitGit = autoInitGit
	state.UpdatedAt = time.Now().UTC()
	return state, s.saveState(state)
}

// CompleteBrainstorm records the brainstorm transcript as finished and
// installs the resulting task, moving the project to ready status
// (mirroring complete_ai_brainstorm in original_source).
func (s *Store) CompleteBrainstorm(id string, task TaskConfig) (ProjectState, error) {
	state, err := s.loadState(id)
	if err != nil {
		return ProjectState{}, err
	}
	now := time.Now().UTC()
	if state.Brainstorm != nil {
		state.Brainstorm.CompletedAt = &now
	}
	state.Task = &task
	state.Status = StatusReady
	state.UpdatedAt = now
	return state, s.saveState(state)
}

// AppendBrainstormTurn records one conversation turn.
func (s *Store) AppendBrainstormTurn(id string, turn ConversationTurn) (ProjectState, error) {
	state, err := s.loadState(id)
	if err != nil {
		return ProjectState{}, err
	}
	if state.Brainstorm == nil {
		state.Brainstorm = &BrainstormState{}
	}
	state.Brainstorm.Turns = append(state.Brainstorm.Turns, turn)
	state.UpdatedAt = time.Now().UTC()
	return state, s.saveState(state)
}

func (s *Store) loadState(id string) (ProjectState, error) {
	var state ProjectState
	data, err := os.ReadFile(s.statePath(id))
	if err != nil {
		return state, fmt.Errorf("store: loading project %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("store: parsing project %s: %w", id, err)
	}
	return state, nil
}

func (s *Store) saveState(state ProjectState) error {
	return writeJSONAtomic(s.statePath(state.ID), state)
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", path, err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: writing %s: %w", path, err)
	}
	return nil
}
