package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// TaskType selects the execution behavior of a task.
type TaskType string

const (
	// TaskSimple runs its actions in order.
	TaskSimple TaskType = "simple"
	// TaskConditional captures the screen, evaluates its conditions, and
	// only runs actions and children when all conditions hold.
	TaskConditional TaskType = "conditional"
	// TaskLoop repeats its actions and children a fixed number of times.
	TaskLoop TaskType = "loop"
)

// Task is a node in the task forest. A task exclusively owns its subtree;
// ids are globally unique across the whole forest and serve as the join
// key for invoke-by-id and registry lookup.
type Task struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        TaskType     `json:"task_type"`
	Conditions  []*Condition `json:"conditions"`
	Actions     []*Action    `json:"actions"`
	Children    []*Task      `json:"children"`
	LoopCount   int          `json:"loop_count"`
	Enabled     bool         `json:"enabled"`
}

// NewTask creates an enabled task of the given type with a fresh id.
func NewTask(name string, typ TaskType) *Task {
	return &Task{
		ID:      uuid.NewString(),
		Name:    name,
		Type:    typ,
		Enabled: true,
	}
}

// Iterations returns the effective repetition count for loop tasks.
func (t *Task) Iterations() int {
	return max(1, t.LoopCount)
}

// UnmarshalJSON decodes a task record, treating a missing "enabled" field
// as true so hand-edited forest files behave like freshly created tasks.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	aux := struct {
		Enabled *bool `json:"enabled"`
		*alias
	}{alias: (*alias)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Enabled = aux.Enabled == nil || *aux.Enabled
	return nil
}
