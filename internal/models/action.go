package models

import "github.com/google/uuid"

// ActionType discriminates action variants, both in memory and on the wire.
type ActionType string

const (
	ActionTap        ActionType = "tap"
	ActionSwipe      ActionType = "swipe"
	ActionKey        ActionType = "key"
	ActionInput      ActionType = "input"
	ActionWait       ActionType = "wait"
	ActionSleep      ActionType = "sleep" // wire-compatible alias of wait
	ActionInvokeTask ActionType = "execute_task"
)

// Action is a single unit of device interaction. Only the fields relevant
// to Type are meaningful; the rest stay at their zero values. Actions are
// immutable once constructed and borrow the device for one call.
type Action struct {
	ID          string     `json:"id"`
	Type        ActionType `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`

	// tap
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	// swipe
	X1         int `json:"x1,omitempty"`
	Y1         int `json:"y1,omitempty"`
	X2         int `json:"x2,omitempty"`
	Y2         int `json:"y2,omitempty"`
	DurationMs int `json:"duration,omitempty"`

	// key
	KeyCode int    `json:"key_code,omitempty"`
	KeyName string `json:"key_name,omitempty"` // display only

	// input
	Text string `json:"text,omitempty"`

	// wait / sleep
	Seconds float64 `json:"seconds,omitempty"`

	// execute_task
	TaskID   string `json:"task_id,omitempty"`
	TaskName string `json:"task_name,omitempty"` // display only
}

// NewAction creates an action of the given type with a fresh id.
func NewAction(typ ActionType, name string) *Action {
	return &Action{
		ID:   uuid.NewString(),
		Type: typ,
		Name: name,
	}
}
