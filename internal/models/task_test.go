package models

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalDefaultsEnabledToTrue(t *testing.T) {
	var missing Task
	if err := json.Unmarshal([]byte(`{"id":"x","name":"n","task_type":"simple"}`), &missing); err != nil {
		t.Fatal(err)
	}
	if !missing.Enabled {
		t.Error("task without an enabled field must default to enabled")
	}

	var disabled Task
	if err := json.Unmarshal([]byte(`{"id":"x","name":"n","task_type":"simple","enabled":false}`), &disabled); err != nil {
		t.Fatal(err)
	}
	if disabled.Enabled {
		t.Error("explicit enabled=false must stick")
	}
}

func TestIterations(t *testing.T) {
	tests := []struct {
		loopCount int
		want      int
	}{
		{-2, 1},
		{0, 1},
		{1, 1},
		{5, 5},
	}
	for _, tt := range tests {
		task := Task{LoopCount: tt.loopCount}
		if got := task.Iterations(); got != tt.want {
			t.Errorf("Iterations() with loop_count=%d = %d, want %d", tt.loopCount, got, tt.want)
		}
	}
}

func TestNewTaskAssignsID(t *testing.T) {
	a := NewTask("a", TaskSimple)
	b := NewTask("b", TaskSimple)
	if a.ID == "" || a.ID == b.ID {
		t.Error("NewTask must assign unique non-empty ids")
	}
	if !a.Enabled {
		t.Error("new tasks start enabled")
	}
}

func TestTemplateImageTransportsAsText(t *testing.T) {
	c := NewCondition(ConditionTemplate)
	c.TemplateImage = []byte{0x00, 0x01, 0xff}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	// []byte marshals to a base64 JSON string, never raw bytes.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, isString := raw["template_image"].(string); !isString {
		t.Errorf("template_image serialized as %T, want base64 string", raw["template_image"])
	}
}
