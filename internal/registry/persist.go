package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/screenops/screenops/internal/models"
)

// Serialize encodes the whole forest, nested children included, as a JSON
// array of task records. Template images travel base64-encoded.
func (r *Registry) Serialize() ([]byte, error) {
	tasks := r.tasks
	if tasks == nil {
		tasks = []*models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing forest: %w", err)
	}
	return data, nil
}

// Deserialize replaces the forest with the decoded one. The operation is
// atomic: on any decode or validation error the current forest is left
// untouched.
func (r *Registry) Deserialize(data []byte) error {
	tasks, err := decodeForest(data)
	if err != nil {
		return err
	}
	if err := validateForest(tasks); err != nil {
		return err
	}
	r.tasks = tasks
	return nil
}

// Save writes the serialized forest to a file and remembers the path.
func (r *Registry) Save(path string) error {
	data, err := r.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("saving forest: %w", err)
	}
	r.path = path
	r.logger.Info("forest saved", "path", path, "tasks", len(r.tasks))
	return nil
}

// Load replaces the forest with the contents of a file. A malformed file
// leaves the current forest untouched.
func (r *Registry) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading forest: %w", err)
	}
	if err := r.Deserialize(data); err != nil {
		return fmt.Errorf("loading forest from %s: %w", path, err)
	}
	r.path = path
	r.logger.Info("forest loaded", "path", path, "tasks", len(r.tasks))
	return nil
}

// LoadAll reads several forest files concurrently and replaces the forest
// with their merged contents. Duplicate ids across files fail the whole
// load, leaving the current forest untouched.
func (r *Registry) LoadAll(ctx context.Context, paths []string) error {
	decoded := make([][]*models.Task, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("loading forest: %w", err)
			}
			tasks, err := decodeForest(data)
			if err != nil {
				return fmt.Errorf("loading forest from %s: %w", path, err)
			}
			decoded[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var merged []*models.Task
	for _, tasks := range decoded {
		merged = append(merged, tasks...)
	}
	if err := validateForest(merged); err != nil {
		return err
	}

	r.tasks = merged
	if len(paths) == 1 {
		r.path = paths[0]
	}
	r.logger.Info("forests loaded", "files", len(paths), "tasks", len(merged))
	return nil
}

func decodeForest(data []byte) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decoding forest: %w", err)
	}
	for _, t := range tasks {
		normalize(t)
	}
	return tasks, nil
}

// normalize backfills missing ids so hand-edited records behave like
// freshly created ones.
func normalize(t *models.Task) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	for _, c := range t.Conditions {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
	}
	for _, a := range t.Actions {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
	}
	for _, child := range t.Children {
		normalize(child)
	}
}

// validateForest enforces global id uniqueness across the whole forest.
func validateForest(tasks []*models.Task) error {
	seen := make(map[string]string)
	for _, t := range tasks {
		var dupErr error
		walk(t, func(n *models.Task) {
			if prev, exists := seen[n.ID]; exists && dupErr == nil {
				dupErr = fmt.Errorf("duplicate task id %s (%q and %q)", n.ID, prev, n.Name)
			}
			seen[n.ID] = n.Name
		})
		if dupErr != nil {
			return dupErr
		}
	}
	return nil
}
