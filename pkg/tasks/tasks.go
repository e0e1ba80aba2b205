// Package tasks resolves the user's optional install units.
//
// A task gates zero or more steps (association rules, shortcuts). The
// selection is decided once per run, before anything mutates, and stays
// frozen: every gated step for the rest of the run consults the same
// Selection.
package tasks

import (
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/types"
)

// Selection is the frozen set of selected task ids for one run
type Selection struct {
	selected map[string]bool
	order    []string
}

// Resolve combines the manifest's declared tasks with the user's
// choices. A task absent from choices falls back to its default. A
// choice naming an undeclared task is a configuration error; nothing
// has mutated at that point, so the run can abort cleanly.
func Resolve(man *types.Manifest, choices map[string]bool) (Selection, error) {
	for id := range choices {
		if _, ok := man.TaskByID(id); !ok {
			return Selection{}, errors.Newf(errors.ErrTaskUnknown, "unknown task %q", id)
		}
	}

	sel := Selection{selected: make(map[string]bool, len(man.Tasks))}
	for _, task := range man.Tasks {
		on := task.DefaultSelected
		if choice, ok := choices[task.ID]; ok {
			on = choice
		}
		sel.selected[task.ID] = on
		if on {
			sel.order = append(sel.order, task.ID)
		}
	}
	return sel, nil
}

// Selected reports whether a step gated by taskID runs. The empty id
// means ungated and is always on.
func (s Selection) Selected(taskID string) bool {
	if taskID == "" {
		return true
	}
	return s.selected[taskID]
}

// IDs returns the selected task ids in manifest declaration order
func (s Selection) IDs() []string {
	if len(s.order) == 0 {
		return nil
	}
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}
