package marker

import "github.com/woozymasta/parkmap/internal/parking"

// Toggle is the on/off state of one category's cluster group.
type Toggle struct {
	controller *Controller
	category   parking.Category
	visible    bool
}

// NewToggle creates a toggle for cat starting in the given state. The state is
// pushed to the controller by Sync.
func NewToggle(controller *Controller, cat parking.Category, visible bool) *Toggle {
	return &Toggle{controller: controller, category: cat, visible: visible}
}

// Category returns the toggled category.
func (t *Toggle) Category() parking.Category {
	return t.category
}

// Visible reports the current state.
func (t *Toggle) Visible() bool {
	return t.visible
}

// Toggle flips the state and applies it. On error the state is unchanged.
func (t *Toggle) Toggle() (bool, error) {
	if err := t.Set(!t.visible); err != nil {
		return t.visible, err
	}
	return t.visible, nil
}

// Set applies an explicit state.
func (t *Toggle) Set(visible bool) error {
	if err := t.controller.SetCategoryVisible(t.category, visible); err != nil {
		return err
	}
	t.visible = visible
	return nil
}

// Sync applies the current state, e.g. after the first render.
func (t *Toggle) Sync() error {
	return t.controller.SetCategoryVisible(t.category, t.visible)
}
