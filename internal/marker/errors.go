package marker

import "fmt"

// UnknownCategoryError indicates a kind label outside the recognized set.
type UnknownCategoryError struct {
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown parking category %q", e.Label)
}

// NotInitializedError indicates a marker mutation before the first render.
type NotInitializedError struct {
	Op string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s: markers not rendered yet", e.Op)
}
