package scoring

import "fmt"

// ValidationError reports input that does not have the shape the scorer requires
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}
