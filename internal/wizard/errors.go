package wizard

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// StepError rejects direct navigation to a step that is out of range or not yet reached
type StepError struct {
	Step    types.Step
	Highest types.Step
}

func (e *StepError) Error() string {
	if !e.Step.Valid() {
		return fmt.Sprintf("step %d does not exist (steps are %d-%d)", int(e.Step), int(types.FirstStep), int(types.LastStep))
	}
	return fmt.Sprintf("step %s has not been reached yet (furthest is %s)", e.Step, e.Highest)
}

// IsStepError reports whether err is a StepError
func IsStepError(err error) bool {
	var se *StepError
	return errors.As(err, &se)
}
