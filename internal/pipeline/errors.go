package pipeline

import (
	"errors"
	"fmt"
)

type Step string

const (
	StepPreprocess Step = "preprocess"
	StepTranscribe Step = "transcribe"
	StepTranslate  Step = "translate"
	StepSynthesize Step = "synthesize"
)

// StepError names the pipeline step that failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep reports which step produced err, or "" when err is not a StepError.
func FailedStep(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
