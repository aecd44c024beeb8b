package service

import (
	"fmt"

	"github.com/gracebti/admissions-api/internal/dto"
)

// DraftStep identifies the wizard step a draft is on.
type DraftStep int

// Wizard steps, strictly sequential.
const (
	StepPersonal DraftStep = iota + 1
	StepChurch
	StepDocuments
)

// FileUpload is a received document file with its sniffable content.
type FileUpload struct {
	Filename string
	MIMEType string
	Size     int64
	Data     []byte
}

// Step1Data holds the personal-information step with its validation result.
type Step1Data struct {
	dto.Step1Payload
	Errors map[string]string

	valid bool
}

// Step2Data holds the church and training step with its validation result.
type Step2Data struct {
	dto.Step2Payload
	Errors map[string]string

	valid bool
}

// Step3Data holds the document uploads with their validation result.
type Step3Data struct {
	ESignature *FileUpload
	PhotoCopy  *FileUpload
	Errors     map[string]string

	valid bool
}

// Draft is the in-progress enrollment form: a step union discriminated by
// CurrentStep. A step must validate cleanly before the draft can advance
// past it.
type Draft struct {
	CurrentStep DraftStep
	Step1       Step1Data
	Step2       Step2Data
	Step3       Step3Data
}

// NewDraft starts an empty draft on the first step.
func NewDraft() *Draft {
	return &Draft{CurrentStep: StepPersonal}
}

// Advance moves to the next step. It fails while the current step has not
// been validated or still carries errors.
func (d *Draft) Advance() error {
	switch d.CurrentStep {
	case StepPersonal:
		if !d.Step1.valid || len(d.Step1.Errors) > 0 {
			return fmt.Errorf("personal information step is incomplete")
		}
		d.CurrentStep = StepChurch
	case StepChurch:
		if !d.Step2.valid || len(d.Step2.Errors) > 0 {
			return fmt.Errorf("church and training step is incomplete")
		}
		d.CurrentStep = StepDocuments
	case StepDocuments:
		return fmt.Errorf("already on the final step")
	default:
		return fmt.Errorf("unknown step %d", d.CurrentStep)
	}
	return nil
}

// Back returns to the previous step and clears the revisited step's errors.
func (d *Draft) Back() {
	switch d.CurrentStep {
	case StepChurch:
		d.CurrentStep = StepPersonal
		d.Step1.Errors = nil
	case StepDocuments:
		d.CurrentStep = StepChurch
		d.Step2.Errors = nil
	}
}

// Reset returns the draft to its initial empty state.
func (d *Draft) Reset() {
	*d = Draft{CurrentStep: StepPersonal}
}
