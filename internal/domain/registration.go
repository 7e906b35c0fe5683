package domain

import (
	"encoding/json"
	"time"
)

// WizardStep names one page of a registration wizard.
type WizardStep string

const (
	StepAccount      WizardStep = "account"
	StepPersonal     WizardStep = "personal"
	StepAddress      WizardStep = "address"
	StepCareNeeds    WizardStep = "care_needs"
	StepOrganization WizardStep = "organization"
	StepServices     WizardStep = "services"
)

// WizardSteps returns the ordered step set for a registration role.
func WizardSteps(role Role) []WizardStep {
	switch role {
	case RoleClient:
		return []WizardStep{StepAccount, StepPersonal, StepCareNeeds, StepAddress}
	case RoleCoordinator:
		return []WizardStep{StepAccount, StepPersonal, StepOrganization}
	case RoleWorker:
		return []WizardStep{StepAccount, StepPersonal, StepAddress, StepServices}
	default:
		return nil
	}
}

// ValidWizardStep reports whether the step belongs to the role's wizard.
func ValidWizardStep(role Role, step WizardStep) bool {
	for _, s := range WizardSteps(role) {
		if s == step {
			return true
		}
	}
	return false
}

// RegistrationDraft is the in-flight wizard state held in cache under the
// wizard token. Step payloads stay raw; they are validated on submit and
// decoded again at completion, so resubmitting a step is a plain overwrite.
type RegistrationDraft struct {
	Token     string                         `json:"token"`
	Role      Role                           `json:"role"`
	Steps     map[WizardStep]json.RawMessage `json:"steps"`
	StartedAt time.Time                      `json:"started_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// CompletedSteps lists submitted steps in wizard order.
func (d RegistrationDraft) CompletedSteps() []WizardStep {
	var out []WizardStep
	for _, step := range WizardSteps(d.Role) {
		if _, ok := d.Steps[step]; ok {
			out = append(out, step)
		}
	}
	return out
}

// MissingSteps lists steps not yet submitted, in wizard order.
func (d RegistrationDraft) MissingSteps() []WizardStep {
	var out []WizardStep
	for _, step := range WizardSteps(d.Role) {
		if _, ok := d.Steps[step]; !ok {
			out = append(out, step)
		}
	}
	return out
}
