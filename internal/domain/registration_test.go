package domain

import (
	"encoding/json"
	"testing"
)

func TestWizardStepsPerRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role  Role
		steps []WizardStep
	}{
		{RoleClient, []WizardStep{StepAccount, StepPersonal, StepCareNeeds, StepAddress}},
		{RoleCoordinator, []WizardStep{StepAccount, StepPersonal, StepOrganization}},
		{RoleWorker, []WizardStep{StepAccount, StepPersonal, StepAddress, StepServices}},
	}
	for _, tc := range cases {
		got := WizardSteps(tc.role)
		if len(got) != len(tc.steps) {
			t.Fatalf("%s: expected %d steps, got %d", tc.role, len(tc.steps), len(got))
		}
		for i := range got {
			if got[i] != tc.steps[i] {
				t.Fatalf("%s: step %d = %s, want %s", tc.role, i, got[i], tc.steps[i])
			}
		}
	}

	if WizardSteps(RoleAdmin) != nil {
		t.Fatalf("admins have no registration wizard")
	}
	if ValidWizardStep(RoleCoordinator, StepAddress) {
		t.Fatalf("address step should not belong to coordinator wizard")
	}
}

func TestDraftMissingSteps(t *testing.T) {
	t.Parallel()

	draft := RegistrationDraft{
		Role: RoleWorker,
		Steps: map[WizardStep]json.RawMessage{
			StepAccount:  json.RawMessage(`{}`),
			StepPersonal: json.RawMessage(`{}`),
		},
	}

	missing := draft.MissingSteps()
	if len(missing) != 2 || missing[0] != StepAddress || missing[1] != StepServices {
		t.Fatalf("unexpected missing steps: %v", missing)
	}
	completed := draft.CompletedSteps()
	if len(completed) != 2 || completed[0] != StepAccount || completed[1] != StepPersonal {
		t.Fatalf("unexpected completed steps: %v", completed)
	}
}
