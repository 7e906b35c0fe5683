package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

// StartWizard opens a registration draft for the role and hands back the
// wizard token. Nothing touches Postgres until completion.
func (s *Service) StartWizard(ctx context.Context, role domain.Role) (WizardStateResponse, error) {
	if !domain.ValidRegistrationRole(role) {
		return WizardStateResponse{}, fmt.Errorf("%w: unknown registration role %q", domain.ErrInvalidInput, role)
	}
	now := s.nowFn()
	draft := domain.RegistrationDraft{
		Token:     randomHex(24),
		Role:      role,
		Steps:     make(map[domain.WizardStep]json.RawMessage),
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.wizards.Put(ctx, draft.Token, draft, s.cfg.WizardTTL); err != nil {
		return WizardStateResponse{}, fmt.Errorf("store draft: %w", err)
	}
	return s.wizardState(draft), nil
}

// GetWizard returns the draft state for a token.
func (s *Service) GetWizard(ctx context.Context, token string) (WizardStateResponse, error) {
	draft, err := s.loadDraft(ctx, token)
	if err != nil {
		return WizardStateResponse{}, err
	}
	return s.wizardState(*draft), nil
}

// SubmitStep validates and stores one step payload. Resubmitting an already
// completed step overwrites it; the draft TTL resets on every submit.
func (s *Service) SubmitStep(ctx context.Context, token string, step domain.WizardStep, raw []byte) (WizardStateResponse, error) {
	draft, err := s.loadDraft(ctx, token)
	if err != nil {
		return WizardStateResponse{}, err
	}
	if !domain.ValidWizardStep(draft.Role, step) {
		return WizardStateResponse{}, fmt.Errorf("%w: step %q not part of the %s wizard", domain.ErrInvalidInput, step, draft.Role)
	}
	if err := s.validateStepPayload(ctx, draft.Role, step, raw); err != nil {
		return WizardStateResponse{}, err
	}
	draft.Steps[step] = json.RawMessage(raw)
	draft.UpdatedAt = s.nowFn()
	if err := s.wizards.Put(ctx, draft.Token, *draft, s.cfg.WizardTTL); err != nil {
		return WizardStateResponse{}, fmt.Errorf("store draft: %w", err)
	}
	return s.wizardState(*draft), nil
}

// AbandonWizard drops the draft. Missing tokens are fine; abandon is idempotent.
func (s *Service) AbandonWizard(ctx context.Context, token string) error {
	if err := s.wizards.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// CompleteWizard turns a fully submitted draft into a user, its role profile
// and a user.registered outbox event, all in one transaction. The email
// uniqueness check reruns inside the transaction via the unique index; the
// precheck here only produces a friendlier error.
func (s *Service) CompleteWizard(ctx context.Context, token, idempotencyKey string) (CompleteWizardResponse, error) {
	draft, err := s.loadDraft(ctx, token)
	if err != nil {
		return CompleteWizardResponse{}, err
	}
	if missing := draft.MissingSteps(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, string(m))
		}
		return CompleteWizardResponse{}, fmt.Errorf("%w: missing steps %s", domain.ErrWizardIncomplete, strings.Join(names, ", "))
	}

	requestHash := hashRequest("wizard-complete", draft.Token, string(draft.Role))
	replay, proceed, err := s.beginIdempotent(ctx, idempotencyKey, requestHash)
	if err != nil {
		return CompleteWizardResponse{}, err
	}
	if !proceed {
		var resp CompleteWizardResponse
		if err := json.Unmarshal(replay, &resp); err != nil {
			return CompleteWizardResponse{}, fmt.Errorf("decode replayed response: %w", err)
		}
		return resp, nil
	}

	params, err := s.buildCreateParams(ctx, draft)
	if err != nil {
		return CompleteWizardResponse{}, err
	}

	exists, err := s.users.EmailExists(ctx, params.Email)
	if err != nil {
		return CompleteWizardResponse{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return CompleteWizardResponse{}, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	event, err := newOutboxEvent("user.registered", params.Email, map[string]any{
		"email":         params.Email,
		"role":          string(params.Role),
		"registered_at": params.RegisteredAt,
	}, params.RegisteredAt)
	if err != nil {
		return CompleteWizardResponse{}, err
	}

	user, err := s.users.CreateWithProfileTx(ctx, params, event)
	if err != nil {
		return CompleteWizardResponse{}, fmt.Errorf("create account: %w", err)
	}
	_ = s.wizards.Delete(ctx, draft.Token)

	resp := CompleteWizardResponse{UserID: user.UserID, Email: user.Email, Role: string(user.Role)}
	s.finishIdempotent(ctx, idempotencyKey, 201, resp)
	return resp, nil
}

func (s *Service) loadDraft(ctx context.Context, token string) (*domain.RegistrationDraft, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: wizard token required", domain.ErrInvalidInput)
	}
	draft, err := s.wizards.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if draft == nil {
		return nil, domain.ErrWizardExpired
	}
	if draft.Steps == nil {
		draft.Steps = make(map[domain.WizardStep]json.RawMessage)
	}
	return draft, nil
}

func (s *Service) wizardState(draft domain.RegistrationDraft) WizardStateResponse {
	steps := domain.WizardSteps(draft.Role)
	states := make([]WizardStepState, 0, len(steps))
	for _, step := range steps {
		_, done := draft.Steps[step]
		states = append(states, WizardStepState{Step: step, Completed: done})
	}
	return WizardStateResponse{
		Token:     draft.Token,
		Role:      draft.Role,
		Steps:     states,
		ExpiresAt: draft.UpdatedAt.Add(s.cfg.WizardTTL),
	}
}

func (s *Service) validateStepPayload(ctx context.Context, role domain.Role, step domain.WizardStep, raw []byte) error {
	switch step {
	case domain.StepAccount:
		var p AccountStep
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := s.checkStruct(p); err != nil {
			return err
		}
		if err := domain.ValidatePassword(p.Password); err != nil {
			return err
		}
		exists, err := s.users.EmailExists(ctx, normalizeEmail(p.Email))
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil
	case domain.StepPersonal:
		var p PersonalStep
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := s.checkStruct(p); err != nil {
			return err
		}
		if err := domain.ValidateName("first_name", p.FirstName); err != nil {
			return err
		}
		if err := domain.ValidateName("last_name", p.LastName); err != nil {
			return err
		}
		return domain.ValidatePhone(p.Phone)
	case domain.StepAddress:
		var p AddressStep
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := s.checkStruct(p); err != nil {
			return err
		}
		return domain.ValidatePostcode(p.Postcode)
	case domain.StepCareNeeds:
		var p CareNeedsStep
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		return s.checkStruct(p)
	case domain.StepOrganization:
		var p OrganizationStep
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := s.checkStruct(p); err != nil {
			return err
		}
		return domain.ValidateABN(p.OrganizationABN)
	case domain.StepServices:
		var p ServicesStep
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := s.checkStruct(p); err != nil {
			return err
		}
		if p.ABN != "" {
			if err := domain.ValidateABN(p.ABN); err != nil {
				return err
			}
		}
		ids, err := parseUUIDs(p.SubcategoryIDs)
		if err != nil {
			return err
		}
		return s.checkSubcategoriesExist(ctx, ids)
	default:
		return fmt.Errorf("%w: step %q has no payload schema", domain.ErrInvalidInput, step)
	}
}

func (s *Service) checkSubcategoriesExist(ctx context.Context, ids []uuid.UUID) error {
	found, err := s.catalog.GetSubcategoriesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load subcategories: %w", err)
	}
	if len(found) != len(ids) {
		return fmt.Errorf("%w: one or more subcategory ids are unknown", domain.ErrInvalidInput)
	}
	return nil
}

func (s *Service) buildCreateParams(ctx context.Context, draft *domain.RegistrationDraft) (ports.CreateUserTxParams, error) {
	var account AccountStep
	if err := decodeStrict(draft.Steps[domain.StepAccount], &account); err != nil {
		return ports.CreateUserTxParams{}, err
	}
	var personal PersonalStep
	if err := decodeStrict(draft.Steps[domain.StepPersonal], &personal); err != nil {
		return ports.CreateUserTxParams{}, err
	}

	hash, err := s.hasher.Hash(account.Password)
	if err != nil {
		return ports.CreateUserTxParams{}, fmt.Errorf("hash password: %w", err)
	}
	params := ports.CreateUserTxParams{
		Email:        normalizeEmail(account.Email),
		PasswordHash: hash,
		Role:         draft.Role,
		RegisteredAt: s.nowFn(),
	}

	switch draft.Role {
	case domain.RoleClient:
		var care CareNeedsStep
		if err := decodeStrict(draft.Steps[domain.StepCareNeeds], &care); err != nil {
			return ports.CreateUserTxParams{}, err
		}
		var addr AddressStep
		if err := decodeStrict(draft.Steps[domain.StepAddress], &addr); err != nil {
			return ports.CreateUserTxParams{}, err
		}
		params.Client = &ports.ClientProfileParams{
			FirstName:     personal.FirstName,
			LastName:      personal.LastName,
			Phone:         personal.Phone,
			Suburb:        addr.Suburb,
			Postcode:      addr.Postcode,
			CareNeeds:     care.CareNeeds,
			FundingSource: care.FundingSource,
		}
	case domain.RoleCoordinator:
		var org OrganizationStep
		if err := decodeStrict(draft.Steps[domain.StepOrganization], &org); err != nil {
			return ports.CreateUserTxParams{}, err
		}
		params.Coordinator = &ports.CoordinatorProfileParams{
			FirstName:        personal.FirstName,
			LastName:         personal.LastName,
			Phone:            personal.Phone,
			OrganizationName: org.OrganizationName,
			OrganizationABN:  org.OrganizationABN,
			PositionTitle:    org.PositionTitle,
		}
	case domain.RoleWorker:
		var addr AddressStep
		if err := decodeStrict(draft.Steps[domain.StepAddress], &addr); err != nil {
			return ports.CreateUserTxParams{}, err
		}
		var services ServicesStep
		if err := decodeStrict(draft.Steps[domain.StepServices], &services); err != nil {
			return ports.CreateUserTxParams{}, err
		}
		ids, err := parseUUIDs(services.SubcategoryIDs)
		if err != nil {
			return ports.CreateUserTxParams{}, err
		}
		if err := s.checkSubcategoriesExist(ctx, ids); err != nil {
			return ports.CreateUserTxParams{}, err
		}
		displayName := services.DisplayName
		if displayName == "" {
			// First rune, not first byte: surnames may start with a
			// multi-byte letter.
			initial := []rune(personal.LastName)[0]
			displayName = personal.FirstName + " " + strings.ToUpper(string(initial)) + "."
		}
		params.Worker = &ports.WorkerProfileParams{
			FirstName:       personal.FirstName,
			LastName:        personal.LastName,
			DisplayName:     displayName,
			Phone:           personal.Phone,
			Suburb:          addr.Suburb,
			Postcode:        addr.Postcode,
			ABN:             services.ABN,
			YearsExperience: services.YearsExperience,
			SubcategoryIDs:  ids,
		}
	default:
		return ports.CreateUserTxParams{}, fmt.Errorf("%w: unknown role", domain.ErrInvalidInput)
	}
	return params, nil
}
