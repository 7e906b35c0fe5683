package application_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/application"
	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

type fixture struct {
	service      *application.Service
	users        *fakeUsers
	sessions     *fakeSessions
	workers      *fakeWorkers
	clients      *fakeClients
	coordinators *fakeCoordinators
	catalog      *fakeCatalog
	documents    *fakeDocuments
	requirements *fakeRequirements
	workerReads  *fakeWorkerReads
	outbox       *fakeOutbox
	wizards      *fakeWizards
	blobs        *fakeBlobs
	revocations  *fakeRevocations
}

func defaultTestConfig() application.Config {
	return application.Config{
		TokenTTL:             time.Hour,
		SessionTTL:           24 * time.Hour,
		SessionAbsoluteTTL:   72 * time.Hour,
		FailedLoginThreshold: 3,
		LockoutDuration:      15 * time.Minute,
		WizardTTL:            time.Hour,
		IdempotencyTTL:       time.Hour,
		MaxDocumentBytes:     1 << 20,
		DirectoryPageLimit:   50,
	}
}

func newFixture() *fixture {
	return newFixtureWithConfig(defaultTestConfig())
}

func newFixtureWithConfig(cfg application.Config) *fixture {
	workers := &fakeWorkers{profiles: map[uuid.UUID]domain.WorkerProfile{}}
	clients := &fakeClients{profiles: map[uuid.UUID]domain.ClientProfile{}}
	coordinators := &fakeCoordinators{profiles: map[uuid.UUID]domain.CoordinatorProfile{}}
	catalog := &fakeCatalog{selections: map[uuid.UUID][]uuid.UUID{}}
	outbox := &fakeOutbox{}
	users := &fakeUsers{
		byEmail:      map[string]domain.User{},
		byID:         map[uuid.UUID]domain.User{},
		workers:      workers,
		clients:      clients,
		coordinators: coordinators,
		catalog:      catalog,
		outbox:       outbox,
	}
	sessions := &fakeSessions{byID: map[uuid.UUID]domain.Session{}}
	documents := &fakeDocuments{byID: map[uuid.UUID]domain.VerificationDocument{}}
	requirements := &fakeRequirements{aliases: map[string]string{}}
	workerReads := &fakeWorkerReads{users: users, workers: workers}
	wizards := &fakeWizards{drafts: map[string]domain.RegistrationDraft{}}
	blobs := &fakeBlobs{objects: map[string]fakeBlob{}}
	revocations := &fakeRevocations{revoked: map[uuid.UUID]bool{}}

	svc := application.NewService(application.Dependencies{
		Config:        cfg,
		Users:         users,
		Sessions:      sessions,
		LoginAttempts: &fakeLoginAttempts{},
		Workers:       workers,
		Clients:       clients,
		Coordinators:  coordinators,
		Catalog:       catalog,
		Documents:     documents,
		Requirements:  requirements,
		WorkerReads:   workerReads,
		Outbox:        outbox,
		Idempotency:   &fakeIdempotency{records: map[string]ports.IdempotencyRecord{}},
		Lockouts:      &fakeLockouts{state: map[string]ports.LockoutState{}},
		Revocations:   revocations,
		Wizards:       wizards,
		Blobs:         blobs,
		Hasher:        &fakeHasher{},
		TokenSigner:   &fakeSigner{tokens: map[string]ports.AuthClaims{}},
	})

	return &fixture{
		service:      svc,
		users:        users,
		sessions:     sessions,
		workers:      workers,
		clients:      clients,
		coordinators: coordinators,
		catalog:      catalog,
		documents:    documents,
		requirements: requirements,
		workerReads:  workerReads,
		outbox:       outbox,
		wizards:      wizards,
		blobs:        blobs,
		revocations:  revocations,
	}
}

// seedWorker inserts an active worker account with an empty profile and
// returns its claims for authenticated service calls.
func (f *fixture) seedWorker(email string) ports.AuthClaims {
	return f.seedUser(email, domain.RoleWorker)
}

func (f *fixture) seedUser(email string, role domain.Role) ports.AuthClaims {
	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.New(),
		Email:        email,
		PasswordHash: "hash:Sturdy-Harbor-42!",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users.put(user)
	if role == domain.RoleWorker {
		f.workers.profiles[user.UserID] = domain.WorkerProfile{
			ProfileID: uuid.New(),
			UserID:    user.UserID,
			FirstName: "Test",
			LastName:  "Worker",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	session, _ := f.sessions.Create(context.Background(), ports.SessionCreateParams{
		UserID:         user.UserID,
		ExpiresAt:      now.Add(24 * time.Hour),
		LastActivityAt: now,
	})
	return ports.AuthClaims{
		UserID:    user.UserID,
		Email:     email,
		Role:      string(role),
		SessionID: session.SessionID,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

// seedCatalog installs one category with two subcategories and returns them.
func (f *fixture) seedCatalog() (domain.ServiceCategory, []domain.ServiceSubcategory) {
	cat := domain.ServiceCategory{CategoryID: uuid.New(), Slug: "personal-care", Name: "Personal Care", SortOrder: 1}
	subs := []domain.ServiceSubcategory{
		{SubcategoryID: uuid.New(), CategoryID: cat.CategoryID, Slug: "daily-living-assistance", Name: "Daily Living Assistance", SortOrder: 1},
		{SubcategoryID: uuid.New(), CategoryID: cat.CategoryID, Slug: "overnight-care", Name: "Overnight Care", SortOrder: 2},
	}
	f.catalog.categories = append(f.catalog.categories, cat)
	f.catalog.subcategories = append(f.catalog.subcategories, subs...)
	return cat, subs
}

type fakeUsers struct {
	mu           sync.Mutex
	byEmail      map[string]domain.User
	byID         map[uuid.UUID]domain.User
	workers      *fakeWorkers
	clients      *fakeClients
	coordinators *fakeCoordinators
	catalog      *fakeCatalog
	outbox       *fakeOutbox
}

func (f *fakeUsers) put(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byEmail[user.Email] = user
	f.byID[user.UserID] = user
}

func (f *fakeUsers) CreateWithProfileTx(_ context.Context, params ports.CreateUserTxParams, outboxEvent ports.OutboxEvent) (domain.User, error) {
	f.mu.Lock()
	if _, exists := f.byEmail[params.Email]; exists {
		f.mu.Unlock()
		return domain.User{}, domain.ErrConflict
	}
	user := domain.User{
		UserID:       uuid.New(),
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		IsActive:     true,
		CreatedAt:    params.RegisteredAt,
		UpdatedAt:    params.RegisteredAt,
	}
	f.byEmail[user.Email] = user
	f.byID[user.UserID] = user
	f.mu.Unlock()

	switch {
	case params.Worker != nil:
		f.workers.profiles[user.UserID] = domain.WorkerProfile{
			ProfileID:       uuid.New(),
			UserID:          user.UserID,
			FirstName:       params.Worker.FirstName,
			LastName:        params.Worker.LastName,
			DisplayName:     params.Worker.DisplayName,
			Phone:           params.Worker.Phone,
			Suburb:          params.Worker.Suburb,
			Postcode:        params.Worker.Postcode,
			ABN:             params.Worker.ABN,
			YearsExperience: params.Worker.YearsExperience,
			CreatedAt:       params.RegisteredAt,
			UpdatedAt:       params.RegisteredAt,
		}
		f.catalog.selections[user.UserID] = append([]uuid.UUID(nil), params.Worker.SubcategoryIDs...)
	case params.Client != nil:
		f.clients.profiles[user.UserID] = domain.ClientProfile{
			ProfileID:     uuid.New(),
			UserID:        user.UserID,
			FirstName:     params.Client.FirstName,
			LastName:      params.Client.LastName,
			Phone:         params.Client.Phone,
			Suburb:        params.Client.Suburb,
			Postcode:      params.Client.Postcode,
			CareNeeds:     params.Client.CareNeeds,
			FundingSource: params.Client.FundingSource,
			CreatedAt:     params.RegisteredAt,
		}
	case params.Coordinator != nil:
		f.coordinators.profiles[user.UserID] = domain.CoordinatorProfile{
			ProfileID:        uuid.New(),
			UserID:           user.UserID,
			FirstName:        params.Coordinator.FirstName,
			LastName:         params.Coordinator.LastName,
			Phone:            params.Coordinator.Phone,
			OrganizationName: params.Coordinator.OrganizationName,
			OrganizationABN:  params.Coordinator.OrganizationABN,
			PositionTitle:    params.Coordinator.PositionTitle,
			CreatedAt:        params.RegisteredAt,
		}
	}

	_ = f.outbox.Enqueue(context.Background(), outboxEvent)
	return user, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = updatedAt
	f.byID[userID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) Deactivate(_ context.Context, userID uuid.UUID, deactivatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.IsActive = false
	user.UpdatedAt = deactivatedAt
	f.byID[userID] = user
	f.byEmail[user.Email] = user
	return nil
}

type fakeSessions struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Session
}

func (f *fakeSessions) Create(_ context.Context, params ports.SessionCreateParams) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session := domain.Session{
		SessionID:      uuid.New(),
		UserID:         params.UserID,
		DeviceName:     params.DeviceName,
		DeviceOS:       params.DeviceOS,
		IPAddress:      params.IPAddress,
		UserAgent:      params.UserAgent,
		CreatedAt:      params.LastActivityAt,
		LastActivityAt: params.LastActivityAt,
		ExpiresAt:      params.ExpiresAt,
	}
	f.byID[session.SessionID] = session
	return session, nil
}

func (f *fakeSessions) GetByID(_ context.Context, sessionID uuid.UUID) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byID[sessionID]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return session, nil
}

func (f *fakeSessions) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Session
	for _, s := range f.byID {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessions) TouchActivity(_ context.Context, sessionID uuid.UUID, touchedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	session.LastActivityAt = touchedAt
	f.byID[sessionID] = session
	return nil
}

func (f *fakeSessions) RevokeByID(_ context.Context, sessionID uuid.UUID, revokedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	f.byID[sessionID] = session
	return nil
}

func (f *fakeSessions) RevokeAllByUser(_ context.Context, userID uuid.UUID, revokedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.byID {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &revokedAt
			f.byID[id] = s
		}
	}
	return nil
}

type fakeLoginAttempts struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
}

func (f *fakeLoginAttempts) Insert(_ context.Context, attempt domain.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeLoginAttempts) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.LoginAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LoginAttempt
	for _, a := range f.attempts {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, a)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeWorkers struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]domain.WorkerProfile
}

func (f *fakeWorkers) GetByUserID(_ context.Context, userID uuid.UUID) (domain.WorkerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return domain.WorkerProfile{}, domain.ErrNotFound
	}
	return profile, nil
}

func (f *fakeWorkers) Update(_ context.Context, params ports.UpdateWorkerProfileParams) (domain.WorkerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[params.UserID]
	if !ok {
		return domain.WorkerProfile{}, domain.ErrNotFound
	}
	if params.DisplayName != nil {
		profile.DisplayName = *params.DisplayName
	}
	if params.Bio != nil {
		profile.Bio = *params.Bio
	}
	if params.Phone != nil {
		profile.Phone = *params.Phone
	}
	if params.Suburb != nil {
		profile.Suburb = *params.Suburb
	}
	if params.Postcode != nil {
		profile.Postcode = *params.Postcode
	}
	if params.ABN != nil {
		profile.ABN = *params.ABN
	}
	if params.YearsExperience != nil {
		profile.YearsExperience = *params.YearsExperience
	}
	if params.HourlyRateCents != nil {
		profile.HourlyRateCents = *params.HourlyRateCents
	}
	profile.UpdatedAt = params.UpdatedAt
	f.profiles[params.UserID] = profile
	return profile, nil
}

func (f *fakeWorkers) SetVerified(_ context.Context, userID uuid.UUID, verified bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return domain.ErrNotFound
	}
	profile.Verified = verified
	if verified {
		profile.VerifiedAt = &at
	} else {
		profile.VerifiedAt = nil
	}
	profile.UpdatedAt = at
	f.profiles[userID] = profile
	return nil
}

type fakeClients struct {
	profiles map[uuid.UUID]domain.ClientProfile
}

func (f *fakeClients) GetByUserID(_ context.Context, userID uuid.UUID) (domain.ClientProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return domain.ClientProfile{}, domain.ErrNotFound
	}
	return profile, nil
}

type fakeCoordinators struct {
	profiles map[uuid.UUID]domain.CoordinatorProfile
}

func (f *fakeCoordinators) GetByUserID(_ context.Context, userID uuid.UUID) (domain.CoordinatorProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return domain.CoordinatorProfile{}, domain.ErrNotFound
	}
	return profile, nil
}

type fakeCatalog struct {
	mu            sync.Mutex
	categories    []domain.ServiceCategory
	subcategories []domain.ServiceSubcategory
	selections    map[uuid.UUID][]uuid.UUID
}

func (f *fakeCatalog) ListCategories(context.Context) ([]domain.ServiceCategory, error) {
	return f.categories, nil
}

func (f *fakeCatalog) ListSubcategories(context.Context) ([]domain.ServiceSubcategory, error) {
	return f.subcategories, nil
}

func (f *fakeCatalog) GetSubcategoriesByIDs(_ context.Context, ids []uuid.UUID) ([]domain.ServiceSubcategory, error) {
	var out []domain.ServiceSubcategory
	for _, sc := range f.subcategories {
		for _, id := range ids {
			if sc.SubcategoryID == id {
				out = append(out, sc)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListWorkerSubcategories(_ context.Context, userID uuid.UUID) ([]domain.ServiceSubcategory, error) {
	f.mu.Lock()
	ids := f.selections[userID]
	f.mu.Unlock()
	return f.GetSubcategoriesByIDs(context.Background(), ids)
}

func (f *fakeCatalog) ReplaceWorkerServices(_ context.Context, userID uuid.UUID, subcategoryIDs []uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selections[userID] = append([]uuid.UUID(nil), subcategoryIDs...)
	return nil
}

type fakeDocuments struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.VerificationDocument
}

func (f *fakeDocuments) Create(_ context.Context, params ports.CreateDocumentParams) (domain.VerificationDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := domain.VerificationDocument{
		DocumentID:   params.DocumentID,
		UserID:       params.UserID,
		DocumentType: params.DocumentType,
		FileKey:      params.FileKey,
		FileName:     params.FileName,
		ContentType:  params.ContentType,
		SizeBytes:    params.SizeBytes,
		Status:       domain.DocumentStatusPending,
		ExpiresAt:    params.ExpiresAt,
		UploadedAt:   params.UploadedAt,
	}
	f.byID[doc.DocumentID] = doc
	return doc, nil
}

func (f *fakeDocuments) GetByID(_ context.Context, documentID uuid.UUID) (domain.VerificationDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.byID[documentID]
	if !ok {
		return domain.VerificationDocument{}, domain.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocuments) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.VerificationDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.VerificationDocument
	for _, doc := range f.byID {
		if doc.UserID == userID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (f *fakeDocuments) ListByUsers(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]domain.VerificationDocument, error) {
	out := make(map[uuid.UUID][]domain.VerificationDocument, len(userIDs))
	for _, id := range userIDs {
		docs, _ := f.ListByUser(context.Background(), id)
		if len(docs) > 0 {
			out[id] = docs
		}
	}
	return out, nil
}

func (f *fakeDocuments) Delete(_ context.Context, documentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[documentID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, documentID)
	return nil
}

func (f *fakeDocuments) Review(_ context.Context, params ports.ReviewDocumentParams) (domain.VerificationDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.byID[params.DocumentID]
	if !ok {
		return domain.VerificationDocument{}, domain.ErrNotFound
	}
	if doc.Status != domain.DocumentStatusPending {
		return domain.VerificationDocument{}, domain.ErrConflict
	}
	doc.Status = params.Status
	doc.RejectionReason = params.RejectionReason
	reviewedAt := params.ReviewedAt
	reviewedBy := params.ReviewedBy
	doc.ReviewedAt = &reviewedAt
	doc.ReviewedBy = &reviewedBy
	f.byID[params.DocumentID] = doc
	return doc, nil
}

func (f *fakeDocuments) ListPending(_ context.Context, limit, offset int) ([]domain.VerificationDocument, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.VerificationDocument
	for _, doc := range f.byID {
		if doc.Status == domain.DocumentStatusPending {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type fakeRequirements struct {
	mu           sync.Mutex
	requirements []domain.DocumentRequirement
	types        []domain.DocumentType
	aliases      map[string]string
}

func (f *fakeRequirements) ListRequirements(context.Context) ([]domain.DocumentRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.DocumentRequirement(nil), f.requirements...), nil
}

func (f *fakeRequirements) CreateRequirement(_ context.Context, params ports.CreateRequirementParams) (domain.DocumentRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req := domain.DocumentRequirement{
		RequirementID:    uuid.New(),
		Scope:            params.Scope,
		CategoryID:       params.CategoryID,
		SubcategoryID:    params.SubcategoryID,
		DocumentTypeCode: params.DocumentTypeCode,
		GroupKey:         params.GroupKey,
		CreatedAt:        params.CreatedAt,
	}
	f.requirements = append(f.requirements, req)
	return req, nil
}

func (f *fakeRequirements) DeleteRequirement(_ context.Context, requirementID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, req := range f.requirements {
		if req.RequirementID == requirementID {
			f.requirements = append(f.requirements[:i], f.requirements[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRequirements) ListDocumentTypes(context.Context) ([]domain.DocumentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.DocumentType(nil), f.types...), nil
}

func (f *fakeRequirements) CreateDocumentType(_ context.Context, code, name string, at time.Time) (domain.DocumentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, dt := range f.types {
		if dt.Code == code {
			return domain.DocumentType{}, domain.ErrConflict
		}
	}
	dt := domain.DocumentType{DocumentTypeID: uuid.New(), Code: code, Name: name, CreatedAt: at}
	f.types = append(f.types, dt)
	return dt, nil
}

func (f *fakeRequirements) AliasMap(context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.aliases))
	for k, v := range f.aliases {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRequirements) CreateAlias(_ context.Context, alias, canonical string, at time.Time) (domain.DocumentTypeAlias, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.aliases[alias]; exists {
		return domain.DocumentTypeAlias{}, domain.ErrConflict
	}
	f.aliases[alias] = canonical
	return domain.DocumentTypeAlias{AliasID: uuid.New(), Alias: alias, Canonical: canonical, CreatedAt: at}, nil
}

type fakeWorkerReads struct {
	users   *fakeUsers
	workers *fakeWorkers
}

func (f *fakeWorkerReads) rows() []ports.WorkerRow {
	var out []ports.WorkerRow
	for userID, profile := range f.workers.profiles {
		user, ok := f.users.byID[userID]
		if !ok {
			continue
		}
		out = append(out, ports.WorkerRow{Profile: profile, Email: user.Email, Active: user.IsActive})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Profile.CreatedAt.After(out[j].Profile.CreatedAt)
	})
	return out
}

func paginateRows(rows []ports.WorkerRow, limit, offset int) []ports.WorkerRow {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func (f *fakeWorkerReads) AdminListWorkers(_ context.Context, filter ports.AdminWorkerFilter) ([]ports.WorkerRow, int64, error) {
	var matched []ports.WorkerRow
	for _, row := range f.rows() {
		if filter.Verified != nil && row.Profile.Verified != *filter.Verified {
			continue
		}
		if filter.Active != nil && row.Active != *filter.Active {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			haystack := strings.ToLower(fmt.Sprintf("%s %s %s", row.Profile.FirstName, row.Profile.LastName, row.Email))
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, row)
	}
	return paginateRows(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (f *fakeWorkerReads) DirectoryWorkers(_ context.Context, filter ports.DirectoryFilter) ([]ports.WorkerRow, int64, error) {
	var matched []ports.WorkerRow
	for _, row := range f.rows() {
		if !row.Profile.Verified || !row.Active {
			continue
		}
		if filter.Suburb != "" && !strings.EqualFold(row.Profile.Suburb, filter.Suburb) {
			continue
		}
		matched = append(matched, row)
	}
	return paginateRows(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (f *fakeOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.EventType)
	}
	return out
}

func (f *fakeOutbox) ClaimUnpublished(context.Context, int, string, time.Time) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkPublished(context.Context, uuid.UUID, string, time.Time) error { return nil }

func (f *fakeOutbox) MarkFailed(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

func (f *fakeOutbox) MarkDeadLettered(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

type fakeIdempotency struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
}

func (f *fakeIdempotency) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		return nil, nil
	}
	copied := rec
	return &copied, nil
}

func (f *fakeIdempotency) Reserve(_ context.Context, key, requestHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.records[key]; exists {
		return domain.ErrConflict
	}
	f.records[key] = ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Status:      "PENDING",
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (f *fakeIdempotency) Complete(_ context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = "COMPLETED"
	rec.ResponseCode = responseCode
	rec.ResponseBody = responseBody
	rec.UpdatedAt = at
	f.records[key] = rec
	return nil
}

type fakeLockouts struct {
	mu    sync.Mutex
	state map[string]ports.LockoutState
}

func (f *fakeLockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[key], nil
}

func (f *fakeLockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := f.state[key]
	state.FailedCount++
	if state.FailedCount >= threshold {
		until := now.Add(lockoutWindow)
		state.LockedUntil = &until
	}
	f.state[key] = state
	return state, nil
}

func (f *fakeLockouts) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state, key)
	return nil
}

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[uuid.UUID]bool
}

func (f *fakeRevocations) MarkRevoked(_ context.Context, sessionID uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[sessionID] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, sessionID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[sessionID], nil
}

type fakeWizards struct {
	mu     sync.Mutex
	drafts map[string]domain.RegistrationDraft
}

func (f *fakeWizards) Put(_ context.Context, token string, draft domain.RegistrationDraft, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[token] = draft
	return nil
}

func (f *fakeWizards) Get(_ context.Context, token string) (*domain.RegistrationDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[token]
	if !ok {
		return nil, nil
	}
	copied := draft
	return &copied, nil
}

func (f *fakeWizards) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, token)
	return nil
}

type fakeBlob struct {
	contentType string
	data        []byte
}

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string]fakeBlob
}

func (f *fakeBlobs) Put(_ context.Context, key, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeBlob{contentType: contentType, data: append([]byte(nil), data...)}
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	blob, ok := f.objects[key]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(blob.data)), blob.contentType, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type fakeHasher struct{}

func (f *fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (f *fakeHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type fakeSigner struct {
	mu     sync.Mutex
	tokens map[string]ports.AuthClaims
}

func (f *fakeSigner) Sign(claims ports.AuthClaims) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "token-" + uuid.NewString()
	f.tokens[token] = claims
	return token, nil
}

func (f *fakeSigner) ParseAndValidate(token string) (ports.AuthClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claims, ok := f.tokens[token]
	if !ok {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	return claims, nil
}

func (f *fakeSigner) PublicJWKs() ([]map[string]any, error) {
	return []map[string]any{{"kid": "fake"}}, nil
}
