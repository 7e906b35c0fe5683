package postgres

import (
	"gorm.io/gorm"

	"github.com/carebridge/marketplace/internal/ports"
)

// Repositories bundles every Postgres-backed port implementation.
type Repositories struct {
	Users         ports.UserRepository
	Sessions      ports.SessionRepository
	LoginAttempts ports.LoginAttemptRepository
	Workers       ports.WorkerProfileRepository
	Clients       ports.ClientProfileRepository
	Coordinators  ports.CoordinatorProfileRepository
	Catalog       ports.CatalogRepository
	Documents     ports.DocumentRepository
	Requirements  ports.RequirementRepository
	WorkerReads   ports.WorkerReadRepository
	Outbox        ports.OutboxRepository
	Idempotency   ports.IdempotencyRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         &userRepository{db: db},
		Sessions:      &sessionRepository{db: db},
		LoginAttempts: &loginAttemptRepository{db: db},
		Workers:       &workerProfileRepository{db: db},
		Clients:       &clientProfileRepository{db: db},
		Coordinators:  &coordinatorProfileRepository{db: db},
		Catalog:       &catalogRepository{db: db},
		Documents:     &documentRepository{db: db},
		Requirements:  &requirementRepository{db: db},
		WorkerReads:   &workerReadRepository{db: db},
		Outbox:        &outboxRepository{db: db},
		Idempotency:   &idempotencyRepository{db: db},
	}
}
