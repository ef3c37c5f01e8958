package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polycampus/backend/internal/app/models"
)

// Repositories bundles every repository over one connection pool.
type Repositories struct {
	Faculty *ContentRepository
	Routine *ContentRepository
	Notice  *ContentRepository
	Users   *UserRepository
	Tokens  *TokenRepository
}

// NewRepositories creates all repositories.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Faculty: NewContentRepository(db, models.FacultySpec),
		Routine: NewContentRepository(db, models.RoutineSpec),
		Notice:  NewContentRepository(db, models.NoticeSpec),
		Users:   NewUserRepository(db),
		Tokens:  NewTokenRepository(db),
	}
}
