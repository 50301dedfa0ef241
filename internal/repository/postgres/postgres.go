package postgres

import (
	"database/sql"

	"hoteldesk-panel/internal/repository"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

// psql builds queries with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Store struct {
	db *sql.DB
	repository.SubmissionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                   db,
		SubmissionRepository: NewSubmissionRepository(db),
	}
}

// Ping checks the outbox database is reachable
func (s *Store) Ping() error {
	return s.db.Ping()
}
