// Package inmem provides a dao.Store that keeps users and evaluation history
// in memory. Everything is lost when the server stops.
package inmem

import (
	"errors"

	"github.com/dekarrin/tunacalc/server/dao"
)

type store struct {
	users *InMemoryUsersRepository
	evals *InMemoryEvaluationsRepository
}

// NewDatastore returns an empty in-memory store.
func NewDatastore() dao.Store {
	return &store{
		users: NewUsersRepository(),
		evals: NewEvaluationsRepository(),
	}
}

func (s *store) Users() dao.UserRepository             { return s.users }
func (s *store) Evaluations() dao.EvaluationRepository { return s.evals }

func (s *store) Close() error {
	return errors.Join(s.users.Close(), s.evals.Close())
}
