package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
)

func NewEvaluationsRepository() *InMemoryEvaluationsRepository {
	return &InMemoryEvaluationsRepository{
		evals:       make(map[uuid.UUID]dao.Evaluation),
		byUserIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryEvaluationsRepository struct {
	mtx         sync.RWMutex
	evals       map[uuid.UUID]dao.Evaluation
	byUserIndex map[uuid.UUID][]uuid.UUID
}

func (imer *InMemoryEvaluationsRepository) Close() error {
	return nil
}

func (imer *InMemoryEvaluationsRepository) Create(ctx context.Context, ev dao.Evaluation) (dao.Evaluation, error) {
	if err := ev.CheckResult(); err != nil {
		return dao.Evaluation{}, err
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Evaluation{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imer.mtx.Lock()
	defer imer.mtx.Unlock()

	ev.ID = newUUID
	ev.Created = time.Now()

	imer.evals[ev.ID] = ev
	imer.byUserIndex[ev.UserID] = append(imer.byUserIndex[ev.UserID], ev.ID)

	return ev, nil
}

func (imer *InMemoryEvaluationsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Evaluation, error) {
	imer.mtx.RLock()
	defer imer.mtx.RUnlock()

	ev, ok := imer.evals[id]
	if !ok {
		return dao.Evaluation{}, dao.ErrNotFound
	}
	return ev, nil
}

func (imer *InMemoryEvaluationsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Evaluation, error) {
	imer.mtx.RLock()
	defer imer.mtx.RUnlock()

	ids := imer.byUserIndex[userID]
	all := make([]dao.Evaluation, len(ids))
	for i := range ids {
		all[i] = imer.evals[ids[i]]
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Created.Before(all[j].Created)
	})

	return all, nil
}

func (imer *InMemoryEvaluationsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Evaluation, error) {
	imer.mtx.Lock()
	defer imer.mtx.Unlock()

	ev, ok := imer.evals[id]
	if !ok {
		return dao.Evaluation{}, dao.ErrNotFound
	}

	delete(imer.evals, id)

	ids := imer.byUserIndex[ev.UserID]
	kept := make([]uuid.UUID, 0, len(ids))
	for _, evID := range ids {
		if evID != id {
			kept = append(kept, evID)
		}
	}
	imer.byUserIndex[ev.UserID] = kept

	return ev, nil
}

func (imer *InMemoryEvaluationsRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	imer.mtx.Lock()
	defer imer.mtx.Unlock()

	ids := imer.byUserIndex[userID]
	for _, id := range ids {
		delete(imer.evals, id)
	}
	delete(imer.byUserIndex, userID)

	return len(ids), nil
}
