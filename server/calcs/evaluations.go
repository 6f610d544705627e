package calcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/google/uuid"
)

// CreateEvaluation evaluates expr with the given variables on behalf of the
// user and stores the result. Returns the stored evaluation.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if expr is
// blank or too long, serr.ErrEvaluation if expr could not be evaluated, and
// serr.ErrDB for an unexpected problem with the DB. Evaluation errors keep the
// calculator's error as a cause, and their message is safe to show the user.
func (svc Service) CreateEvaluation(ctx context.Context, userID uuid.UUID, expr string, vars map[string]any) (dao.Evaluation, error) {
	if strings.TrimSpace(expr) == "" {
		return dao.Evaluation{}, serr.New("expression cannot be blank", serr.ErrBadArgument)
	}
	if len(expr) > svc.maxExprLength() {
		msg := fmt.Sprintf("expression cannot be longer than %d bytes", svc.maxExprLength())
		return dao.Evaluation{}, serr.New(msg, serr.ErrBadArgument)
	}

	result, err := svc.Calc.EvaluateToken(expr, vars)
	if err != nil {
		return dao.Evaluation{}, serr.Evaluation(err)
	}

	ev := dao.Evaluation{
		UserID:     userID,
		Expression: expr,
		Result:     result,
	}

	ev, err = svc.DB.Evaluations().Create(ctx, ev)
	if err != nil {
		return dao.Evaluation{}, serr.WrapDB("could not store evaluation", err)
	}

	return ev, nil
}

// GetEvaluation returns the evaluation with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if no evaluation
// with that ID exists, serr.ErrBadArgument if the ID is malformed, and
// serr.ErrDB for an unexpected problem with the DB.
func (svc Service) GetEvaluation(ctx context.Context, id string) (dao.Evaluation, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Evaluation{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	ev, err := svc.DB.Evaluations().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Evaluation{}, serr.ErrNotFound
		}
		return dao.Evaluation{}, serr.WrapDB("could not get evaluation", err)
	}

	return ev, nil
}

// GetAllEvaluations returns every evaluation the user has made, oldest first.
func (svc Service) GetAllEvaluations(ctx context.Context, userID uuid.UUID) ([]dao.Evaluation, error) {
	evs, err := svc.DB.Evaluations().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return evs, nil
}

// DeleteEvaluation deletes the evaluation with the given ID and returns it as
// it was just before deletion.
//
// The returned error, if non-nil, will match serr.ErrNotFound if no evaluation
// with that ID exists, serr.ErrBadArgument if the ID is malformed, and
// serr.ErrDB for an unexpected problem with the DB.
func (svc Service) DeleteEvaluation(ctx context.Context, id string) (dao.Evaluation, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Evaluation{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	ev, err := svc.DB.Evaluations().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Evaluation{}, serr.ErrNotFound
		}
		return dao.Evaluation{}, serr.WrapDB("could not delete evaluation", err)
	}

	return ev, nil
}
