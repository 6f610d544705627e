package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
)

type EvaluationsDB struct {
	db *sql.DB
}

func (repo *EvaluationsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE,
		expression TEXT NOT NULL,
		result TEXT NOT NULL,
		created INTEGER NOT NULL,
		seq INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *EvaluationsDB) Create(ctx context.Context, ev dao.Evaluation) (dao.Evaluation, error) {
	if err := ev.CheckResult(); err != nil {
		return dao.Evaluation{}, err
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Evaluation{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.PrepareContext(ctx, `INSERT INTO evaluations (id, user_id, expression, result, created, seq) VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM evaluations))`)
	if err != nil {
		return dao.Evaluation{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(ev.UserID),
		ev.Expression,
		convertToDB_Token(ev.Result),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Evaluation{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *EvaluationsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Evaluation, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, user_id, expression, result, created FROM evaluations WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanEvaluation(row)
}

func (repo *EvaluationsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Evaluation, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, expression, result, created FROM evaluations WHERE user_id = ? ORDER BY seq;`,
		convertToDB_UUID(userID),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Evaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return all, err
		}
		all = append(all, ev)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *EvaluationsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Evaluation, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM evaluations WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *EvaluationsDB) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM evaluations WHERE user_id = ?`, convertToDB_UUID(userID))
	if err != nil {
		return 0, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return 0, wrapDBError(err)
	}
	return int(rowsAff), nil
}

// Close is a no-op; the connection is shared and is closed by the owning
// store.
func (repo *EvaluationsDB) Close() error {
	return nil
}

func scanEvaluation(row scanner) (dao.Evaluation, error) {
	var ev dao.Evaluation
	var id string
	var userID string
	var result string
	var created int64

	err := row.Scan(
		&id,
		&userID,
		&ev.Expression,
		&result,
		&created,
	)
	if err != nil {
		return ev, wrapDBError(err)
	}

	err = convertFromDB_UUID(id, &ev.ID)
	if err != nil {
		return ev, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	err = convertFromDB_UUID(userID, &ev.UserID)
	if err != nil {
		return ev, fmt.Errorf("stored user ID %q is invalid: %w", userID, err)
	}
	err = convertFromDB_Token(result, &ev.Result)
	if err != nil {
		return ev, fmt.Errorf("stored result for %s is invalid: %w", id, err)
	}
	err = convertFromDB_Time(created, &ev.Created)
	if err != nil {
		return ev, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return ev, nil
}
