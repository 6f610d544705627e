package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/syntax"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_UsersRepository_conflicts(t *testing.T) {
	testCases := []struct {
		name      string
		existing  []string
		create    string
		expectErr error
	}{
		{
			name:   "new username",
			create: "sollux",
		},
		{
			name:      "duplicate username",
			existing:  []string{"sollux"},
			create:    "sollux",
			expectErr: dao.ErrConstraintViolation,
		},
		{
			name:     "different username",
			existing: []string{"sollux", "aradia"},
			create:   "feferi",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			repo := NewUsersRepository()

			for _, name := range tc.existing {
				_, err := repo.Create(ctx, dao.User{Username: name})
				if !assert.NoError(err) {
					return
				}
			}

			actual, err := repo.Create(ctx, dao.User{Username: tc.create})
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.create, actual.Username)
		})
	}
}

func Test_EvaluationsRepository(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := NewDatastore()

	user, err := st.Users().Create(ctx, dao.User{Username: "eridan"})
	if !assert.NoError(err) {
		return
	}

	first, err := st.Evaluations().Create(ctx, dao.Evaluation{UserID: user.ID, Expression: "1 + 1", Result: syntax.NumInt(2)})
	assert.NoError(err)
	second, err := st.Evaluations().Create(ctx, dao.Evaluation{UserID: user.ID, Expression: "2 * 3", Result: syntax.NumInt(6)})
	assert.NoError(err)

	all, err := st.Evaluations().GetAllByUser(ctx, user.ID)
	assert.NoError(err)
	if assert.Len(all, 2) {
		assert.Equal(first.ID, all[0].ID)
		assert.Equal(second.ID, all[1].ID)
	}

	_, err = st.Evaluations().Delete(ctx, first.ID)
	assert.NoError(err)
	_, err = st.Evaluations().Delete(ctx, first.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	count, err := st.Evaluations().DeleteAllByUser(ctx, user.ID)
	assert.NoError(err)
	assert.Equal(1, count)

	all, err = st.Evaluations().GetAllByUser(ctx, user.ID)
	assert.NoError(err)
	assert.Empty(all)
}

func Test_EvaluationsRepository_Create_notAResult(t *testing.T) {
	assert := assert.New(t)
	st := NewDatastore()

	_, err := st.Evaluations().Create(context.Background(), dao.Evaluation{
		UserID:     uuid.New(),
		Expression: "+",
		Result:     syntax.OpToken(syntax.OpAdd),
	})

	assert.ErrorIs(err, dao.ErrNotAResult)
}
