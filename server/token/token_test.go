package token

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/dao/inmem"
	"github.com/stretchr/testify/assert"
)

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{name: "no header", expectErr: true},
		{name: "bearer token", header: "Bearer abc.def.ghi", expect: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", expect: "abc"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", expectErr: true},
		{name: "scheme only", header: "Bearer", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			actual, err := Get(req)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_GenerateAndValidate(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	ctx := context.Background()

	setup := func(t *testing.T) (dao.UserRepository, dao.User) {
		repo := inmem.NewUsersRepository()
		user, err := repo.Create(ctx, dao.User{Username: "nepeta", Password: "hashed-pass"})
		if err != nil {
			t.Fatal(err)
		}
		return repo, user
	}

	t.Run("valid token", func(t *testing.T) {
		assert := assert.New(t)
		repo, user := setup(t)

		tok, err := Generate(secret, user)
		if !assert.NoError(err) {
			return
		}

		actual, err := Validate(ctx, tok, secret, repo)
		assert.NoError(err)
		assert.Equal(user.ID, actual.ID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert := assert.New(t)
		repo, user := setup(t)

		tok, err := Generate(secret, user)
		if !assert.NoError(err) {
			return
		}

		_, err = Validate(ctx, tok, []byte("some other secret entirely......"), repo)
		assert.Error(err)
	})

	t.Run("logout invalidates token", func(t *testing.T) {
		assert := assert.New(t)
		repo, user := setup(t)

		tok, err := Generate(secret, user)
		if !assert.NoError(err) {
			return
		}

		user.LastLogoutTime = user.LastLogoutTime.Add(10 * time.Second)
		_, err = repo.Update(ctx, user.ID, user)
		if !assert.NoError(err) {
			return
		}

		_, err = Validate(ctx, tok, secret, repo)
		assert.Error(err)
	})

	t.Run("deleted user", func(t *testing.T) {
		assert := assert.New(t)
		repo, user := setup(t)

		tok, err := Generate(secret, user)
		if !assert.NoError(err) {
			return
		}

		_, err = repo.Delete(ctx, user.ID)
		if !assert.NoError(err) {
			return
		}

		_, err = Validate(ctx, tok, secret, repo)
		assert.Error(err)
	})
}
