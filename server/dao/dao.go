// Package dao provides data access objects for use in the calculator server.
package dao

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/tunacalc/syntax"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Evaluations() EvaluationRepository
	Close() error
}

type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

type EvaluationRepository interface {

	// Create stores a new Evaluation. The ID and Created time are generated.
	Create(ctx context.Context, ev Evaluation) (Evaluation, error)
	GetByID(ctx context.Context, id uuid.UUID) (Evaluation, error)

	// GetAllByUser returns every Evaluation owned by the user, oldest first.
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Evaluation, error)
	Delete(ctx context.Context, id uuid.UUID) (Evaluation, error)

	// DeleteAllByUser removes every Evaluation owned by the user and returns
	// how many there were.
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Evaluation is an expression a user had the server evaluate, along with its
// result.
type Evaluation struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Expression string
	Result     syntax.Token
	Created    time.Time
}

// CheckResult returns ErrNotAResult if ev's result is not a Numeric, Logical,
// or String token.
func (ev Evaluation) CheckResult() error {
	if !ev.Result.Category.IsValue() {
		return fmt.Errorf("%w: %s token", ErrNotAResult, ev.Result.Category)
	}
	return nil
}
