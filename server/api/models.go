package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/syntax"
	"github.com/shopspring/decimal"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Engine string `json:"engine"`
	} `json:"version"`
	Limits struct {
		MaxExprLength int `json:"max_expression_length"`
		MaxDepth      int `json:"max_depth"`
	} `json:"limits"`
	Functions []string `json:"functions"`
	User      string   `json:"user,omitempty"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

// EvaluationRequest is the body of a request to evaluate an expression.
// Variables holds JSON numbers, bools, and strings by name.
type EvaluationRequest struct {
	Expression string         `json:"expression"`
	Variables  map[string]any `json:"variables,omitempty"`
}

// bindings converts Variables to values the calculator accepts. JSON numbers
// become decimals so they keep every digit the client sent.
func (er EvaluationRequest) bindings() (map[string]any, error) {
	vars := make(map[string]any, len(er.Variables))
	for name, v := range er.Variables {
		switch tv := v.(type) {
		case json.Number:
			d, err := decimal.NewFromString(tv.String())
			if err != nil {
				return nil, fmt.Errorf("variables: %s: %w", name, err)
			}
			if exp := d.Exponent(); exp > syntax.MaxScale || exp < -syntax.MaxScale {
				return nil, fmt.Errorf("variables: %s: %s has too many digits", name, tv)
			}
			vars[name] = d
		case bool, string:
			vars[name] = tv
		default:
			return nil, fmt.Errorf("variables: %s: must be a number, bool, or string", name)
		}
	}
	return vars, nil
}

// EvaluationModel is an evaluation as sent to the client. Result is a JSON
// number, bool, or string according to Type.
type EvaluationModel struct {
	URI        string `json:"uri"`
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Expression string `json:"expression"`
	Result     any    `json:"result"`
	Type       string `json:"type"`
	Created    string `json:"created"`
}

func userToModel(u dao.User) UserModel {
	m := UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
		LastLoginTime:  u.LastLoginTime.Format(time.RFC3339),
	}
	if u.Email != nil {
		m.Email = u.Email.Address
	}
	return m
}

func evaluationToModel(ev dao.Evaluation) EvaluationModel {
	m := EvaluationModel{
		URI:        PathPrefix + "/evaluations/" + ev.ID.String(),
		ID:         ev.ID.String(),
		UserID:     ev.UserID.String(),
		Expression: ev.Expression,
		Result:     ev.Result.Value,
		Type:       ev.Result.Category.String(),
		Created:    ev.Created.Format(time.RFC3339),
	}

	// decimals marshal as strings by default; send them as numbers
	if d, ok := ev.Result.Value.(decimal.Decimal); ok && ev.Result.Category == syntax.Numeric {
		m.Result = json.Number(d.String())
	}

	return m
}
