package sqlite

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/syntax"
	"github.com/google/uuid"
)

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: UUID %q: %v", dao.ErrDecodingFailed, s, err)
	}
	*target = u
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return r.String()
}

func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return fmt.Errorf("%w: role %q: %v", dao.ErrDecodingFailed, s, err)
	}
	*target = r
	return nil
}

// a nil email is stored as the empty string.
func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}
	email, err := mail.ParseAddress(s)
	if err != nil {
		return fmt.Errorf("%w: email %q: %v", dao.ErrDecodingFailed, s, err)
	}
	*target = email
	return nil
}

// times are stored as unix seconds.
func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

func convertFromDB_Time(secs int64, target *time.Time) error {
	*target = time.Unix(secs, 0)
	return nil
}

// tokens are stored as base64 text of their REZI encoding.
func convertToDB_Token(t syntax.Token) string {
	return base64.StdEncoding.EncodeToString(rezi.EncBinary(t))
}

func convertFromDB_Token(s string, target *syntax.Token) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: token: %v", dao.ErrDecodingFailed, err)
	}

	var t syntax.Token
	if _, err := rezi.DecBinary(data, &t); err != nil {
		return fmt.Errorf("%w: token: %v", dao.ErrDecodingFailed, err)
	}
	*target = t
	return nil
}
