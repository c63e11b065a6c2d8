package models

import (
	"strings"
	"time"

	"github.com/kodekamper/api/internal/httperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password,omitempty" json:"-"`
	Role                string             `bson:"role" json:"role"`
	ResetPasswordToken  string             `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpire time.Time          `bson:"reset_password_expire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
}

// Validate checks the registration constraints. Role may only be user or
// publisher; admins are created out of band.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return httperr.BadRequest("please add a name")
	}
	if !strings.Contains(u.Email, "@") || strings.ContainsAny(u.Email, " \t") {
		return httperr.BadRequest("please add a valid email")
	}
	if len(u.Password) < 6 {
		return httperr.BadRequest("password must be at least 6 characters")
	}
	switch u.Role {
	case "", RoleUser, RolePublisher:
	default:
		return httperr.BadRequest("invalid role %s", u.Role)
	}
	return nil
}
