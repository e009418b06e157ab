package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// Account is a registered identity. PasswordHash is excluded from normal
// reads at the repository level and never JSON-encoded.
type Account struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password" json:"-"`
	Role         string        `bson:"role" json:"role"`

	ResetPasswordToken  string     `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time `bson:"resetPasswordExpire,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RolePublisher || r == RoleAdmin
}
