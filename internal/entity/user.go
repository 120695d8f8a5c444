package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	RoleStudent = "student"
	RoleWorking = "working"
)

type User struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Username      string        `bson:"username"`
	Email         string        `bson:"email"`
	EmailVerified bool          `bson:"emailVerified"`
	ProfilePic    *string       `bson:"profilePic"`
	CompanyName   *string       `bson:"companyName"`
	Role          *string       `bson:"role"`
	LinkedIn      *string       `bson:"linkedIn"`
	Interests     []string      `bson:"interests"`
	CreatedAt     time.Time     `bson:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"`
}
