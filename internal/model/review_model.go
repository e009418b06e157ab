package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Review struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	BootcampID bson.ObjectID `bson:"bootcamp" json:"bootcampId"`
	User       bson.ObjectID `bson:"user" json:"user"`
	Title      string        `bson:"title" json:"title"`
	Text       string        `bson:"text" json:"text"`
	Rating     int           `bson:"rating" json:"rating"` // 1-10
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`

	Bootcamp *BootcampSummary `bson:"-" json:"bootcamp,omitempty"`
}
