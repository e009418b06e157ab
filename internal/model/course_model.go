package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Course struct {
	ID                   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	BootcampID           bson.ObjectID `bson:"bootcamp" json:"bootcampId"`
	User                 bson.ObjectID `bson:"user" json:"user"`
	Title                string        `bson:"title" json:"title"`
	Description          string        `bson:"description" json:"description"`
	Weeks                int           `bson:"weeks" json:"weeks"`
	Tuition              float64       `bson:"tuition" json:"tuition"`
	MinimumSkill         string        `bson:"minimumSkill" json:"minimumSkill"`
	ScholarshipAvailable bool          `bson:"scholarshipAvailable" json:"scholarshipAvailable"`
	CreatedAt            time.Time     `bson:"createdAt" json:"createdAt"`

	// Bootcamp is filled in when the relation is expanded; never stored.
	Bootcamp *BootcampSummary `bson:"-" json:"bootcamp,omitempty"`
}
