package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Location is a GeoJSON Point with the formatted address alongside it.
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
	FormattedAddress string    `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

type Bootcamp struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User        bson.ObjectID `bson:"user" json:"user"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Website     string        `bson:"website,omitempty" json:"website,omitempty"`
	Phone       string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string        `bson:"email,omitempty" json:"email,omitempty"`
	Address     string        `bson:"address,omitempty" json:"address,omitempty"`
	Location    *Location     `bson:"location,omitempty" json:"location,omitempty"`
	Careers     []string      `bson:"careers,omitempty" json:"careers,omitempty"`

	AverageRating float64 `bson:"averageRating,omitempty" json:"averageRating,omitempty"`
	AverageCost   float64 `bson:"averageCost,omitempty" json:"averageCost,omitempty"`
	Photo         string  `bson:"photo,omitempty" json:"photo,omitempty"`

	Housing       bool `bson:"housing" json:"housing"`
	JobAssistance bool `bson:"jobAssistance" json:"jobAssistance"`
	JobGuarantee  bool `bson:"jobGuarantee" json:"jobGuarantee"`
	AcceptGi      bool `bson:"acceptGi" json:"acceptGi"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// BootcampSummary is the reduced view attached to courses and reviews when
// the bootcamp relation is expanded.
type BootcampSummary struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
}
