package models

import (
	"strings"
	"time"

	"github.com/kodekamper/api/internal/httperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidCareers is the allowed set of career tags.
var ValidCareers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Location is a GeoJSON Point plus the geocoder's address breakdown.
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
	FormattedAddress string    `bson:"formatted_address,omitempty" json:"formatted_address,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

type Bootcamp struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Address       string             `bson:"-" json:"address,omitempty"` // input only, geocoded into Location
	Location      *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Careers       []string           `bson:"careers,omitempty" json:"careers,omitempty"`
	Housing       bool               `bson:"housing" json:"housing"`
	JobAssistance bool               `bson:"job_assistance" json:"job_assistance"`
	JobGuarantee  bool               `bson:"job_guarantee" json:"job_guarantee"`
	AcceptGi      bool               `bson:"accept_gi" json:"accept_gi"`
	AverageRating float64            `bson:"average_rating,omitempty" json:"average_rating,omitempty"`
	AverageCost   float64            `bson:"average_cost,omitempty" json:"average_cost,omitempty"`
	Photo         string             `bson:"photo,omitempty" json:"photo,omitempty"`
	User          primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`

	// Populated relations, never persisted.
	Courses []Course `bson:"-" json:"courses,omitempty"`
}

func (b *Bootcamp) Validate() error {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		return httperr.BadRequest("please add a name")
	}
	if len(name) > 50 {
		return httperr.BadRequest("name cannot be more than 50 characters")
	}
	if len(b.Description) > 500 {
		return httperr.BadRequest("description cannot be more than 500 characters")
	}
	if b.Website != "" && !strings.HasPrefix(b.Website, "http://") && !strings.HasPrefix(b.Website, "https://") {
		return httperr.BadRequest("please use a valid URL with HTTP or HTTPS")
	}
	for _, career := range b.Careers {
		if !validCareer(career) {
			return httperr.BadRequest("invalid career %s", career)
		}
	}
	return nil
}

func validCareer(career string) bool {
	for _, c := range ValidCareers {
		if c == career {
			return true
		}
	}
	return false
}
