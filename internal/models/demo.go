package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Demo documents are session-scoped shadow copies of the real resources. They
// carry the opaque session correlation key and an absolute expiry instant; the
// store's TTL index purges them once expires_at passes.

type DemoBootcamp struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID     string             `bson:"session_id" json:"session_id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Careers       []string           `bson:"careers,omitempty" json:"careers,omitempty"`
	Housing       bool               `bson:"housing" json:"housing"`
	JobAssistance bool               `bson:"job_assistance" json:"job_assistance"`
	JobGuarantee  bool               `bson:"job_guarantee" json:"job_guarantee"`
	AcceptGi      bool               `bson:"accept_gi" json:"accept_gi"`
	ExpiresAt     time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`

	Courses []DemoCourse `bson:"-" json:"courses,omitempty"`
}

func (b *DemoBootcamp) Validate() error {
	real := Bootcamp{
		Name:        b.Name,
		Description: b.Description,
		Website:     b.Website,
		Careers:     b.Careers,
	}
	return real.Validate()
}

type DemoCourse struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID             string             `bson:"session_id" json:"session_id"`
	Title                 string             `bson:"title" json:"title"`
	Description           string             `bson:"description" json:"description"`
	Weeks                 int                `bson:"weeks" json:"weeks"`
	Tuition               float64            `bson:"tuition" json:"tuition"`
	MinimumSkill          string             `bson:"minimum_skill" json:"minimum_skill"`
	ScholarshipsAvailable bool               `bson:"scholarships_available" json:"scholarships_available"`
	Bootcamp              primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	ExpiresAt             time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`

	BootcampInfo *BootcampSummary `bson:"-" json:"bootcamp_info,omitempty"`
}

func (c *DemoCourse) Validate() error {
	real := Course{
		Title:        c.Title,
		Description:  c.Description,
		Weeks:        c.Weeks,
		Tuition:      c.Tuition,
		MinimumSkill: c.MinimumSkill,
	}
	return real.Validate()
}

type DemoReview struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating" json:"rating"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	BootcampInfo *BootcampSummary `bson:"-" json:"bootcamp_info,omitempty"`
}

func (r *DemoReview) Validate() error {
	real := Review{Title: r.Title, Text: r.Text, Rating: r.Rating}
	return real.Validate()
}
