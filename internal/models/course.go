package models

import (
	"strings"
	"time"

	"github.com/kodekamper/api/internal/httperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

type Course struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title                 string             `bson:"title" json:"title"`
	Description           string             `bson:"description" json:"description"`
	Weeks                 int                `bson:"weeks" json:"weeks"`
	Tuition               float64            `bson:"tuition" json:"tuition"`
	MinimumSkill          string             `bson:"minimum_skill" json:"minimum_skill"`
	ScholarshipsAvailable bool               `bson:"scholarships_available" json:"scholarships_available"`
	Bootcamp              primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User                  primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`

	// Populated parent summary, never persisted.
	BootcampInfo *BootcampSummary `bson:"-" json:"bootcamp_info,omitempty"`
}

// BootcampSummary is the slim parent view attached by populate.
type BootcampSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return httperr.BadRequest("please add a course title")
	}
	if strings.TrimSpace(c.Description) == "" {
		return httperr.BadRequest("please add a description")
	}
	if c.Weeks <= 0 {
		return httperr.BadRequest("please add number of weeks")
	}
	if c.Tuition <= 0 {
		return httperr.BadRequest("please add a tuition cost")
	}
	switch c.MinimumSkill {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
	default:
		return httperr.BadRequest("minimum skill must be one of beginner, intermediate, advanced")
	}
	return nil
}
