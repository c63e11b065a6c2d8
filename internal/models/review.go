package models

import (
	"strings"
	"time"

	"github.com/kodekamper/api/internal/httperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating" json:"rating"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User      primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	BootcampInfo *BootcampSummary `bson:"-" json:"bootcamp_info,omitempty"`
}

func (r *Review) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return httperr.BadRequest("please add a title for the review")
	}
	if len(title) > 100 {
		return httperr.BadRequest("title cannot be more than 100 characters")
	}
	if strings.TrimSpace(r.Text) == "" {
		return httperr.BadRequest("please add some text")
	}
	if r.Rating < 1 || r.Rating > 10 {
		return httperr.BadRequest("please add a rating between 1 and 10")
	}
	return nil
}
