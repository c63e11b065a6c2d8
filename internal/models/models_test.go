package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBootcampValidate(t *testing.T) {
	valid := Bootcamp{
		Name:        "Devworks Bootcamp",
		Description: "Full stack web development",
		Website:     "https://devworks.com",
		Careers:     []string{"Web Development", "UI/UX"},
	}
	assert.NoError(t, valid.Validate())

	missingName := valid
	missingName.Name = "  "
	assert.EqualError(t, missingName.Validate(), "please add a name")

	longName := valid
	longName.Name = strings.Repeat("x", 51)
	assert.Error(t, longName.Validate())

	longDescription := valid
	longDescription.Description = strings.Repeat("x", 501)
	assert.Error(t, longDescription.Validate())

	badWebsite := valid
	badWebsite.Website = "ftp://devworks.com"
	assert.Error(t, badWebsite.Validate())

	badCareer := valid
	badCareer.Careers = []string{"Underwater Basket Weaving"}
	assert.Error(t, badCareer.Validate())
}

func TestCourseValidate(t *testing.T) {
	valid := Course{
		Title:        "Front End Web Development",
		Description:  "HTML, CSS, JavaScript",
		Weeks:        8,
		Tuition:      8000,
		MinimumSkill: SkillBeginner,
	}
	assert.NoError(t, valid.Validate())

	badSkill := valid
	badSkill.MinimumSkill = "expert"
	assert.Error(t, badSkill.Validate())

	noWeeks := valid
	noWeeks.Weeks = 0
	assert.Error(t, noWeeks.Validate())
}

func TestReviewValidate(t *testing.T) {
	valid := Review{Title: "Great bootcamp", Text: "Learned a lot", Rating: 8}
	assert.NoError(t, valid.Validate())

	for _, rating := range []int{0, 11, -3} {
		bad := valid
		bad.Rating = rating
		assert.Error(t, bad.Validate(), "rating %d", rating)
	}

	longTitle := valid
	longTitle.Title = strings.Repeat("x", 101)
	assert.Error(t, longTitle.Validate())
}

func TestUserValidate(t *testing.T) {
	valid := User{Name: "John Doe", Email: "john@example.com", Password: "password123"}
	assert.NoError(t, valid.Validate())

	publisher := valid
	publisher.Role = RolePublisher
	assert.NoError(t, publisher.Validate())

	admin := valid
	admin.Role = RoleAdmin
	assert.Error(t, admin.Validate(), "self-registration as admin is rejected")

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.Error(t, badEmail.Validate())

	shortPassword := valid
	shortPassword.Password = "12345"
	assert.Error(t, shortPassword.Validate())
}

func TestDemoValidateDelegates(t *testing.T) {
	bootcamp := DemoBootcamp{Name: "Devworks"}
	assert.NoError(t, bootcamp.Validate())

	bootcamp.Name = ""
	assert.Error(t, bootcamp.Validate())

	review := DemoReview{Title: "Nice", Text: "text", Rating: 12}
	assert.Error(t, review.Validate())
}
