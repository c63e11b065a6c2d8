package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Devworks Bootcamp":     "devworks-bootcamp",
		"  ModernTech  ":        "moderntech",
		"C++ & Go: The Basics!": "c-go-the-basics",
		"already-slugged":       "already-slugged",
		"":                      "",
	}

	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestRunParallelTasksPreservesOrder(t *testing.T) {
	tasks := []ParallelTask{
		func() (interface{}, error) { return "a", nil },
		func() (interface{}, error) { return nil, errors.New("boom") },
		func() (interface{}, error) { return "c", nil },
	}

	results, errs := RunParallelTasks(tasks)

	assert.Equal(t, "a", results[0])
	assert.Nil(t, results[1])
	assert.Equal(t, "c", results[2])
	assert.NoError(t, errs[0])
	assert.EqualError(t, errs[1], "boom")
	assert.NoError(t, errs[2])
}

func TestFirstError(t *testing.T) {
	assert.NoError(t, FirstError([]error{nil, nil}))

	boom := errors.New("boom")
	assert.Equal(t, boom, FirstError([]error{nil, boom, errors.New("later")}))
}
