package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeacher_ExperienceYears(t *testing.T) {
	assert.Equal(t, 12, Teacher{Experience: "12 years"}.ExperienceYears())
	assert.Equal(t, 5, Teacher{Experience: "5"}.ExperienceYears())
	assert.Equal(t, 0, Teacher{Experience: "veteran"}.ExperienceYears())
	assert.Equal(t, 0, Teacher{Experience: ""}.ExperienceYears())
	assert.Equal(t, 0, Teacher{Experience: "-3 years"}.ExperienceYears())
}

func TestDirectory_ResolveSentinel(t *testing.T) {
	dir := NewDirectory(map[ClassCode]Teacher{
		"10A": {Name: "Dr. Priya Sharma"},
	})

	teacher, ok := dir.Resolve("10A")
	assert.True(t, ok)
	assert.True(t, teacher.IsAssigned())

	missing, ok := dir.Resolve("11Z")
	assert.False(t, ok)
	assert.Equal(t, NotAssignedName, missing.Name)
	assert.False(t, missing.IsAssigned())
}

func TestDirectory_ClassesSorted(t *testing.T) {
	dir := NewDirectory(map[ClassCode]Teacher{
		"12C": {}, "10A": {}, "10B": {},
	})
	assert.Equal(t, []ClassCode{"10A", "10B", "12C"}, dir.Classes())
}

func TestDirectory_AverageExperienceYears(t *testing.T) {
	dir := NewDirectory(map[ClassCode]Teacher{
		"10A": {Experience: "12 years"},
		"10B": {Experience: "8 years"},
		"12C": {Experience: "unknown"},
	})
	assert.InDelta(t, 20.0/3.0, dir.AverageExperienceYears(), 1e-9)
	assert.Equal(t, 0.0, NewDirectory(nil).AverageExperienceYears())
}

func TestDirectory_NilSafe(t *testing.T) {
	var dir *Directory
	teacher, ok := dir.Resolve("10A")
	assert.False(t, ok)
	assert.Equal(t, NotAssignedName, teacher.Name)
	assert.Equal(t, 0, dir.Len())
	assert.Nil(t, dir.Classes())
}
