package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradePoints(t *testing.T) {
	assert.Equal(t, 5.0, GradeA.Points())
	assert.Equal(t, 3.0, GradeE.Points())
	// Fx allows a retake, F does not, so Fx must rank above F.
	assert.Greater(t, GradeFx.Points(), GradeF.Points())

	assert.True(t, GradeFx.Valid())
	assert.False(t, Grade("G").Valid())
	assert.False(t, Grade("a").Valid())
}

func TestNewRatingSummary(t *testing.T) {
	summary := NewRatingSummary(SubjectCourse, "c1", map[Grade]int64{
		GradeA: 2,
		GradeC: 1,
		GradeF: 1,
	})

	require.NotNil(t, summary)
	assert.Equal(t, int64(4), summary.Total)
	// (2*5 + 1*4 + 1*1) / 4
	assert.InDelta(t, 3.75, summary.Average, 1e-9)
	assert.Equal(t, int64(0), summary.Counts[GradeB], "absent grades must appear as zero counts")
	assert.Len(t, summary.Counts, len(Grades()))
}

func TestNewRatingSummaryEmpty(t *testing.T) {
	summary := NewRatingSummary(SubjectTeacher, "t1", nil)

	assert.Equal(t, int64(0), summary.Total)
	assert.Equal(t, 0.0, summary.Average)
}

func TestPermissionsFor(t *testing.T) {
	admin := PermissionsFor(RoleAdministrator)
	assert.Contains(t, admin, PermCatalogWrite)
	assert.Contains(t, admin, PermUsersResetSes)

	mod := PermissionsFor(RoleModerator)
	assert.Equal(t, []Permission{PermFeedbackModerate}, mod)

	assert.Empty(t, PermissionsFor(RoleStudent))
	assert.Empty(t, PermissionsFor(Role("ghost")))

	// Mutating the returned slice must not leak into the role table.
	mod[0] = PermUsersWrite
	assert.Equal(t, []Permission{PermFeedbackModerate}, PermissionsFor(RoleModerator))
}

func TestUserAge(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	dob := time.Date(2004, 8, 24, 0, 0, 0, 0, time.UTC)
	u := &User{DateOfBirth: &dob}
	assert.Equal(t, 21, u.Age(now), "birthday tomorrow, still 21")

	dob = time.Date(2004, 8, 23, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 22, u.Age(now), "birthday today counts")

	assert.Equal(t, 0, (&User{}).Age(now))
}

func TestTeacherFullName(t *testing.T) {
	tr := &Teacher{FirstName: "Borys", MiddleName: "Ivanovych", LastName: "Shevchenko"}
	assert.Equal(t, "Shevchenko Borys Ivanovych", tr.FullName())

	tr.MiddleName = ""
	assert.Equal(t, "Shevchenko Borys", tr.FullName())
}
