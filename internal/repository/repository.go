package repository

import "regexp"

// Collection names. Indexes for these are managed by the migrations
// under migrations/, not by the repositories themselves.
const (
	CollectionUsers    = "users"
	CollectionTeachers = "teachers"
	CollectionMajors   = "majors"
	CollectionCourses  = "courses"
	CollectionLectures = "lectures"
	CollectionRatings  = "ratings"
	CollectionComments = "comments"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// listWindow converts a page/perPage pair into skip/limit values,
// clamping out-of-range input instead of failing on it.
func listWindow(page, perPage int) (skip, limit int64) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return int64(page-1) * int64(perPage), int64(perPage)
}

// regexQuote escapes search input before it is embedded in a $regex
// filter, so "c++" matches literally instead of breaking the query.
func regexQuote(s string) string {
	return regexp.QuoteMeta(s)
}
