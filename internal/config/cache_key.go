package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a user's active session JTI
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

// MajorsListKey returns the cache key for the full majors listing
func (r *CacheKeyStruct) MajorsListKey() string {
	return "catalog:majors"
}

// MajorCoursesKey returns the cache key for a major's course listing
func (r *CacheKeyStruct) MajorCoursesKey(majorID string) string {
	return fmt.Sprintf("catalog:major:%s:courses", majorID)
}

// CourseDocKey returns the cache key for a course detail document
func (r *CacheKeyStruct) CourseDocKey(courseID string) string {
	return fmt.Sprintf("catalog:course:%s:doc", courseID)
}

// RatingSummaryKey returns the cache key for a subject's rating summary
func (r *CacheKeyStruct) RatingSummaryKey(subjectType, subjectID string) string {
	return fmt.Sprintf("rating:%s:%s:summary", subjectType, subjectID)
}

// FeedbackChannel returns the Redis PubSub channel carrying live feedback events
func (r *CacheKeyStruct) FeedbackChannel() string {
	return "feedback:events"
}

var CacheKey = NewCacheKeyStruct()
