package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// PlanDaysKey returns the cache key for the serialized day-by-day plan.
func (r *CacheKeyStruct) PlanDaysKey() string {
	return "plan:days"
}

// PlanUpdatesChannel returns the Redis PubSub channel for plan-change events.
func (r *CacheKeyStruct) PlanUpdatesChannel() string {
	return "plan:updates"
}

// OwnerSessionKey returns the cache key for the owner's active login session.
func (r *CacheKeyStruct) OwnerSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// ExamStatsKey returns the cache key for one exam's computed statistics.
func (r *CacheKeyStruct) ExamStatsKey(examID string) string {
	return fmt.Sprintf("exam:%s:stats", examID)
}

var CacheKey = NewCacheKeyStruct()
