package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ReportVersionKey holds a counter bumped on every marks or subject write for an exam and class.
func (r *CacheKeyStruct) ReportVersionKey(examName, className string) string {
	return fmt.Sprintf("report:%s:%s:version", examName, className)
}

// ReportClassVersionKey holds a counter bumped whenever the roster of a class changes.
func (r *CacheKeyStruct) ReportClassVersionKey(className string) string {
	return fmt.Sprintf("report:class:%s:version", className)
}

// ReportKey returns the cache key for a rendered report at a given version.
func (r *CacheKeyStruct) ReportKey(examName, className, mode, policy string, version int64) string {
	return fmt.Sprintf("report:%s:%s:%s:%s:v%d", examName, className, mode, policy, version)
}

// ReportUpdatesChannel returns the Redis PubSub channel for marks updates of an exam and class.
func (r *CacheKeyStruct) ReportUpdatesChannel(examName, className string) string {
	return fmt.Sprintf("report:%s:%s:updates", examName, className)
}

// ReportClassUpdatesChannel returns the Redis PubSub channel for roster changes of a class.
func (r *CacheKeyStruct) ReportClassUpdatesChannel(className string) string {
	return fmt.Sprintf("report:class:%s:updates", className)
}

// ExportJobKey returns the cache key for an export job's status
func (r *CacheKeyStruct) ExportJobKey(jobID string) string {
	return fmt.Sprintf("export:%s", jobID)
}

var CacheKey = NewCacheKeyStruct()
