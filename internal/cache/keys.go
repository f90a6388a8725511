package cache

import "strings"

const (
	GlobalKeyPrefix = "interviewcoach"
)

// GenerateCacheKey builds a namespaced key from a service, object type and identifier.
// Any paramsKey values are joined by "_" and appended as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}
