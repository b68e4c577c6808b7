package model

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUIDWithPrefix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithPrefix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// CopyMetadata returns a defensive copy of a metadata map. A nil input yields
// an empty, non-nil map so stored entities never alias caller state.
func CopyMetadata(metadata map[string]string) map[string]string {
	copied := make(map[string]string, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	return copied
}

// MergeMetadata folds an update map into existing metadata. A nil value for a
// key removes that key, a non-nil value overrides it, and keys absent from the
// update are kept as-is. The result is a new map.
func MergeMetadata(existing map[string]string, updates map[string]*string) map[string]string {
	merged := CopyMetadata(existing)
	for k, v := range updates {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = *v
	}
	return merged
}
