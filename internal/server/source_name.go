package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/matchday-service/internal/providers"
)

// normalizeSourceName returns a lower-cased source name, deriving it from the instance when not configured.
func normalizeSourceName(raw string, source providers.FixtureSource) string {
	if raw = strings.TrimSpace(raw); raw != "" {
		return strings.ToLower(raw)
	}
	if named, ok := source.(interface{ Name() string }); ok && named.Name() != "" {
		return strings.ToLower(named.Name())
	}
	if source != nil {
		return strings.ToLower(fmt.Sprintf("%T", source))
	}
	return "source"
}
