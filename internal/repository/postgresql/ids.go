package postgresql

import "github.com/anpk/attendance-backend-go/internal/pkg/validator"

// isUUID reports whether id can be bound to a UUID column. Anything else
// cannot match a row, so lookups treat it as absent.
func isUUID(id string) bool {
	return validator.IsValidUUID(id)
}

func onlyUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			out = append(out, id)
		}
	}
	return out
}
