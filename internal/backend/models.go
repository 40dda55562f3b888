package backend

// Logical model names map to different identifiers per backend: the
// chat protocol uses bare model ids while the gateway prefixes them with
// a provider namespace and version suffix. A plain lookup table is all
// this needs.

var modelTable = map[string]map[string]string{
	"anthropic": {
		"sonnet": "claude-sonnet-4-20250514",
		"opus":   "claude-opus-4-20250514",
		"haiku":  "claude-3-5-haiku-20241022",
	},
	"gateway": {
		"sonnet": "anthropic.claude-sonnet-4-20250514-v1:0",
		"opus":   "anthropic.claude-opus-4-20250514-v1:0",
		"haiku":  "anthropic.claude-3-5-haiku-20241022-v1:0",
	},
}

// DefaultModel is the logical model used when none is configured.
const DefaultModel = "sonnet"

// ModelID maps a logical model name to the backend-specific identifier.
// Names not in the table pass through unchanged, so callers may supply a
// raw backend id directly.
func ModelID(kind, logical string) string {
	if logical == "" {
		logical = DefaultModel
	}
	if table, ok := modelTable[kind]; ok {
		if id, ok := table[logical]; ok {
			return id
		}
	}
	return logical
}

// LogicalModels lists the names the lookup table knows, for CLI help.
func LogicalModels() []string {
	return []string{"sonnet", "opus", "haiku"}
}
