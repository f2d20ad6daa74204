package command

// Definition describes a command to a caller that selects commands by name,
// such as a language model with function calling. Parameters is a JSON schema.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

var definitions = map[Tag]Definition{
	FindBestCategory: {
		Name: FindBestCategory.String(),
		Description: "Resolve a vague or partial category name such as \"UV\", \"brows\" or " +
			"\"hydrating\" to the closest taxonomy category. Returns its path, id, definition and children.",
		Parameters: objectSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Free-text category name"},
		}, "query"),
	},
	GetQuantity: {
		Name:        GetQuantity.String(),
		Description: "Return the stored quantity for a category path.",
		Parameters: objectSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Full category path as returned by find_best_category"},
		}, "path"),
	},
	SetQuantity: {
		Name:        SetQuantity.String(),
		Description: "Store a new quantity for a category path and return it.",
		Parameters: objectSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Full category path as returned by find_best_category"},
			"qty":  map[string]any{"type": "number", "description": "New quantity"},
		}, "path", "qty"),
	},
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}
