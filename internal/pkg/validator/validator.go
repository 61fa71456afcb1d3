package validator

// Validator validates structs using tag-based rules.
type Validator interface {
	// Validate returns nil when data passes all rules, or a field error map.
	Validate(data any) error
}
