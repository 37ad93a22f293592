package validator

// Validator validates request and dependency structs.
type Validator interface {
	Validate(data any) error
}
