// Package validator validates usecase inputs and module dependencies.
//
// Callers depend on the Validator interface. V10Validator backs it with
// go-playground/validator and reports failures as V10ValidationError, keyed
// by snake_case field name.
package validator
