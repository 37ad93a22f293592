// Package clock supplies the time source used for token expiry.
//
// Signing and verification take the current time from a Clocker so tests and
// the operator CLI can pin it.
package clock
