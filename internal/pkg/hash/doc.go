// Package hash provides keyed digests used to sign and fingerprint tokens.
//
// NewHMACSHA1 is the signer of the Duo Web token format. NewHMACSHA256 is used to
// fingerprint values that must be stored without keeping the original (for
// example redeemed responses). Both render lowercase hex and compare in
// constant time.
package hash
