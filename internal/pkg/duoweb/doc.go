// Package duoweb signs and verifies the two-message Duo Web handshake.
//
// SignRequest issues the outbound request string handed to the Duo widget:
//
//	TX|base64(user|ikey|expiry)|hmac:APP|base64(user|ikey|expiry)|hmac
//
// The first token is keyed with the Duo secret key and lives for five minutes,
// the second is keyed with the application key and lives for an hour.
//
// VerifyResponse accepts the AUTH:APP response returned by the widget and
// yields the username only when both halves carry a valid signature, the
// expected prefix, the caller's integration key, an unexpired timestamp and
// the same subject. Every failure is reported as ErrVerificationFailed; the
// precise cause is only available through WithReasonHook.
//
// Both operations are pure functions of their inputs and the supplied time,
// safe for concurrent use.
package duoweb
