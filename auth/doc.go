// Package auth inspects the bearer tokens used to call YouTrack.
//
// YouTrack accepts permanent tokens ("perm:..." strings issued from a user
// profile) and OAuth access tokens, which Hub issues as JWTs. Inspect
// classifies a token without contacting the server and, for JWTs, reads the
// subject and expiry from the unverified claims:
//
//	info, err := auth.Inspect(token)
//	if err != nil {
//	    return err
//	}
//	if info.Expired(time.Now()) {
//	    // refresh before calling the API
//	}
//
// Tokens never appear in logs. Use Redact for display and Fingerprint to
// correlate a token across log lines:
//
//	slog.Info("connected", "token", auth.Redact(token))
package auth
