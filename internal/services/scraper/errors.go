package scraper

import "errors"

// Error taxonomy for the bridge. Handlers map these onto machine codes in
// tool replies; only ErrSessionExpired is retried (once, via auto re-login).
var (
	ErrInvalidCredentials  = errors.New("login rejected: invalid account or password")
	ErrCaptchaRequired     = errors.New("login rejected: verification code required, complete it in a browser first")
	ErrUnknownLoginFailure = errors.New("login failed: unrecognized response")
	ErrNotAuthenticated    = errors.New("not authenticated: configure RDMS credentials or call rdms_login")
	ErrSessionExpired      = errors.New("session expired")
	ErrNetworkTimeout      = errors.New("network timeout")
	ErrNetworkError        = errors.New("network error")
	ErrImageFetchFailed    = errors.New("image fetch failed")
)

// Response phrases and thresholds for login and expiry classification. The
// short-body check is deliberately last: it stands in for servers that answer
// a successful login with a tiny redirect stub, and is the first thing to
// revisit against a live installation.
const (
	loginSuccessScript = "self.location='/'"
	loginFailPhrase    = "登录失败"
	captchaPhrase      = "验证码"
	loginPageMarker    = "m=user&f=login"

	loginShortBodyMax  = 200
	sessionExpiryLimit = 500
)
