// Package guard decides whether a protected view may be shown.
package guard

// Decision is the outcome of an authorization check.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect to login"
}

// Authenticator reports whether a session holds a token. *session.Session
// implements it.
type Authenticator interface {
	IsAuthenticated() bool
}

// Guard gates protected views on the presence of a session token. The check is
// repeated on every call, so signing out takes effect immediately.
type Guard struct {
	session Authenticator
}

// New returns a Guard reading from session.
func New(session Authenticator) *Guard {
	return &Guard{session: session}
}

// Authorize returns Allow when a token is present.
func (g *Guard) Authorize() Decision {
	if g.session != nil && g.session.IsAuthenticated() {
		return Allow
	}
	return RedirectToLogin
}
