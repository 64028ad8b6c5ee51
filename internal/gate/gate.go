// Package gate decides whether a page request may proceed based on the
// caller's sign-in state.
package gate

import (
	"net/url"
	"path"
	"strings"
)

const (
	SignInPath   = "/sections/signin"
	RegisterPath = "/sections/register"
	HomePath     = "/"
)

// Action is the outcome of a gate decision
type Action int

const (
	Allow Action = iota
	RedirectToSignIn
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectToSignIn:
		return "redirect_signin"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Decision is an action plus the redirect target, if any
type Decision struct {
	Action   Action
	Location string
}

var authPages = map[string]bool{
	SignInPath:   true,
	RegisterPath: true,
}

// Paths that bypass the gate entirely
var publicPrefixes = []string{"/api/", "/static/"}

var publicPaths = map[string]bool{
	"/api":                     true,
	"/favicon.ico":             true,
	"/healthz":                 true,
	"/metrics":                 true,
	"/sections/reset-password": true,
}

var imageExtensions = map[string]bool{
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// IsAuthPage reports whether p is the sign-in or registration page
func IsAuthPage(p string) bool {
	return authPages[p]
}

// IsExcluded reports whether the gate never applies to p
func IsExcluded(p string) bool {
	if publicPaths[p] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return imageExtensions[strings.ToLower(path.Ext(p))]
}

// Decide applies the gate table to a request path
func Decide(p string, authenticated bool) Decision {
	if IsExcluded(p) {
		return Decision{Action: Allow}
	}

	authPage := IsAuthPage(p)
	switch {
	case authenticated && authPage:
		return Decision{Action: RedirectHome, Location: HomePath}
	case !authenticated && !authPage:
		return Decision{Action: RedirectToSignIn, Location: SignInURL(p)}
	default:
		return Decision{Action: Allow}
	}
}

// SignInURL builds the sign-in location that returns the user to p afterwards
func SignInURL(p string) string {
	q := url.Values{}
	q.Set("redirect", p)
	return SignInPath + "?" + q.Encode()
}

// SafeRedirect returns target when it is a same-site absolute path and
// HomePath otherwise. Auth pages are never valid post-login targets.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return HomePath
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return HomePath
	}
	if IsAuthPage(u.Path) {
		return HomePath
	}
	return target
}
