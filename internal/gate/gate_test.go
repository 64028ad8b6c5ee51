package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideTable(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		authenticated bool
		want          Decision
	}{
		{
			name:          "signed in visiting sign-in goes home",
			path:          SignInPath,
			authenticated: true,
			want:          Decision{Action: RedirectHome, Location: "/"},
		},
		{
			name:          "signed in visiting register goes home",
			path:          RegisterPath,
			authenticated: true,
			want:          Decision{Action: RedirectHome, Location: "/"},
		},
		{
			name:          "signed in visiting a page is allowed",
			path:          "/schedule",
			authenticated: true,
			want:          Decision{Action: Allow},
		},
		{
			name:          "anonymous visiting sign-in is allowed",
			path:          SignInPath,
			authenticated: false,
			want:          Decision{Action: Allow},
		},
		{
			name:          "anonymous visiting a page is sent to sign-in with redirect",
			path:          "/schedule",
			authenticated: false,
			want:          Decision{Action: RedirectToSignIn, Location: "/sections/signin?redirect=%2Fschedule"},
		},
		{
			name:          "anonymous visiting home",
			path:          "/",
			authenticated: false,
			want:          Decision{Action: RedirectToSignIn, Location: "/sections/signin?redirect=%2F"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.path, tt.authenticated))
		})
	}
}

func TestDecideExclusions(t *testing.T) {
	paths := []string{
		"/api/boosters",
		"/api/personalized-tutor/7/submit",
		"/static/css/app.css",
		"/favicon.ico",
		"/images/logo.png",
		"/hero.JPEG",
		"/icon.svg",
		"/anim.gif",
		"/photo.webp",
		"/healthz",
		"/metrics",
		"/sections/reset-password",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			assert.Equal(t, Allow, Decide(p, false).Action)
			assert.Equal(t, Allow, Decide(p, true).Action)
		})
	}
}

func TestDecideRedirectCarriesNestedPath(t *testing.T) {
	d := Decide("/personalized-tutor/12", false)

	assert.Equal(t, RedirectToSignIn, d.Action)
	assert.Equal(t, "/sections/signin?redirect=%2Fpersonalized-tutor%2F12", d.Location)
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{target: "", want: "/"},
		{target: "/schedule", want: "/schedule"},
		{target: "/performance-booster/3?tab=resources", want: "/performance-booster/3?tab=resources"},
		{target: "https://evil.example", want: "/"},
		{target: "//evil.example", want: "/"},
		{target: "/\\evil.example", want: "/"},
		{target: "schedule", want: "/"},
		{target: SignInPath, want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeRedirect(tt.target))
		})
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect_signin", RedirectToSignIn.String())
	assert.Equal(t, "redirect_home", RedirectHome.String())
}
