package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		authenticated bool
		want          RouteDecision
	}{
		{name: "root with session", path: "/", authenticated: true, want: RouteDecision{Route: RouteRoot}},
		{name: "root without session", path: "/", authenticated: false, want: RouteDecision{Route: RouteLogin, Redirected: true}},
		{name: "login without session", path: "/login", authenticated: false, want: RouteDecision{Route: RouteLogin}},
		{name: "login with session", path: "/login", authenticated: true, want: RouteDecision{Route: RouteRoot, Redirected: true}},
		{name: "unknown with session", path: "/settings", authenticated: true, want: RouteDecision{Route: RouteRoot, Redirected: true}},
		{name: "unknown without session", path: "/settings", authenticated: false, want: RouteDecision{Route: RouteLogin, Redirected: true}},
		{name: "empty path", path: "", authenticated: true, want: RouteDecision{Route: RouteRoot, Redirected: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Guard(tc.path, tc.authenticated))
		})
	}
}
