package application

// Route identifies a top-level view.
type Route string

const (
	// RouteRoot is the dashboard. It requires a session.
	RouteRoot Route = "/"
	// RouteLogin is only reachable without a session.
	RouteLogin Route = "/login"
)

type RouteDecision struct {
	Route      Route
	Redirected bool
}

// Guard decides which route renders for a requested path. Unknown paths fall
// back to the root route before the authentication checks apply.
func Guard(path string, authenticated bool) RouteDecision {
	requested := Route(path)
	route := requested
	if route != RouteRoot && route != RouteLogin {
		route = RouteRoot
	}

	switch {
	case route == RouteRoot && !authenticated:
		route = RouteLogin
	case route == RouteLogin && authenticated:
		route = RouteRoot
	}

	return RouteDecision{Route: route, Redirected: route != requested}
}
