package router

import (
	"net/http"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/gin-gonic/gin"
)

// Guard builds the permission check placed in front of a route
type Guard func(perm access.Permission, resource access.Resource) gin.HandlerFunc

// Route describes one registered endpoint and what the caller must hold.
// Routes that only need a signed-in caller leave Resource empty.
type Route struct {
	Method        string
	Path          string
	Authenticated bool
	Permission    access.Permission
	Resource      access.Resource
}

// Public reports whether the route skips authentication
func (r Route) Public() bool {
	return !r.Authenticated
}

type routeDefinition struct {
	Route
	handlers []gin.HandlerFunc
}

// Group collects the routes of one area of the API before they are attached
// to an engine. Protected routes get the authentication chain and a permission
// guard.
type Group struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []routeDefinition
}

// NewGroup creates a Group mounted under prefix
func NewGroup(prefix string) *Group {
	return &Group{prefix: prefix}
}

// Use adds middleware to every route in the group
func (g *Group) Use(middleware ...gin.HandlerFunc) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Open registers a route that needs no caller
func (g *Group) Open(method, path string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, routeDefinition{
		Route:    Route{Method: method, Path: path},
		handlers: handlers,
	})
	return g
}

// Authed registers a route open to any signed-in caller
func (g *Group) Authed(method, path string, h gin.HandlerFunc) *Group {
	g.routes = append(g.routes, routeDefinition{
		Route:    Route{Method: method, Path: path, Authenticated: true},
		handlers: []gin.HandlerFunc{h},
	})
	return g
}

// Guarded registers a route that requires perm on resource
func (g *Group) Guarded(method, path string, perm access.Permission, resource access.Resource, h gin.HandlerFunc) *Group {
	g.routes = append(g.routes, routeDefinition{
		Route:    Route{Method: method, Path: path, Authenticated: true, Permission: perm, Resource: resource},
		handlers: []gin.HandlerFunc{h},
	})
	return g
}

// GET registers a guarded GET route
func (g *Group) GET(path string, perm access.Permission, resource access.Resource, h gin.HandlerFunc) *Group {
	return g.Guarded(http.MethodGet, path, perm, resource, h)
}

// POST registers a guarded POST route
func (g *Group) POST(path string, perm access.Permission, resource access.Resource, h gin.HandlerFunc) *Group {
	return g.Guarded(http.MethodPost, path, perm, resource, h)
}

// DELETE registers a guarded DELETE route
func (g *Group) DELETE(path string, perm access.Permission, resource access.Resource, h gin.HandlerFunc) *Group {
	return g.Guarded(http.MethodDelete, path, perm, resource, h)
}

// Routes returns the definitions in registration order
func (g *Group) Routes() []Route {
	out := make([]Route, 0, len(g.routes))
	for _, r := range g.routes {
		r.Path = g.prefix + r.Path
		out = append(out, r.Route)
	}
	return out
}

// Attach mounts the group on rg. authn runs before the guard on protected
// routes only.
func (g *Group) Attach(rg *gin.RouterGroup, authn []gin.HandlerFunc, guard Guard) {
	group := rg.Group(g.prefix)
	if len(g.middleware) > 0 {
		group.Use(g.middleware...)
	}

	for _, r := range g.routes {
		chain := r.handlers
		if !r.Public() {
			chain = make([]gin.HandlerFunc, 0, len(authn)+1+len(r.handlers))
			chain = append(chain, authn...)
			if r.Resource != "" {
				chain = append(chain, guard(r.Permission, r.Resource))
			}
			chain = append(chain, r.handlers...)
		}
		group.Handle(r.Method, r.Path, chain...)
	}
}
