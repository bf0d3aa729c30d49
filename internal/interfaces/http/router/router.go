// Package router mounts the back office API on a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultBasePath prefixes every account-scoped route
const DefaultBasePath = "/api/v1"

// RouteRegistrar mounts its routes under the API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them under one base path, behind the
// shared API middleware. Routes added straight to the engine skip that chain.
type Router struct {
	engine     *gin.Engine
	basePath   string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// Option configures a Router
type Option func(*Router)

// WithBasePath replaces DefaultBasePath
func WithBasePath(path string) Option {
	return func(r *Router) { r.basePath = path }
}

// WithMiddleware appends handlers run before every API route, such as
// account resolution and idempotency.
func WithMiddleware(middleware ...gin.HandlerFunc) Option {
	return func(r *Router) { r.middleware = append(r.middleware, middleware...) }
}

func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{engine: engine, basePath: DefaultBasePath}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts everything registered so far
func (r *Router) Setup() {
	api := r.engine.Group(r.basePath, r.middleware...)
	for _, reg := range r.registrars {
		reg.RegisterRoutes(api)
	}
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// ResourceGroup is the routes of one resource, e.g. /orders, with optional
// nested groups such as /data/backups.
type ResourceGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	nested     []*ResourceGroup
}

func NewResourceGroup(prefix string) *ResourceGroup {
	return &ResourceGroup{prefix: prefix}
}

// Use adds middleware for this group and its nested groups
func (g *ResourceGroup) Use(middleware ...gin.HandlerFunc) *ResourceGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Handle adds a route; the verb helpers below cover what the API uses.
func (g *ResourceGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *ResourceGroup {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

func (g *ResourceGroup) GET(path string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.Handle(http.MethodGet, path, handlers...)
}

func (g *ResourceGroup) POST(path string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.Handle(http.MethodPost, path, handlers...)
}

func (g *ResourceGroup) PUT(path string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.Handle(http.MethodPut, path, handlers...)
}

func (g *ResourceGroup) DELETE(path string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.Handle(http.MethodDelete, path, handlers...)
}

// Nest returns a group mounted below this one
func (g *ResourceGroup) Nest(prefix string) *ResourceGroup {
	child := NewResourceGroup(prefix)
	g.nested = append(g.nested, child)
	return child
}

func (g *ResourceGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, child := range g.nested {
		child.RegisterRoutes(group)
	}
}
