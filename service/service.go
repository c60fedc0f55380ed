// Package service holds what the amount2words web services share: the gin
// engine, the logger, the metrics recorder and arbitrary named dependencies
// such as the token store.
//
// Routes can be registered on the service directly or on route groups and
// sub-groups, each with its own middleware.
package service

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remiges-tech/amountwords/metrics"
	"github.com/remiges-tech/logharbour/logharbour"
)

// Dependencies is a map to hold arbitrary dependencies.
type Dependencies map[string]any

// Service is the core struct for a web service.
// Note: Assert the type of a dependency before using it because the value is of type any.
//
// Example:
//
//	s := NewService(router).WithLogHarbour(logger).WithDependency("tokens", store)
//	store, ok := s.Dependencies["tokens"].(tokenstore.Store)
type Service struct {
	Router       *gin.Engine
	LogHarbour   *logharbour.Logger
	Metrics      metrics.Metrics
	Dependencies Dependencies
}

// NewService constructs a new Service on router r.
func NewService(r *gin.Engine) *Service {
	return &Service{
		Router: r,
	}
}

// WithDependency is a method to inject an arbitrary dependency into the Service.
func (s *Service) WithDependency(key string, value any) *Service {
	if s.Dependencies == nil {
		s.Dependencies = make(Dependencies)
	}
	s.Dependencies[key] = value
	return s
}

// WithLogHarbour sets the logger used by handlers.
func (s *Service) WithLogHarbour(l *logharbour.Logger) *Service {
	s.LogHarbour = l
	return s
}

// WithMetrics sets the metrics recorder used by handlers.
func (s *Service) WithMetrics(m metrics.Metrics) *Service {
	s.Metrics = m
	return s
}

// HandlerFunc is a function that handles a request.
// It takes a *gin.Context and a *Service as parameters.
type HandlerFunc func(*gin.Context, *Service)

// RegisterRoute registers a single route directly on the service's engine.
func (s *Service) RegisterRoute(method, path string, handler HandlerFunc) {
	register(s.Router, method, path, s.wrap(handler))
}

func (s *Service) wrap(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler(c, s)
	}
}

// RouteGroup represents a group of routes.
type RouteGroup struct {
	Group   *gin.RouterGroup
	service *Service
}

// CreateGroup creates a new route group with the given path.
func (s *Service) CreateGroup(path string) *RouteGroup {
	return &RouteGroup{
		Group:   s.Router.Group(path),
		service: s,
	}
}

// RegisterRoute registers a single route on the route group.
func (g *RouteGroup) RegisterRoute(method, path string, handler HandlerFunc) {
	register(g.Group, method, path, g.service.wrap(handler))
}

// CreateSubGroup creates a new sub-group within the current group.
func (g *RouteGroup) CreateSubGroup(path string) *RouteGroup {
	return &RouteGroup{
		Group:   g.Group.Group(path),
		service: g.service,
	}
}

func register(r gin.IRoutes, method, path string, h gin.HandlerFunc) {
	switch method {
	case http.MethodGet:
		r.GET(path, h)
	case http.MethodPost:
		r.POST(path, h)
	case http.MethodPut:
		r.PUT(path, h)
	case http.MethodDelete:
		r.DELETE(path, h)
	default:
		log.Printf("Unsupported method: %s", method)
	}
}
