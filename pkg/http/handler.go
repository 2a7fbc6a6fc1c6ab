package http

import "github.com/labstack/echo/v4"

// Handler mounts one group of routes.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// Handlers is the ordered route set mounted by NewServer. Nil entries are skipped so
// optional handlers can be left out by the injector.
type Handlers []Handler

func (hs Handlers) Register(e *echo.Echo) {
	for _, h := range hs {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}
