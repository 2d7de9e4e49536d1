// Package web serves the embedded task board UI.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed all:dist
var distFS embed.FS

// FileSystem returns the UI files with the "dist" prefix stripped.
func FileSystem() (fs.FS, error) {
	return fs.Sub(distFS, "dist")
}

// Register mounts the UI at the root of e.
//
// Unknown paths outside /api fall back to index.html,
// so client-side routes survive a reload.
func Register(e *echo.Echo) error {
	dist, err := FileSystem()
	if err != nil {
		return err
	}

	fileServer := http.FileServer(http.FS(dist))

	e.GET("/*", func(c echo.Context) error {
		path := c.Request().URL.Path
		if _, err := fs.Stat(dist, trimSlash(path)); err != nil {
			c.Request().URL.Path = "/"
		}
		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	return nil
}

func trimSlash(path string) string {
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	if path == "" {
		path = "index.html"
	}
	return path
}
