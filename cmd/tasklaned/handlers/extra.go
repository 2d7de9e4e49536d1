package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tasklane/tasklane/pkg/configs/extras"
)

// Rewriter maps a request URL onto the backend URL of a proxied endpoint.
type Rewriter func(req *url.URL) (*url.URL, error)

var ErrRewrite = errors.New("rewrite error")

func RewriteWith(ep extras.Endpoint) Rewriter {
	sourcePath := strings.TrimSuffix(ep.Path, "/")

	return func(req *url.URL) (*url.URL, error) {
		dest := ep.ProxyTo
		{
			// taking copy
			d := *dest
			dest = &d
		}

		if p := req.Path; p == sourcePath {
			// no sub-path. proxy to the backend root as is.
		} else if strings.HasPrefix(p, sourcePath+"/") {
			sub := strings.TrimPrefix(p, sourcePath+"/")
			if sub == "" {
				sub = "/"
			}
			dest = dest.JoinPath(sub)
		} else {
			return nil, fmt.Errorf("%w: path prefix does not match", ErrRewrite)
		}

		dest.Fragment = req.Fragment
		dest.RawQuery = req.RawQuery

		return dest, nil
	}
}

// ExtraAPI registers a proxied endpoint on e for all methods.
func ExtraAPI(
	e *echo.Echo,
	ex extras.Endpoint,
	proxyFn func(c *echo.Context, url string) error,
) {
	rew := RewriteWith(ex)

	dest := path.Join(ex.Path, "*")
	proxyer := func(c echo.Context) error {
		requrl := c.Request().URL
		backend, err := rew(requrl)
		if err != nil {
			return err
		}
		return proxyFn(&c, backend.String())
	}

	for _, method := range []string{
		"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD",
	} {
		e.Add(method, dest, proxyer)
	}
}
