package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/tasklane/tasklane/cmd/tasklaned/handlers"
	"github.com/tasklane/tasklane/pkg/configs/extras"
	"github.com/tasklane/tasklane/pkg/utils/try"
)

func TestRewriter(t *testing.T) {

	type When struct {
		Endpoint extras.Endpoint
		Url      string
	}

	type Then struct {
		Url string
	}

	theory := func(when When, then Then) func(t *testing.T) {
		return func(t *testing.T) {
			testee := handlers.RewriteWith(when.Endpoint)

			requrl := try.To(url.Parse(when.Url)).OrFatal(t)

			// twice, to know rewriting does not break its endpoint
			for i := 0; i < 2; i++ {
				dest, err := testee(requrl)
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				if dest.String() != then.Url {
					t.Fatalf("want %s, but got %s", then.Url, dest.String())
				}
			}
		}
	}

	t.Run("it proxies the root endpoint", theory(
		When{
			Endpoint: extras.Endpoint{
				Path:    "/",
				ProxyTo: try.To(url.Parse("http://backend.invalid")).OrFatal(t),
			},
			Url: "http://localhost/",
		},
		Then{Url: "http://backend.invalid/"},
	))

	t.Run("it appends the sub-path to the backend root", theory(
		When{
			Endpoint: extras.Endpoint{
				Path:    "/hooks",
				ProxyTo: try.To(url.Parse("http://backend.invalid:8888/receiver")).OrFatal(t),
			},
			Url: "http://localhost/hooks/github/push",
		},
		Then{Url: "http://backend.invalid:8888/receiver/github/push"},
	))

	t.Run("it keeps the query string", theory(
		When{
			Endpoint: extras.Endpoint{
				Path:    "/hooks",
				ProxyTo: try.To(url.Parse("http://backend.invalid")).OrFatal(t),
			},
			Url: "http://localhost/hooks/ping?echo=1&q=a%20b",
		},
		Then{Url: "http://backend.invalid/ping?echo=1&q=a%20b"},
	))

	t.Run("it proxies the bare prefix to the backend root", theory(
		When{
			Endpoint: extras.Endpoint{
				Path:    "/hooks",
				ProxyTo: try.To(url.Parse("http://backend.invalid/receiver")).OrFatal(t),
			},
			Url: "http://localhost/hooks",
		},
		Then{Url: "http://backend.invalid/receiver"},
	))

	t.Run("it refuses a URL outside the prefix", func(t *testing.T) {
		testee := handlers.RewriteWith(extras.Endpoint{
			Path:    "/hooks",
			ProxyTo: try.To(url.Parse("http://backend.invalid")).OrFatal(t),
		})

		requrl := try.To(url.Parse("http://localhost/elsewhere/x")).OrFatal(t)
		if _, err := testee(requrl); !errors.Is(err, handlers.ErrRewrite) {
			t.Errorf("unmatch error: %v", err)
		}
	})
}

func TestExtraAPI(t *testing.T) {

	t.Run("it registers a proxying route for each method", func(t *testing.T) {
		e := echo.New()

		proxied := []string{}
		handlers.ExtraAPI(
			e,
			extras.Endpoint{
				Path:    "/hooks",
				ProxyTo: try.To(url.Parse("http://backend.invalid/receiver")).OrFatal(t),
			},
			func(c *echo.Context, url string) error {
				proxied = append(proxied, (*c).Request().Method+" "+url)
				return (*c).NoContent(http.StatusOK)
			},
		)

		for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
			req := httptest.NewRequest(method, "http://localhost/hooks/sub/path?q=1", nil)
			resp := httptest.NewRecorder()
			e.ServeHTTP(resp, req)

			if resp.Result().StatusCode != http.StatusOK {
				t.Errorf("%s: unmatch status code: %d", method, resp.Result().StatusCode)
			}
		}

		want := []string{
			"GET http://backend.invalid/receiver/sub/path?q=1",
			"POST http://backend.invalid/receiver/sub/path?q=1",
			"PUT http://backend.invalid/receiver/sub/path?q=1",
			"DELETE http://backend.invalid/receiver/sub/path?q=1",
		}
		if len(proxied) != len(want) {
			t.Fatalf("unmatch proxied requests: %v", proxied)
		}
		for i := range want {
			if proxied[i] != want[i] {
				t.Errorf("unmatch proxied request: %s (want %s)", proxied[i], want[i])
			}
		}
	})
}
