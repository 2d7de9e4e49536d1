package echoutil

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Proxy forwards the request held by c to url, and relays the response back.
//
// Method, headers and body are passed through as-is, except hop-by-hop headers.
func Proxy(cp *echo.Context, url string) error {
	c := *cp

	req, err := http.NewRequestWithContext(
		c.Request().Context(), c.Request().Method, url, c.Request().Body,
	)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return err
	}
	copyHeader(req.Header, c.Request().Header, "host")

	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		c.String(http.StatusBadGateway, err.Error())
		return err
	}
	defer resp.Body.Close()

	dstResp := c.Response()
	copyHeader(dstResp.Header(), resp.Header)
	dstResp.WriteHeader(resp.StatusCode)

	_, err = io.Copy(dstResp.Writer, resp.Body)
	return err
}

func copyHeader(dest http.Header, src http.Header, except ...string) {
	exc := map[string]struct{}{}
	for _, x := range except {
		exc[strings.ToLower(x)] = struct{}{}
	}

	for k, vs := range src {
		if _, ok := exc[strings.ToLower(k)]; ok {
			continue
		}
		for _, v := range vs {
			dest.Add(k, v)
		}
	}
}
