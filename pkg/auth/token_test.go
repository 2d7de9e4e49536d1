package auth_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/tasklane/tasklane/internal/testutils/http"
	"github.com/tasklane/tasklane/pkg/auth"
	"github.com/tasklane/tasklane/pkg/utils/try"
)

func TestIssuer(t *testing.T) {
	secret := []byte("test-secret-test-secret")

	t.Run("it verifies a token it issued", func(t *testing.T) {
		iss := auth.NewIssuer(secret, time.Hour)

		token := try.To(iss.Issue("alice", time.Now())).OrFatal(t)
		subject := try.To(iss.Verify(token)).OrFatal(t)

		if subject != "alice" {
			t.Errorf("subject: got %s", subject)
		}
	})

	t.Run("it rejects an expired token", func(t *testing.T) {
		iss := auth.NewIssuer(secret, time.Hour)

		token := try.To(iss.Issue("alice", time.Now().Add(-2*time.Hour))).OrFatal(t)
		if _, err := iss.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("err: got %v", err)
		}
	})

	t.Run("it rejects a token signed with another secret", func(t *testing.T) {
		iss := auth.NewIssuer(secret, time.Hour)
		other := auth.NewIssuer([]byte("not-the-same-secret"), time.Hour)

		token := try.To(other.Issue("alice", time.Now())).OrFatal(t)
		if _, err := iss.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("err: got %v", err)
		}
	})

	t.Run("it rejects garbage", func(t *testing.T) {
		iss := auth.NewIssuer(secret, time.Hour)
		if _, err := iss.Verify("not.a.token"); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("err: got %v", err)
		}
	})
}

func TestMiddleware(t *testing.T) {
	secret := []byte("test-secret-test-secret")
	iss := auth.NewIssuer(secret, time.Hour)

	handler := auth.Middleware(iss)(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("auth.subject").(string))
	})

	t.Run("it passes a request with a valid token", func(t *testing.T) {
		token := try.To(iss.Issue("alice", time.Now())).OrFatal(t)

		e := echo.New()
		ectx, resprec := httptestutil.Get(
			e, "/api/tasks/",
			httptestutil.WithHeader(echo.HeaderAuthorization, "Bearer "+token),
		)

		if err := handler(ectx); err != nil {
			t.Fatal(err)
		}
		if resprec.Result().StatusCode != http.StatusOK {
			t.Errorf("status: got %d", resprec.Result().StatusCode)
		}
		if resprec.Body.String() != "alice" {
			t.Errorf("subject: got %s", resprec.Body.String())
		}
	})

	t.Run("it rejects a request without a token", func(t *testing.T) {
		e := echo.New()
		ectx, _ := httptestutil.Get(e, "/api/tasks/")

		err := handler(ectx)
		if err == nil {
			t.Fatal("err is not caused")
		}
		var httperr *echo.HTTPError
		if !errors.As(err, &httperr) || httperr.Code != http.StatusUnauthorized {
			t.Errorf("err: got %v", err)
		}
	})

	t.Run("it rejects a request with a broken token", func(t *testing.T) {
		e := echo.New()
		ectx, _ := httptestutil.Get(
			e, "/api/tasks/",
			httptestutil.WithHeader(echo.HeaderAuthorization, "Bearer ????"),
		)

		err := handler(ectx)
		var httperr *echo.HTTPError
		if !errors.As(err, &httperr) || httperr.Code != http.StatusUnauthorized {
			t.Errorf("err: got %v", err)
		}
	})
}
