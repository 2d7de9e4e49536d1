package try_test

import (
	"errors"
	"testing"

	"github.com/tasklane/tasklane/pkg/utils/try"
)

type fakeFataler struct {
	called bool
}

func (f *fakeFataler) Fatal(...any) {
	f.called = true
}

func TestTo(t *testing.T) {
	t.Run("ok value passes through", func(t *testing.T) {
		v, err := try.To(42, nil).Get()
		if err != nil {
			t.Fatal(err)
		}
		if v != 42 {
			t.Errorf("unexpected value: %d", v)
		}
	})

	t.Run("error is kept", func(t *testing.T) {
		expected := errors.New("fake error")
		_, err := try.To(0, expected).Get()
		if !errors.Is(err, expected) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("OrFatal returns value for ok", func(t *testing.T) {
		ftl := &fakeFataler{}
		v := try.To("hello", nil).OrFatal(ftl)
		if v != "hello" || ftl.called {
			t.Errorf("unexpected: value=%s, fatal called=%v", v, ftl.called)
		}
	})

	t.Run("OrFatal calls Fatal for error", func(t *testing.T) {
		ftl := &fakeFataler{}
		try.To("", errors.New("fake error")).OrFatal(ftl)
		if !ftl.called {
			t.Error("Fatal is not called")
		}
	})

}
