package base64marshall_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/tasklane/tasklane/pkg/utils/base64marshall"
	"github.com/tasklane/tasklane/pkg/utils/try"
	"gopkg.in/yaml.v3"
)

func TestBytesJson(t *testing.T) {
	t.Run("it marshals to base64 string", func(t *testing.T) {
		b := try.To(json.Marshal(base64marshall.New([]byte("hello")))).OrFatal(t)
		if string(b) != `"aGVsbG8="` {
			t.Errorf("unexpected json: %s", string(b))
		}
	})

	t.Run("it unmarshals base64 string", func(t *testing.T) {
		var actual base64marshall.Bytes
		if err := json.Unmarshal([]byte(`"aGVsbG8="`), &actual); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(actual.Bytes(), []byte("hello")) {
			t.Errorf("unexpected bytes: %v", actual.Bytes())
		}
	})

	t.Run("null unmarshals to nil", func(t *testing.T) {
		actual := base64marshall.New([]byte("stale"))
		if err := json.Unmarshal([]byte("null"), &actual); err != nil {
			t.Fatal(err)
		}
		if actual != nil {
			t.Errorf("unexpected bytes: %v", actual.Bytes())
		}
	})
}

func TestBytesYaml(t *testing.T) {
	t.Run("it unmarshals base64 string", func(t *testing.T) {
		var actual base64marshall.Bytes
		if err := yaml.Unmarshal([]byte(`aGVsbG8=`), &actual); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(actual.Bytes(), []byte("hello")) {
			t.Errorf("unexpected bytes: %v", actual.Bytes())
		}
	})

	t.Run("it rejects non-base64 string", func(t *testing.T) {
		var actual base64marshall.Bytes
		if err := yaml.Unmarshal([]byte(`"???not-base64???"`), &actual); err == nil {
			t.Error("error is expected, but not")
		}
	})
}
