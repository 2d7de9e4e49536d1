package strings_test

import (
	"testing"

	kstrings "github.com/tasklane/tasklane/pkg/utils/strings"
)

func TestSupplySuffix(t *testing.T) {
	if actual := kstrings.SupplySuffix("path/to", "/"); actual != "path/to/" {
		t.Errorf("unexpected: %s", actual)
	}
	if actual := kstrings.SupplySuffix("path/to/", "/"); actual != "path/to/" {
		t.Errorf("unexpected: %s", actual)
	}
}
