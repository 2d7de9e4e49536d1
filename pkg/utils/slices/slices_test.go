package slices_test

import (
	"strconv"
	"testing"

	"github.com/tasklane/tasklane/pkg/utils/cmp"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

func TestMap(t *testing.T) {
	t.Run("it maps each element", func(t *testing.T) {
		actual := slices.Map([]int{1, 2, 3}, strconv.Itoa)
		if !cmp.SliceEq(actual, []string{"1", "2", "3"}) {
			t.Errorf("unexpected result: %v", actual)
		}
	})

	t.Run("it maps empty slice to empty slice", func(t *testing.T) {
		actual := slices.Map([]int{}, strconv.Itoa)
		if len(actual) != 0 {
			t.Errorf("unexpected result: %v", actual)
		}
	})
}

func TestKeysOf(t *testing.T) {
	actual := slices.KeysOf(map[string]int{"a": 1, "b": 2})
	if !cmp.SliceContentEq(actual, []string{"a", "b"}) {
		t.Errorf("unexpected result: %v", actual)
	}
}
