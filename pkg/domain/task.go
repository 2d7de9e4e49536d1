package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tasklane/tasklane/pkg/utils/cmp"
)

// label keys started with this prefix are reserved for tasklane itself.
const SystemLabelPrefix = "task#"

var ErrSystemLabel = errors.New("label key is reserved for system labels")
var ErrBadLabel = errors.New("bad label")

// Label is a user-given KEY:VALUE annotation on a task.
type Label struct {
	Key   string
	Value string
}

func (l *Label) Equal(o *Label) bool {
	if (l == nil) || (o == nil) {
		return (l == nil) && (o == nil)
	}
	return l.Key == o.Key && l.Value == o.Value
}

func (l Label) String() string {
	return l.Key + ":" + l.Value
}

// NewLabel creates a user Label.
//
// It returns error when the key is empty or reserved, or the value is empty.
func NewLabel(key string, value string) (Label, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Label{}, fmt.Errorf("%w: key is empty", ErrBadLabel)
	}
	if strings.HasPrefix(key, SystemLabelPrefix) {
		return Label{}, fmt.Errorf("%w: %s", ErrSystemLabel, key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Label{}, fmt.Errorf("%w: value is empty (key: %s)", ErrBadLabel, key)
	}
	return Label{Key: key, Value: value}, nil
}

// LabelSet is a deduped, sorted set of Labels.
type LabelSet struct {
	labels []Label
}

// NewLabelSet dedupes and sorts labels.
func NewLabelSet(labels []Label) *LabelSet {
	sorted := make([]Label, len(labels))
	copy(sorted, labels)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Key != sorted[j].Key {
			return sorted[i].Key < sorted[j].Key
		}
		return sorted[i].Value < sorted[j].Value
	})

	deduped := make([]Label, 0, len(sorted))
	for _, l := range sorted {
		if 0 < len(deduped) && deduped[len(deduped)-1] == l {
			continue
		}
		deduped = append(deduped, l)
	}
	return &LabelSet{labels: deduped}
}

func (ls *LabelSet) Slice() []Label {
	if ls == nil {
		return []Label{}
	}
	return ls.labels
}

func (ls *LabelSet) Len() int {
	if ls == nil {
		return 0
	}
	return len(ls.labels)
}

func (ls *LabelSet) Equal(o *LabelSet) bool {
	return cmp.SliceEq(ls.Slice(), o.Slice())
}

// LabelDelta represents the intent updating labels on a task.
//
// If the same label is in both Add and Remove, Remove is applied first.
type LabelDelta struct {
	Remove []Label
	Add    []Label
}

func (ld *LabelDelta) Equal(other *LabelDelta) bool {
	return cmp.SliceContentEqWith(ld.Remove, other.Remove, func(a, b Label) bool { return a.Equal(&b) }) &&
		cmp.SliceContentEqWith(ld.Add, other.Add, func(a, b Label) bool { return a.Equal(&b) })
}

// TaskBody is the task attributes as stored.
type TaskBody struct {
	TaskId   string
	Title    string
	Note     string
	Done     bool
	Priority int
	Deadline *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (tb *TaskBody) Equal(o *TaskBody) bool {
	if (tb == nil) || (o == nil) {
		return (tb == nil) && (o == nil)
	}
	deadlineEq := (tb.Deadline == nil && o.Deadline == nil) ||
		(tb.Deadline != nil && o.Deadline != nil && tb.Deadline.Equal(*o.Deadline))

	return tb.TaskId == o.TaskId &&
		tb.Title == o.Title &&
		tb.Note == o.Note &&
		tb.Done == o.Done &&
		tb.Priority == o.Priority &&
		deadlineEq &&
		tb.CreatedAt.Equal(o.CreatedAt) &&
		tb.UpdatedAt.Equal(o.UpdatedAt)
}

// Task with its labels.
type Task struct {
	TaskBody
	Labels *LabelSet
}

func (t *Task) Equal(other *Task) bool {
	return t.TaskBody.Equal(&other.TaskBody) &&
		t.Labels.Equal(other.Labels)
}

// TaskSpec is the intent creating a new task.
type TaskSpec struct {
	Title    string
	Note     string
	Priority int
	Deadline *time.Time
	Labels   []Label
}

// TaskUpdate is the intent updating task attributes.
//
// nil fields are left as they are.
type TaskUpdate struct {
	Title    *string
	Note     *string
	Priority *int
	Deadline *time.Time
}

func (tu *TaskUpdate) Empty() bool {
	return tu.Title == nil && tu.Note == nil && tu.Priority == nil && tu.Deadline == nil
}

// TaskQuery filters tasks on Find.
//
// Zero-value fields do not filter.
type TaskQuery struct {
	// tasks having ALL of these labels match.
	Labels []Label

	// when non-nil, tasks whose Done equals this match.
	Done *bool

	// bounds on UpdatedAt.
	Since *time.Time
	Until *time.Time
}
