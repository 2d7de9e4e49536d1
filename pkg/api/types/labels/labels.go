package labels

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tasklane/tasklane/pkg/utils/rfctime"
)

const (
	// label keys started with this prefix are reserved and maintained by tasklane itself.
	SystemLabelPrefix string = "task#"
	KeyTaskId         string = SystemLabelPrefix + "id"
	KeyTaskCreated    string = SystemLabelPrefix + "created"
)

type Label struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (l Label) String() string {
	return l.Key + ":" + l.Value
}

func (a Label) Equal(b Label) bool {
	if a.Key != b.Key {
		return false
	}

	if a.Key != KeyTaskCreated {
		return a.Value == b.Value
	}

	// timestamps are equal when they point the same instant,
	// even if written in different offsets.
	vA, errA := rfctime.ParseRFC3339DateTime(a.Value)
	vB, errB := rfctime.ParseRFC3339DateTime(b.Value)

	return (errA == nil) && (errB == nil) && vA.Equiv(vB)
}

// parse string value as Label
//
// # Args
//
// - string: "KEY:VALUE" formatted string. If not, it returns error.
func (l *Label) Parse(s string) error {
	k, v, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("label parse error: %s :no key", s)
	}

	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)

	if k == KeyTaskCreated {
		if _, err := rfctime.ParseRFC3339DateTime(v); err != nil {
			return fmt.Errorf("label parse error: %s is not timestamp", s)
		}
	}

	l.Key = k
	l.Value = v

	return nil
}

func (l *Label) UnmarshalJSON(data []byte) error {
	{
		s := new(string)
		if err := json.Unmarshal(data, s); err == nil {
			return l.Parse(*s)
		}
	}

	var dat map[string]interface{}
	if err := json.Unmarshal(data, &dat); err != nil {
		return errors.New(`failed to parse Label`)
	}

	return l.unmarshal(dat)
}

func (l Label) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

func (l *Label) unmarshal(dat map[string]interface{}) error {
	if dat == nil {
		return errors.New("label is nil")
	}

	bkey, ok := dat["key"]
	if !ok || bkey == nil {
		return errors.New(`field "key" is missing`)
	}
	key, ok := bkey.(string)
	if !ok {
		return errors.New(`field "key"'s value is invalid`)
	}
	l.Key = key

	bvalue, ok := dat["value"]
	if !ok || bvalue == nil {
		return errors.New(`field "value" is missing`)
	}
	value, ok := bvalue.(string)
	if !ok {
		return errors.New(`field "value"'s value is invalid`)
	}
	l.Value = value

	return nil
}

// UserLabel is a Label whose key is not reserved by tasklane.
type UserLabel Label

func (l Label) AsUserLabel(ul *UserLabel) bool {
	if strings.HasPrefix(l.Key, SystemLabelPrefix) {
		return false
	}
	*ul = UserLabel(l)
	return true
}

// parse string value as UserLabel
//
// # Args
//
// - string: "KEY:VALUE" formatted string. If not, it returns error.
// If KEY part is started with "task#", it returns error.
func (ul *UserLabel) Parse(s string) error {
	l := &Label{}
	if err := l.Parse(s); err != nil {
		return err
	}
	if strings.HasPrefix(l.Key, SystemLabelPrefix) {
		return fmt.Errorf(`label key "%s..." is reserved for system labels`, SystemLabelPrefix)
	}
	*ul = UserLabel(*l)
	return nil
}

func (ul *UserLabel) UnmarshalJSON(data []byte) error {
	l := &Label{}
	if err := l.UnmarshalJSON(data); err != nil {
		return err
	}
	if strings.HasPrefix(l.Key, SystemLabelPrefix) {
		return fmt.Errorf(`label key "%s..." is reserved for system labels`, SystemLabelPrefix)
	}
	*ul = UserLabel(*l)
	return nil
}

func (ul UserLabel) MarshalJSON() ([]byte, error) {
	return Label(ul).MarshalJSON()
}

// Change is a request to add/remove labels on a task.
type Change struct {
	Add    []UserLabel `json:"add,omitempty"`
	Remove []UserLabel `json:"remove,omitempty"`
}
