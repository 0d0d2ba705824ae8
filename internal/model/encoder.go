package model

import (
	"encoding/json"
	"fmt"
)

// LabelEncoder maps category names to the integer codes assigned at training
// time. Codes follow the fitted class ordering, so a loaded encoder must
// never be re-sorted.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder builds an encoder from an ordered class list.
func NewLabelEncoder(classes []string) *LabelEncoder {
	index := make(map[string]int, len(classes))
	for i, class := range classes {
		index[class] = i
	}
	return &LabelEncoder{classes: classes, index: index}
}

// UnmarshalJSON accepts the exported artifact form: a plain ordered array of
// class names.
func (e *LabelEncoder) UnmarshalJSON(data []byte) error {
	var classes []string
	if err := json.Unmarshal(data, &classes); err != nil {
		return fmt.Errorf("decoding label encoder classes: %w", err)
	}
	*e = *NewLabelEncoder(classes)
	return nil
}

// Transform returns the code for a category name. The second return value
// reports whether the category was seen at training time: callers apply the
// fallback-to-0 policy on a miss rather than this package guessing for them.
func (e *LabelEncoder) Transform(name string) (int, bool) {
	code, ok := e.index[name]
	return code, ok
}

// IndexOf returns the position of a label in the fitted class ordering,
// or -1 when absent.
func (e *LabelEncoder) IndexOf(label string) int {
	if code, ok := e.index[label]; ok {
		return code
	}
	return -1
}

// Classes returns the fitted class ordering.
func (e *LabelEncoder) Classes() []string {
	return e.classes
}

// Len returns the number of fitted classes.
func (e *LabelEncoder) Len() int {
	return len(e.classes)
}
