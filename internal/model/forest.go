package model

import (
	"errors"
	"fmt"
)

// Forest is a frozen random-forest classifier. Trees are stored in the
// flattened array layout produced by the training pipeline's export step:
// node i's children, split feature, threshold and per-class leaf counts
// all live at index i of the parallel arrays.
type Forest struct {
	Trees       []Tree `json:"trees"`
	FeatureSize int    `json:"feature_size"`
	ClassCount  int    `json:"class_count"`
}

// Tree is a single decision tree in the forest.
type Tree struct {
	// ChildrenLeft[i] / ChildrenRight[i] are child node indices, -1 for leaves.
	ChildrenLeft  []int `json:"children_left"`
	ChildrenRight []int `json:"children_right"`

	// Feature[i] is the split feature index, -2 for leaves.
	Feature []int `json:"feature"`

	// Threshold[i] is the split threshold: go left when x[feature] <= threshold.
	Threshold []float64 `json:"threshold"`

	// Value[i] holds per-class sample counts at node i.
	Value [][]float64 `json:"value"`
}

// Forest validation errors.
var (
	ErrEmptyForest         = errors.New("forest has no trees")
	ErrFeatureSizeMismatch = errors.New("feature vector length does not match forest input size")
)

// Validate checks structural consistency of the loaded forest.
func (f *Forest) Validate() error {
	if len(f.Trees) == 0 {
		return ErrEmptyForest
	}
	if f.FeatureSize <= 0 {
		return fmt.Errorf("invalid feature size %d", f.FeatureSize)
	}
	if f.ClassCount <= 0 {
		return fmt.Errorf("invalid class count %d", f.ClassCount)
	}

	for i, tree := range f.Trees {
		n := len(tree.Feature)
		if n == 0 {
			return fmt.Errorf("tree %d has no nodes", i)
		}
		if len(tree.ChildrenLeft) != n || len(tree.ChildrenRight) != n ||
			len(tree.Threshold) != n || len(tree.Value) != n {
			return fmt.Errorf("tree %d has inconsistent node arrays", i)
		}
		for node, value := range tree.Value {
			if len(value) != f.ClassCount {
				return fmt.Errorf("tree %d node %d has %d class values, expected %d",
					i, node, len(value), f.ClassCount)
			}
		}
	}
	return nil
}

// PredictProba returns the per-class probability distribution for a feature
// vector, averaged over the normalized leaf distributions of all trees.
// Class order matches the severity label encoder fitted at training time.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.FeatureSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureSizeMismatch, len(x), f.FeatureSize)
	}

	proba := make([]float64, f.ClassCount)
	for i := range f.Trees {
		leaf := f.Trees[i].leafValue(x)

		var total float64
		for _, count := range leaf {
			total += count
		}
		if total == 0 {
			continue
		}
		for class, count := range leaf {
			proba[class] += count / total
		}
	}

	for class := range proba {
		proba[class] /= float64(len(f.Trees))
	}
	return proba, nil
}

// leafValue walks the tree to the leaf matching x and returns its class counts.
func (t *Tree) leafValue(x []float64) []float64 {
	node := 0
	for t.Feature[node] >= 0 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}
