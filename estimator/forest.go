package estimator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/resalelab/carprice/features"
)

// ForestParams is a random-forest regressor exported node by node. A node
// whose Left is -1 is a leaf and carries the prediction in Value.
type ForestParams struct {
	Trees []Tree `json:"trees"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

const leaf = -1

type forest struct {
	trees []Tree
}

func newForest(p *ForestParams) (*forest, error) {
	if len(p.Trees) == 0 {
		return nil, fmt.Errorf("forest model has no trees")
	}
	for ti, t := range p.Trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if n.Left == leaf {
				continue
			}
			if n.Feature < 0 || n.Feature >= len(features.FeatureNames) {
				return nil, fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			// Children always come after their parent, which rules out cycles.
			if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) {
				return nil, fmt.Errorf("tree %d node %d: invalid children %d/%d", ti, ni, n.Left, n.Right)
			}
		}
	}
	return &forest{trees: p.Trees}, nil
}

func (f *forest) Predict(x features.Vector) (float64, error) {
	outputs := make([]float64, len(f.trees))
	for i, t := range f.trees {
		outputs[i] = t.eval(x)
	}
	return stat.Mean(outputs, nil), nil
}

func (t Tree) eval(x features.Vector) float64 {
	i := 0
	for t.Nodes[i].Left != leaf {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}
