// Package ensemble implements the random-forest regressor used as the
// study's second model: bagged variance-reduction regression trees with
// per-split feature subsampling.
package ensemble

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
)

type nodeType int

const (
	internalNode nodeType = iota
	leafNode
)

// node is a flat tree node. Internal nodes route on SplitFeature/Threshold;
// leaves carry the mean response of their training rows.
type node struct {
	Type         nodeType
	SplitFeature int
	Threshold    float64
	LeafValue    float64
	LeftChild    int
	RightChild   int
}

// regressionTree is a CART regression tree grown by recursive variance
// reduction.
type regressionTree struct {
	nodes []node
}

// splitInfo describes a candidate split of a node's rows.
type splitInfo struct {
	feature   int
	threshold float64
	gain      float64
}

// treeConfig carries the per-tree growth limits.
type treeConfig struct {
	maxDepth       int // 0 means unlimited
	minSamplesLeaf int
	maxFeatures    int // features sampled per split
}

// growTree builds a regression tree on the rows in indices. rng drives the
// per-split feature subsampling and belongs to exactly one tree, so growth is
// deterministic for a fixed seed.
func growTree(X mat.Matrix, y []float64, indices []int, cfg treeConfig, rng *rand.Rand) *regressionTree {
	t := &regressionTree{}
	t.buildNode(X, y, indices, 0, cfg, rng)
	return t
}

func (t *regressionTree) buildNode(X mat.Matrix, y []float64, indices []int, depth int, cfg treeConfig, rng *rand.Rand) int {
	nodeIdx := len(t.nodes)

	if (cfg.maxDepth > 0 && depth >= cfg.maxDepth) || len(indices) < 2*cfg.minSamplesLeaf {
		t.nodes = append(t.nodes, node{
			Type:       leafNode,
			LeafValue:  meanOf(y, indices),
			LeftChild:  -1,
			RightChild: -1,
		})
		return nodeIdx
	}

	best := t.findBestSplit(X, y, indices, cfg, rng)

	// No split reduces the sum of squared errors: emit a leaf.
	if best.gain <= 0 {
		t.nodes = append(t.nodes, node{
			Type:       leafNode,
			LeafValue:  meanOf(y, indices),
			LeftChild:  -1,
			RightChild: -1,
		})
		return nodeIdx
	}

	t.nodes = append(t.nodes, node{
		Type:         internalNode,
		SplitFeature: best.feature,
		Threshold:    best.threshold,
	})

	var leftIndices, rightIndices []int
	for _, idx := range indices {
		if X.At(idx, best.feature) <= best.threshold {
			leftIndices = append(leftIndices, idx)
		} else {
			rightIndices = append(rightIndices, idx)
		}
	}

	leftChild := t.buildNode(X, y, leftIndices, depth+1, cfg, rng)
	rightChild := t.buildNode(X, y, rightIndices, depth+1, cfg, rng)

	t.nodes[nodeIdx].LeftChild = leftChild
	t.nodes[nodeIdx].RightChild = rightChild

	return nodeIdx
}

// findBestSplit scans a random subset of features for the threshold with the
// largest reduction in sum of squared errors.
func (t *regressionTree) findBestSplit(X mat.Matrix, y []float64, indices []int, cfg treeConfig, rng *rand.Rand) splitInfo {
	_, cols := X.Dims()
	best := splitInfo{feature: -1, gain: -math.MaxFloat64}

	features := sampleFeatures(cols, cfg.maxFeatures, rng)
	for _, j := range features {
		split := t.findBestSplitForFeature(X, y, indices, j, cfg)
		if split.gain > best.gain {
			best = split
		}
	}

	return best
}

func (t *regressionTree) findBestSplitForFeature(X mat.Matrix, y []float64, indices []int, feature int, cfg treeConfig) splitInfo {
	values := make([]struct {
		value float64
		idx   int
	}, len(indices))

	for i, idx := range indices {
		values[i] = struct {
			value float64
			idx   int
		}{value: X.At(idx, feature), idx: idx}
	}

	sort.Slice(values, func(i, j int) bool {
		return values[i].value < values[j].value
	})

	var totalSum, totalSqSum float64
	for _, idx := range indices {
		totalSum += y[idx]
		totalSqSum += y[idx] * y[idx]
	}
	n := float64(len(indices))
	parentSSE := totalSqSum - totalSum*totalSum/n

	best := splitInfo{feature: feature, gain: -math.MaxFloat64}

	var leftSum, leftSqSum float64
	leftCount := 0

	for i := 0; i < len(values)-1; i++ {
		yv := y[values[i].idx]
		leftSum += yv
		leftSqSum += yv * yv
		leftCount++

		// Identical adjacent values cannot be separated by a threshold.
		if values[i].value == values[i+1].value {
			continue
		}

		rightCount := len(indices) - leftCount
		if leftCount < cfg.minSamplesLeaf || rightCount < cfg.minSamplesLeaf {
			continue
		}

		rightSum := totalSum - leftSum
		rightSqSum := totalSqSum - leftSqSum

		leftSSE := leftSqSum - leftSum*leftSum/float64(leftCount)
		rightSSE := rightSqSum - rightSum*rightSum/float64(rightCount)

		gain := parentSSE - leftSSE - rightSSE
		if gain > best.gain {
			best.gain = gain
			best.threshold = (values[i].value + values[i+1].value) / 2
		}
	}

	return best
}

// predict routes a single feature row down the tree.
func (t *regressionTree) predict(X mat.Matrix, row int) float64 {
	idx := 0
	for {
		n := t.nodes[idx]
		if n.Type == leafNode {
			return n.LeafValue
		}
		if X.At(row, n.SplitFeature) <= n.Threshold {
			idx = n.LeftChild
		} else {
			idx = n.RightChild
		}
	}
}

func (t *regressionTree) numLeaves() int {
	count := 0
	for _, n := range t.nodes {
		if n.Type == leafNode {
			count++
		}
	}
	return count
}

func meanOf(y []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	sum := 0.0
	for _, idx := range indices {
		sum += y[idx]
	}
	return sum / float64(len(indices))
}

// sampleFeatures draws k distinct feature indices. When k covers all
// features the order is irrelevant, so the permutation is skipped.
func sampleFeatures(total, k int, rng *rand.Rand) []int {
	if k >= total {
		features := make([]int, total)
		for i := range features {
			features[i] = i
		}
		return features
	}
	return rng.Perm(total)[:k]
}
