package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Split holds row indexes of the training and test partitions.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions len(labels) rows so that each label class is
// represented in the test set in proportion to its share of the whole.
// The test set holds ceil(testSize*n) rows. The same seed always produces
// the same partition and ordering.
func StratifiedSplit(labels []int, testSize float64, seed int64) (*Split, error) {
	n := len(labels)
	if n == 0 {
		return nil, fmt.Errorf("split: no rows to split")
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("split: test size %v must be between 0 and 1", testSize)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTrain == 0 {
		return nil, fmt.Errorf("split: test size %v leaves no training rows out of %d", testSize, n)
	}

	members := make(map[int][]int)
	for i, l := range labels {
		members[l] = append(members[l], i)
	}
	classes := make([]int, 0, len(members))
	for c := range members {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	for _, c := range classes {
		if len(members[c]) < 2 {
			return nil, fmt.Errorf("split: class %d has only 1 member, at least 2 are required", c)
		}
	}
	if nTest < len(classes) {
		return nil, fmt.Errorf("split: test size %d is smaller than the number of classes %d", nTest, len(classes))
	}
	if nTrain < len(classes) {
		return nil, fmt.Errorf("split: train size %d is smaller than the number of classes %d", nTrain, len(classes))
	}

	counts := make([]int, len(classes))
	for i, c := range classes {
		counts[i] = len(members[c])
	}
	alloc := apportion(counts, nTest)

	rng := rand.New(rand.NewSource(seed))
	split := &Split{
		Train: make([]int, 0, nTrain),
		Test:  make([]int, 0, nTest),
	}
	for i, c := range classes {
		idx := append([]int(nil), members[c]...)
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		split.Test = append(split.Test, idx[:alloc[i]]...)
		split.Train = append(split.Train, idx[alloc[i]:]...)
	}
	rng.Shuffle(len(split.Train), func(a, b int) {
		split.Train[a], split.Train[b] = split.Train[b], split.Train[a]
	})
	rng.Shuffle(len(split.Test), func(a, b int) {
		split.Test[a], split.Test[b] = split.Test[b], split.Test[a]
	})
	return split, nil
}

// apportion distributes total across classes proportionally to counts using
// the largest-remainder method. Ties go to the earlier class.
func apportion(counts []int, total int) []int {
	n := 0
	for _, c := range counts {
		n += c
	}

	alloc := make([]int, len(counts))
	rem := make([]int, len(counts))
	assigned := 0
	for i, c := range counts {
		alloc[i] = c * total / n
		rem[i] = c * total % n
		assigned += alloc[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rem[order[a]] > rem[order[b]]
	})
	for _, i := range order {
		if assigned == total {
			break
		}
		if rem[i] > 0 {
			alloc[i]++
			assigned++
		}
	}
	return alloc
}
