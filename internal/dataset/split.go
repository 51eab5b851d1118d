package dataset

import (
	"fmt"
	"math/rand"
)

// Split shuffles the table with a fixed seed and holds out testFraction of
// the rows. The same seed always yields the same partition.
func Split(t *Table, testFraction float64, seed int64) (train, test *Table, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}
	n := t.Len()
	nTest := int(float64(n) * testFraction)
	if nTest == 0 || nTest == n {
		return nil, nil, fmt.Errorf("cannot split %d rows with test fraction %v", n, testFraction)
	}

	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)

	train, test = &Table{}, &Table{}
	for i, idx := range indices {
		dst := train
		if i < nTest {
			dst = test
		}
		dst.Rows = append(dst.Rows, t.Rows[idx])
		dst.Targets = append(dst.Targets, t.Targets[idx])
	}
	return train, test, nil
}
