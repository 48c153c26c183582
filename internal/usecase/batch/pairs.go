package batch

import "context"

// pair is the (i, j) position of two users in the sorted snapshot, i < j,
// together with its index in row-major enumeration order.
type pair struct {
	i, j  int
	index int64
}

// PairCount is the number of unordered pairs among n users.
func PairCount(n int) int64 {
	if n < 2 {
		return 0
	}
	return int64(n) * int64(n-1) / 2
}

// generatePairs streams every pair with index >= from. It stops early and
// closes out when ctx is done.
func generatePairs(ctx context.Context, n int, from int64) <-chan pair {
	out := make(chan pair, 256)

	go func() {
		defer close(out)

		var index int64
		for i := 0; i < n-1; i++ {
			row := int64(n - 1 - i)
			if index+row <= from {
				index += row
				continue
			}
			for j := i + 1; j < n; j, index = j+1, index+1 {
				if index < from {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- pair{i: i, j: j, index: index}:
				}
			}
		}
	}()

	return out
}
