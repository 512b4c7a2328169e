// Package group splits a participant list into balanced random groups.
package group

import (
	pool "github.com/classpick/classpick/internal/domain/pool"
)

// Partition shuffles list uniformly and deals the result round-robin into
// numGroups groups. Group sizes differ by at most one, and which items land
// together is unbiased because every permutation of the shuffle is equally
// likely. Successive calls are independent; there is no repeat avoidance.
func Partition(list []string, numGroups int, rng pool.RNG) ([][]string, error) {
	if numGroups < 1 {
		return nil, ErrInvalidCount
	}
	if len(list) < numGroups {
		return nil, ErrInsufficientItems
	}

	shuffled := make([]string, len(list))
	copy(shuffled, list)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	groups := make([][]string, numGroups)
	for g := range groups {
		// Pre-size: groups[i] gets ceil or floor of len/numGroups items.
		size := len(list) / numGroups
		if g < len(list)%numGroups {
			size++
		}
		groups[g] = make([]string, 0, size)
	}
	for i, name := range shuffled {
		g := i % numGroups
		groups[g] = append(groups[g], name)
	}
	return groups, nil
}
