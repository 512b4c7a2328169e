// Package pool implements the no-repeat sampling pool consulted by draws.
//
// A Pool is an ordered set of indices into a participant list that have not
// been drawn since the last reset. The pool itself is a value; callers own
// persistence of the returned pool between draws.
package pool

// Pool holds the not-yet-drawn indices of a list. Order only matters as a
// candidate enumeration, not semantically.
type Pool []int

// Full returns a pool covering every index of a list of length n.
func Full(n int) Pool {
	p := make(Pool, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// Prune drops indices that no longer exist in a list of length n. The
// owning list may shrink between draws; stale indices are filtered lazily
// here rather than eagerly on every mutation.
func (p Pool) Prune(n int) Pool {
	out := make(Pool, 0, len(p))
	for _, i := range p {
		if i < n {
			out = append(out, i)
		}
	}
	return out
}

// Draw selects a uniformly random index from list.
//
// With noRepeat set, candidates come from the pruned pool and the selected
// index is removed from the returned pool; an empty candidate set yields
// ErrExhausted and the caller must reset the pool before the next attempt.
// Without noRepeat every index is a candidate and the pool passes through
// untouched.
func Draw(list []string, p Pool, noRepeat bool, rng RNG) (int, Pool, error) {
	if len(list) == 0 {
		return 0, p, ErrEmptyList
	}

	if !noRepeat {
		return rng.Intn(len(list)), p, nil
	}

	candidates := p.Prune(len(list))
	if len(candidates) == 0 {
		return 0, candidates, ErrExhausted
	}

	pos := rng.Intn(len(candidates))
	selected := candidates[pos]
	next := make(Pool, 0, len(candidates)-1)
	next = append(next, candidates[:pos]...)
	next = append(next, candidates[pos+1:]...)
	return selected, next, nil
}
