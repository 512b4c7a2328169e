package pool_test

import (
	"testing"

	pool "github.com/classpick/classpick/internal/domain/pool"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDraw(t *testing.T) {
	list := []string{"Ada", "Grace", "Edsger", "Barbara"}

	Convey("Given an empty participant list", t, func() {
		rng := pool.NewSeededRNG(1, 1)

		Convey("Then drawing fails with ErrEmptyList regardless of mode", func() {
			_, _, err := pool.Draw(nil, pool.Full(0), true, rng)
			So(err, ShouldEqual, pool.ErrEmptyList)

			_, _, err = pool.Draw([]string{}, nil, false, rng)
			So(err, ShouldEqual, pool.ErrEmptyList)
		})
	})

	Convey("Given repeat mode (noRepeat off)", t, func() {
		rng := pool.NewSeededRNG(7, 7)
		p := pool.Full(len(list))

		Convey("When drawing many times", func() {
			seen := make(map[int]bool)
			for range 100 {
				idx, next, err := pool.Draw(list, p, false, rng)
				So(err, ShouldBeNil)
				So(idx, ShouldBeBetweenOrEqual, 0, len(list)-1)
				So(len(next), ShouldEqual, len(p))
				seen[idx] = true
				p = next
			}

			Convey("Then the pool never shrinks and every index shows up", func() {
				So(len(seen), ShouldEqual, len(list))
			})
		})
	})

	Convey("Given no-repeat mode", t, func() {
		rng := pool.NewSeededRNG(42, 99)

		Convey("When drawing as many times as the list is long", func() {
			p := pool.Full(len(list))
			visited := make(map[int]int)
			for range list {
				idx, next, err := pool.Draw(list, p, true, rng)
				So(err, ShouldBeNil)
				visited[idx]++
				p = next
			}

			Convey("Then every index is visited exactly once", func() {
				So(len(visited), ShouldEqual, len(list))
				for _, count := range visited {
					So(count, ShouldEqual, 1)
				}
				So(len(p), ShouldEqual, 0)
			})

			Convey("And one more draw reports exhaustion", func() {
				_, _, err := pool.Draw(list, p, true, rng)
				So(err, ShouldEqual, pool.ErrExhausted)
			})
		})

		Convey("When the owning list shrank since the pool was built", func() {
			p := pool.Full(6) // pool for a six-item list

			Convey("Then stale indices are filtered before the draw", func() {
				for range len(list) {
					idx, next, err := pool.Draw(list, p, true, rng)
					So(err, ShouldBeNil)
					So(idx, ShouldBeLessThan, len(list))
					p = next
				}
				_, _, err := pool.Draw(list, p, true, rng)
				So(err, ShouldEqual, pool.ErrExhausted)
			})
		})
	})
}

func TestDrawPermutationProperty(t *testing.T) {
	Convey("Given many seeds and list sizes", t, func() {
		Convey("Then n no-repeat draws always form a permutation", func() {
			for seed := uint64(1); seed <= 25; seed++ {
				for _, n := range []int{1, 2, 3, 5, 8, 13} {
					list := make([]string, n)
					rng := pool.NewSeededRNG(seed, seed*31)
					p := pool.Full(n)
					visited := make(map[int]bool)
					for range n {
						idx, next, err := pool.Draw(list, p, true, rng)
						So(err, ShouldBeNil)
						So(visited[idx], ShouldBeFalse)
						visited[idx] = true
						p = next
					}
					So(len(visited), ShouldEqual, n)
				}
			}
		})
	})
}

func TestPrune(t *testing.T) {
	Convey("Given a pool with stale indices", t, func() {
		p := pool.Pool{0, 4, 2, 7, 1}

		Convey("When pruning against a shorter list", func() {
			out := p.Prune(3)

			Convey("Then only live indices remain, order preserved", func() {
				So(out, ShouldResemble, pool.Pool{0, 2, 1})
			})
		})
	})
}
