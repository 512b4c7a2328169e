package group_test

import (
	"fmt"
	"sort"
	"testing"

	group "github.com/classpick/classpick/internal/domain/group"
	pool "github.com/classpick/classpick/internal/domain/pool"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPartition(t *testing.T) {
	names := []string{"Ada", "Grace", "Edsger", "Barbara", "Donald"}

	Convey("Given a five-name list", t, func() {
		rng := pool.NewSeededRNG(3, 9)

		Convey("When partitioning into two groups", func() {
			groups, err := group.Partition(names, 2, rng)

			Convey("Then sizes are 3 and 2 in some order and all names covered", func() {
				So(err, ShouldBeNil)
				So(len(groups), ShouldEqual, 2)

				sizes := []int{len(groups[0]), len(groups[1])}
				sort.Ints(sizes)
				So(sizes, ShouldResemble, []int{2, 3})

				var all []string
				for _, g := range groups {
					all = append(all, g...)
				}
				sort.Strings(all)
				want := append([]string(nil), names...)
				sort.Strings(want)
				So(all, ShouldResemble, want)
			})
		})

		Convey("When the group count is below one", func() {
			_, err := group.Partition(names, 0, rng)

			Convey("Then it fails with ErrInvalidCount", func() {
				So(err, ShouldEqual, group.ErrInvalidCount)
			})
		})

		Convey("When asking for more groups than names", func() {
			_, err := group.Partition(names, 6, rng)

			Convey("Then it fails with ErrInsufficientItems", func() {
				So(err, ShouldEqual, group.ErrInsufficientItems)
			})
		})

		Convey("When every name forms its own group", func() {
			groups, err := group.Partition(names, len(names), rng)

			Convey("Then each group holds exactly one name", func() {
				So(err, ShouldBeNil)
				So(len(groups), ShouldEqual, len(names))
				for _, g := range groups {
					So(len(g), ShouldEqual, 1)
				}
			})
		})
	})
}

func TestPartitionProperties(t *testing.T) {
	Convey("Given many seeds, sizes and group counts", t, func() {
		Convey("Then sizes differ by at most one and the multiset is preserved", func() {
			for seed := uint64(1); seed <= 20; seed++ {
				for n := 1; n <= 12; n++ {
					list := make([]string, n)
					for i := range list {
						list[i] = fmt.Sprintf("p%02d", i)
					}
					for k := 1; k <= n; k++ {
						rng := pool.NewSeededRNG(seed, uint64(n*100+k))
						groups, err := group.Partition(list, k, rng)
						So(err, ShouldBeNil)
						So(len(groups), ShouldEqual, k)

						minSize, maxSize := n, 0
						var all []string
						for _, g := range groups {
							if len(g) < minSize {
								minSize = len(g)
							}
							if len(g) > maxSize {
								maxSize = len(g)
							}
							all = append(all, g...)
						}
						So(maxSize-minSize, ShouldBeLessThanOrEqualTo, 1)

						sort.Strings(all)
						want := append([]string(nil), list...)
						sort.Strings(want)
						So(all, ShouldResemble, want)
					}
				}
			}
		})
	})
}
