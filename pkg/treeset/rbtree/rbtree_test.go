package rbtree_test

import (
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/reusedist/pkg/treeset/rbtree"
)

func TestSet(t *testing.T) {
	Convey("Given an empty rbtree Set[int]", t, func() {
		s := rbtree.New[int]()

		So(s.Len(), ShouldEqual, 0)
		So(s.Contains(0), ShouldBeFalse)
		So(s.Validate(), ShouldBeTrue)

		Convey("When a key is inserted", func() {
			So(s.Insert(10), ShouldBeTrue)

			Convey("Then it is present and counted", func() {
				So(s.Len(), ShouldEqual, 1)
				So(s.Contains(10), ShouldBeTrue)
				So(s.Validate(), ShouldBeTrue)
			})

			Convey("Then inserting it again reports false and changes nothing", func() {
				So(s.Insert(10), ShouldBeFalse)
				So(s.Len(), ShouldEqual, 1)
			})

			Convey("Then removing it reports true and empties the set", func() {
				So(s.Remove(10), ShouldBeTrue)
				So(s.Len(), ShouldEqual, 0)
				So(s.Contains(10), ShouldBeFalse)
				So(s.Validate(), ShouldBeTrue)
			})

			Convey("Then removing a different key reports false", func() {
				So(s.Remove(99), ShouldBeFalse)
				So(s.Len(), ShouldEqual, 1)
			})
		})

		Convey("When 1..100 are inserted in strictly ascending order", func() {
			for i := 1; i <= 100; i++ {
				So(s.Insert(i), ShouldBeTrue)
			}

			Convey("Then balancing defeats the pathological BST case", func() {
				So(s.Len(), ShouldEqual, 100)
				for i := 1; i <= 100; i++ {
					So(s.Contains(i), ShouldBeTrue)
				}
				for i := 101; i <= 200; i++ {
					So(s.Contains(i), ShouldBeFalse)
				}
				So(s.Validate(), ShouldBeTrue)
			})

			Convey("Then CountGreater matches the arithmetic expectation", func() {
				So(s.CountGreater(0), ShouldEqual, 100)
				So(s.CountGreater(50), ShouldEqual, 50)
				So(s.CountGreater(100), ShouldEqual, 0)
			})

			Convey("Then removing all even keys in randomized order leaves only odds", func() {
				evens := make([]int, 0, 50)
				for i := 2; i <= 100; i += 2 {
					evens = append(evens, i)
				}
				rand.Shuffle(len(evens), func(i, j int) { evens[i], evens[j] = evens[j], evens[i] })

				for _, k := range evens {
					So(s.Remove(k), ShouldBeTrue)
				}
				So(s.Len(), ShouldEqual, 50)
				So(s.Validate(), ShouldBeTrue)
				for i := 1; i <= 100; i += 2 {
					So(s.Contains(i), ShouldBeTrue)
				}
				for _, k := range evens {
					So(s.Contains(k), ShouldBeFalse)
				}

				Convey("Then removing the even set a second time is a no-op", func() {
					for _, k := range evens {
						So(s.Remove(k), ShouldBeFalse)
					}
					So(s.Len(), ShouldEqual, 50)
					So(s.Validate(), ShouldBeTrue)
				})
			})
		})

		Convey("When keys are inserted in strictly descending order", func() {
			for i := 100; i >= 1; i-- {
				So(s.Insert(i), ShouldBeTrue)
			}

			Convey("Then the tree is still balanced and valid", func() {
				So(s.Len(), ShouldEqual, 100)
				So(s.Validate(), ShouldBeTrue)
				So(s.CountGreater(75), ShouldEqual, 25)
			})
		})

		Convey("When a node with two children is removed", func() {
			for _, k := range []int{50, 25, 75, 10, 30, 60, 90} {
				So(s.Insert(k), ShouldBeTrue)
			}

			Convey("Then removing the root preserves every other key", func() {
				So(s.Remove(50), ShouldBeTrue)
				So(s.Validate(), ShouldBeTrue)
				So(s.Len(), ShouldEqual, 6)
				So(s.Contains(50), ShouldBeFalse)
				for _, k := range []int{25, 75, 10, 30, 60, 90} {
					So(s.Contains(k), ShouldBeTrue)
				}
			})
		})
	})
}

func TestSetWithStrings(t *testing.T) {
	Convey("Given a rbtree Set[string] with a few keys", t, func() {
		s := rbtree.New[string]()

		for _, k := range []string{"banana", "apple", "cherry", "date"} {
			So(s.Insert(k), ShouldBeTrue)
		}

		Convey("Then CountGreater orders lexicographically", func() {
			So(s.CountGreater("apple"), ShouldEqual, 3)
			So(s.CountGreater("cherry"), ShouldEqual, 1)
			So(s.CountGreater("zzz"), ShouldEqual, 0)
		})

		Convey("Then Validate holds after a mixed sequence of inserts and removes", func() {
			So(s.Remove("banana"), ShouldBeTrue)
			So(s.Insert("blueberry"), ShouldBeTrue)
			So(s.Validate(), ShouldBeTrue)
			So(s.Len(), ShouldEqual, 4)
		})
	})
}
