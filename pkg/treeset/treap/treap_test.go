package treap_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/reusedist/pkg/treeset/treap"
)

func TestSet(t *testing.T) {
	Convey("Given an empty treap Set[int]", t, func() {
		s := treap.NewSeeded[int](1, 1)

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

		Convey("When 1..200 are inserted in order", func() {
			for i := 1; i <= 200; i++ {
				So(s.Insert(i), ShouldBeTrue)
			}

			Convey("Then the set stays balanced and every invariant holds", func() {
				So(s.Len(), ShouldEqual, 200)
				So(s.Validate(), ShouldBeTrue)
			})

			Convey("Then CountGreater matches the arithmetic expectation", func() {
				So(s.CountGreater(0), ShouldEqual, 200)
				So(s.CountGreater(100), ShouldEqual, 100)
				So(s.CountGreater(200), ShouldEqual, 0)
				So(s.CountGreater(-5), ShouldEqual, 200)
			})

			Convey("Then removing every odd key leaves only evens, still valid", func() {
				for i := 1; i <= 200; i += 2 {
					So(s.Remove(i), ShouldBeTrue)
				}
				So(s.Len(), ShouldEqual, 100)
				So(s.Validate(), ShouldBeTrue)
				So(s.Contains(2), ShouldBeTrue)
				So(s.Contains(3), ShouldBeFalse)
			})
		})

		Convey("When keys are inserted in reverse order", func() {
			for i := 200; i >= 1; i-- {
				So(s.Insert(i), ShouldBeTrue)
			}

			Convey("Then the set is still valid and fully populated", func() {
				So(s.Len(), ShouldEqual, 200)
				So(s.Validate(), ShouldBeTrue)
				So(s.CountGreater(150), ShouldEqual, 50)
			})
		})
	})
}

func TestSetWithStrings(t *testing.T) {
	Convey("Given a treap Set[string] with a few keys", t, func() {
		s := treap.NewSeeded[string](7, 7)

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
