package arena_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/reusedist/pkg/arena"
)

type testSlot struct {
	X int
	Y float64
}

func TestArena(t *testing.T) {
	Convey("Given an empty Arena", t, func() {
		a := arena.New[testSlot](0)

		So(a.Len(), ShouldEqual, 0)

		Convey("When a slot is allocated", func() {
			h := a.Alloc()
			*a.Get(h) = testSlot{X: 42, Y: 3.14}

			Convey("Then the handle is non-null and readable", func() {
				So(h, ShouldNotEqual, arena.Null)
				So(a.Get(h).X, ShouldEqual, 42)
				So(a.Len(), ShouldEqual, 1)
			})

			Convey("When it is freed", func() {
				a.Free(h)

				Convey("Then Len drops back to zero", func() {
					So(a.Len(), ShouldEqual, 0)
				})

				Convey("Then the next Alloc recycles the handle", func() {
					h2 := a.Alloc()
					So(h2, ShouldEqual, h)
				})
			})
		})

		Convey("When many slots are allocated without freeing", func() {
			handles := make([]arena.Handle, 0, 256)
			for i := 0; i < 256; i++ {
				h := a.Alloc()
				*a.Get(h) = testSlot{X: i}
				handles = append(handles, h)
			}

			Convey("Then every handle is distinct and its value survives growth", func() {
				seen := make(map[arena.Handle]bool, len(handles))
				for i, h := range handles {
					So(seen[h], ShouldBeFalse)
					seen[h] = true
					So(a.Get(h).X, ShouldEqual, i)
				}
				So(a.Len(), ShouldEqual, 256)
			})
		})

		Convey("When slots are freed and reallocated in a different order", func() {
			h1 := a.Alloc()
			h2 := a.Alloc()
			h3 := a.Alloc()

			a.Free(h2)
			a.Free(h1)

			h4 := a.Alloc()
			h5 := a.Alloc()

			Convey("Then Len reflects only live slots", func() {
				So(a.Len(), ShouldEqual, 3)
			})

			Convey("Then the recycled handles are h1 and h2, in LIFO order", func() {
				So(h4, ShouldEqual, h1)
				So(h5, ShouldEqual, h2)
				So(h3, ShouldNotEqual, h4)
			})
		})
	})
}

func TestArenaRejectsNonTriviallyCopyableSlots(t *testing.T) {
	Convey("Given a slot type containing a pointer", t, func() {
		type badSlot struct {
			Next *badSlot
		}

		Convey("Then New panics with a type-contract-violation message", func() {
			defer func() {
				r := recover()
				So(r, ShouldNotBeNil)
				So(r, ShouldContainSubstring, "type contract violation")
			}()

			arena.New[badSlot](0)
		})
	})
}
