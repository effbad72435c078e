package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/erdostom/openskill/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		ctx := context.Background()

		Convey("When creating it with defaults", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording match ids", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the id is new", func() {
				seen := d.SeenAndRecord(ctx, "match-1")

				Convey("Then it should record and report unseen", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the id was already recorded", func() {
				d.SeenAndRecord(ctx, "match-1")
				seen := d.SeenAndRecord(ctx, "match-1")

				Convey("Then it should report seen without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording an id", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "match-1")
			d.Unrecord(ctx, "match-1")

			Convey("Then the id should be accepted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "match-1"), ShouldBeFalse)
			})

			Convey("And unrecording an unknown id should be a no-op", func() {
				d.Unrecord(ctx, "never-seen")
				So(d.Size(), ShouldBeGreaterThanOrEqualTo, 0)
			})
		})

		Convey("When the cache overflows its bound", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 0; i < 5; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("match-%d", i))
			}

			Convey("Then the oldest ids should have been evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "match-0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "match-4"), ShouldBeTrue)
			})
		})

		Convey("When hammered concurrently", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						d.SeenAndRecord(ctx, fmt.Sprintf("g%d-m%d", g, i))
					}
				}(g)
			}
			wg.Wait()

			Convey("Then every distinct id should be tracked once", func() {
				So(d.Size(), ShouldEqual, 800)
			})
		})
	})
}
