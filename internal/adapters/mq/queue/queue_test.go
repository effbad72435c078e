package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/erdostom/openskill/internal/adapters/mq/queue"
	"github.com/erdostom/openskill/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory match queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))

			ok := q.Enqueue(ctx, model.MatchResult{MatchID: "m1"})

			Convey("Then the match should be accepted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))
			So(q.Enqueue(ctx, model.MatchResult{MatchID: "m1"}), ShouldBeTrue)

			ok := q.Enqueue(ctx, model.MatchResult{MatchID: "m2"})

			Convey("Then the overflow should be rejected without blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When dequeuing", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			q.Enqueue(ctx, model.MatchResult{MatchID: "m1"})
			q.Enqueue(ctx, model.MatchResult{MatchID: "m2"})

			Convey("Then matches should come out in order", func() {
				ch := q.Dequeue(ctx)
				first := <-ch
				second := <-ch
				So(first.MatchID, ShouldEqual, "m1")
				So(second.MatchID, ShouldEqual, "m2")
			})
		})

		Convey("When closing the queue", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			q.Enqueue(ctx, model.MatchResult{MatchID: "m1"})
			So(q.Close(), ShouldBeNil)

			Convey("Then it should report closed and reject enqueues", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, model.MatchResult{MatchID: "m2"}), ShouldBeFalse)
			})

			Convey("Then the dequeue channel should drain and close", func() {
				ch := q.Dequeue(ctx)
				m, ok := <-ch
				So(ok, ShouldBeTrue)
				So(m.MatchID, ShouldEqual, "m1")

				select {
				case _, ok := <-ch:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					So("dequeue channel did not close", ShouldBeEmpty)
				}
			})

			Convey("Then closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
