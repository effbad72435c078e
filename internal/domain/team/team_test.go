package team_test

import (
	"testing"

	"github.com/erdostom/openskill/internal/domain/rating"
	"github.com/erdostom/openskill/internal/domain/team"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClone(t *testing.T) {
	Convey("Given a team of ratings", t, func() {
		original := team.Team{
			rating.New(rating.WithMu(20)),
			rating.New(rating.WithMu(30)),
		}

		Convey("When cloning it", func() {
			clone := original.Clone()
			clone[0].Mu = 99

			Convey("Then the clone should be independent of the original", func() {
				So(original[0].Mu, ShouldEqual, 20.0)
				So(clone[1].Mu, ShouldEqual, 30.0)
			})

			Convey("Then identity tokens should survive the copy", func() {
				So(clone[1].ID(), ShouldEqual, original[1].ID())
			})
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given team members to aggregate", t, func() {
		members := team.Team{
			rating.New(rating.WithMu(20), rating.WithSigma(3)),
			rating.New(rating.WithMu(30), rating.WithSigma(4)),
		}

		Convey("When aggregating without balance", func() {
			tr := team.Aggregate(members, 1, false, 0.0001)

			Convey("Then mu should be the sum of member means", func() {
				So(tr.Mu, ShouldAlmostEqual, 50.0, 1e-12)
			})

			Convey("Then variance should be the sum of member variances", func() {
				So(tr.SigmaSq, ShouldAlmostEqual, 9.0+16.0, 1e-12)
			})

			Convey("Then rank and members should carry through", func() {
				So(tr.Rank, ShouldEqual, 1.0)
				So(tr.Team, ShouldHaveLength, 2)
			})
		})

		Convey("When aggregating with balance", func() {
			plain := team.Aggregate(members, 0, false, 0.0001)
			balanced := team.Aggregate(members, 0, true, 0.0001)

			Convey("Then weaker members should carry extra weight", func() {
				So(balanced.Mu, ShouldBeGreaterThan, plain.Mu)
				So(balanced.SigmaSq, ShouldBeGreaterThan, plain.SigmaSq)
			})

			Convey("Then the best member should keep weight one", func() {
				solo := team.Team{members[1]}
				So(team.Aggregate(solo, 0, true, 0.0001).Mu, ShouldAlmostEqual, 30.0, 1e-9)
			})
		})
	})
}
