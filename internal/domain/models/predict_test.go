package models_test

import (
	"errors"
	"testing"

	"github.com/erdostom/openskill/internal/domain/models"
	"github.com/erdostom/openskill/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPredictWin(t *testing.T) {
	Convey("Given a model and a field of teams", t, func() {
		m := models.NewPlackettLuce()

		Convey("When the teams are evenly matched", func() {
			probs, err := m.PredictWin(defaultTeams(2))

			Convey("Then the chances should split evenly", func() {
				So(err, ShouldBeNil)
				So(probs, ShouldHaveLength, 2)
				So(probs[0], ShouldAlmostEqual, 0.5, 1e-9)
				So(probs[1], ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When one team is clearly stronger", func() {
			teams := []models.Team{
				{rating.New(rating.WithMu(33))},
				{rating.New(rating.WithMu(25))},
				{rating.New(rating.WithMu(17))},
			}
			probs, err := m.PredictWin(teams)

			Convey("Then probabilities should follow skill and sum to one", func() {
				So(err, ShouldBeNil)
				So(probs[0], ShouldBeGreaterThan, probs[1])
				So(probs[1], ShouldBeGreaterThan, probs[2])

				var total float64
				for _, p := range probs {
					total += p
				}
				So(total, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When the field is invalid", func() {
			_, err := m.PredictWin(defaultTeams(1))

			Convey("Then it should fail with an invalid-argument error", func() {
				So(errors.Is(err, models.ErrInvalidArgument), ShouldBeTrue)
			})

			_, err = m.PredictWin([]models.Team{{rating.New()}, {}})
			So(errors.Is(err, models.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}

func TestPredictDraw(t *testing.T) {
	Convey("Given a model", t, func() {
		m := models.NewPlackettLuce()

		Convey("When two identical players have almost no uncertainty", func() {
			a := models.Team{rating.New(rating.WithSigma(1e-9))}
			b := models.Team{rating.New(rating.WithSigma(1e-9))}
			prob, err := m.PredictDraw([]models.Team{a, b})

			Convey("Then the draw probability should approach one half", func() {
				So(err, ShouldBeNil)
				So(prob, ShouldAlmostEqual, 0.5, 1e-6)
			})
		})

		Convey("When the skill gap widens", func() {
			near, err := m.PredictDraw([]models.Team{
				{rating.New(rating.WithMu(25))},
				{rating.New(rating.WithMu(26))},
			})
			So(err, ShouldBeNil)

			far, err := m.PredictDraw([]models.Team{
				{rating.New(rating.WithMu(25))},
				{rating.New(rating.WithMu(45))},
			})
			So(err, ShouldBeNil)

			Convey("Then a wider gap should make a draw less likely", func() {
				So(far, ShouldBeLessThan, near)
				So(near, ShouldBeGreaterThan, 0)
				So(near, ShouldBeLessThan, 1)
			})
		})

		Convey("When the field is invalid", func() {
			_, err := m.PredictDraw(defaultTeams(1))

			Convey("Then it should fail with an invalid-argument error", func() {
				So(errors.Is(err, models.ErrInvalidArgument), ShouldBeTrue)
			})
		})
	})
}

func TestPredictRank(t *testing.T) {
	Convey("Given a model", t, func() {
		m := models.NewPlackettLuce()

		Convey("When the teams have distinct strengths", func() {
			teams := []models.Team{
				{rating.New(rating.WithMu(17))},
				{rating.New(rating.WithMu(33))},
				{rating.New(rating.WithMu(25))},
			}
			ranks, err := m.PredictRank(teams)

			Convey("Then predicted ranks should follow strength in input order", func() {
				So(err, ShouldBeNil)
				So(ranks, ShouldHaveLength, 3)
				So(ranks[0].Rank, ShouldEqual, 3)
				So(ranks[1].Rank, ShouldEqual, 1)
				So(ranks[2].Rank, ShouldEqual, 2)
			})

			Convey("Then the probabilities should sum to one", func() {
				var total float64
				for _, r := range ranks {
					total += r.Probability
				}
				So(total, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When every team is equal", func() {
			ranks, err := m.PredictRank(defaultTeams(3))

			Convey("Then everyone should share the first rank", func() {
				So(err, ShouldBeNil)
				for _, r := range ranks {
					So(r.Rank, ShouldEqual, 1)
				}
			})
		})

		Convey("When the field is invalid", func() {
			_, err := m.PredictRank(nil)

			Convey("Then it should fail with an invalid-argument error", func() {
				So(errors.Is(err, models.ErrInvalidArgument), ShouldBeTrue)
			})
		})
	})
}
