package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erdostom/openskill/internal/adapters/http/api"
	"github.com/erdostom/openskill/internal/adapters/repository"
	"github.com/erdostom/openskill/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps implements api.Dependencies in memory.
type fakeDeps struct {
	seen       map[string]struct{}
	enqueued   []model.MatchResult
	rejectNext bool
	entries    []api.Entry
	rankErr    error
	winProbs   []float64
	drawProb   float64
	rankPreds  []api.RankProbability
	predictErr error
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{seen: make(map[string]struct{})}
}

func (f *fakeDeps) SeenAndRecord(_ context.Context, id string) bool {
	if _, ok := f.seen[id]; ok {
		return true
	}
	f.seen[id] = struct{}{}
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, id string) {
	delete(f.seen, id)
}

func (f *fakeDeps) Size() int64 {
	return int64(len(f.seen))
}

func (f *fakeDeps) Enqueue(_ context.Context, m model.MatchResult) bool {
	if f.rejectNext {
		return false
	}
	f.enqueued = append(f.enqueued, m)
	return true
}

func (f *fakeDeps) TopN(_ context.Context, n int) ([]api.Entry, error) {
	if n > len(f.entries) {
		n = len(f.entries)
	}
	return f.entries[:n], nil
}

func (f *fakeDeps) Rank(_ context.Context, playerID string) (api.Entry, error) {
	if f.rankErr != nil {
		return api.Entry{}, f.rankErr
	}
	for _, e := range f.entries {
		if e.PlayerID == playerID {
			return e, nil
		}
	}
	return api.Entry{}, repository.ErrNotFound
}

func (f *fakeDeps) PredictWin(_ context.Context, _ [][]string) ([]float64, error) {
	return f.winProbs, f.predictErr
}

func (f *fakeDeps) PredictDraw(_ context.Context, _ [][]string) (float64, error) {
	return f.drawProb, f.predictErr
}

func (f *fakeDeps) PredictRank(_ context.Context, _ [][]string) ([]api.RankProbability, error) {
	return f.rankPreds, f.predictErr
}

func (f *fakeDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *fakeDeps) *httptest.Server {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, deps, 100)
	srv.Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(url, body string) (*http.Response, error) {
	return http.Post(url, "application/json", strings.NewReader(body)) //nolint:noctx // test helper
}

func TestPostMatch(t *testing.T) {
	Convey("Given the matches endpoint", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When posting a valid match", func() {
			resp, err := postJSON(ts.URL+"/matches",
				`{"match_id":"m1","teams":[["a"],["b"]],"ranks":[0,1]}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should be accepted and enqueued", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].MatchID, ShouldEqual, "m1")
				So(deps.enqueued[0].Ranks, ShouldResemble, []float64{0, 1})
			})
		})

		Convey("When posting the same match twice", func() {
			resp1, err := postJSON(ts.URL+"/matches", `{"match_id":"m1","teams":[["a"],["b"]]}`)
			So(err, ShouldBeNil)
			resp1.Body.Close()

			resp2, err := postJSON(ts.URL+"/matches", `{"match_id":"m1","teams":[["a"],["b"]]}`)
			So(err, ShouldBeNil)
			defer resp2.Body.Close()

			Convey("Then the duplicate should be acknowledged without enqueuing", func() {
				So(resp2.StatusCode, ShouldEqual, http.StatusOK)

				var ack struct {
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
				}
				So(json.NewDecoder(resp2.Body).Decode(&ack), ShouldBeNil)
				So(ack.Duplicate, ShouldBeTrue)
				So(deps.enqueued, ShouldHaveLength, 1)
			})
		})

		Convey("When the queue pushes back", func() {
			deps.rejectNext = true
			resp, err := postJSON(ts.URL+"/matches", `{"match_id":"m1","teams":[["a"],["b"]]}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should return 429 and forget the id", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
				So(deps.Size(), ShouldEqual, 0)
			})
		})

		Convey("When posting invalid payloads", func() {
			cases := map[string]string{
				"broken JSON":          `{`,
				"missing match id":     `{"teams":[["a"],["b"]]}`,
				"a single team":        `{"match_id":"m1","teams":[["a"]]}`,
				"an empty team":        `{"match_id":"m1","teams":[["a"],[]]}`,
				"ranks and scores":     `{"match_id":"m1","teams":[["a"],["b"]],"ranks":[0,1],"scores":[1,0]}`,
				"short rank vector":    `{"match_id":"m1","teams":[["a"],["b"]],"ranks":[0]}`,
				"a malformed ts":       `{"match_id":"m1","teams":[["a"],["b"]],"ts":"yesterday"}`,
				"a blank player id":    `{"match_id":"m1","teams":[[" "],["b"]]}`,
			}

			for label, body := range cases {
				Convey("Then "+label+" should be rejected", func() {
					resp, err := postJSON(ts.URL+"/matches", body)
					So(err, ShouldBeNil)
					defer resp.Body.Close()
					So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				})
			}
		})

		Convey("When using the wrong method", func() {
			resp, err := http.Get(ts.URL + "/matches") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestLeaderboardAndRank(t *testing.T) {
	Convey("Given read endpoints backed by entries", t, func() {
		deps := newFakeDeps()
		deps.entries = []api.Entry{
			{Rank: 1, PlayerID: "alice", Mu: 28, Sigma: 6, Ordinal: 10},
			{Rank: 2, PlayerID: "bob", Mu: 25, Sigma: 7, Ordinal: 4},
		}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When fetching the leaderboard", func() {
			resp, err := http.Get(ts.URL + "/leaderboard?limit=2") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the entries should come back in rank order", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var entries []api.Entry
				So(json.NewDecoder(resp.Body).Decode(&entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].PlayerID, ShouldEqual, "alice")
			})
		})

		Convey("When the limit is missing or invalid", func() {
			for _, q := range []string{"", "?limit=0", "?limit=abc"} {
				resp, err := http.Get(ts.URL + "/leaderboard" + q) //nolint:noctx // test helper
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the cap", func() {
			resp, err := http.Get(ts.URL + "/leaderboard?limit=1000") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching a known player's rank", func() {
			resp, err := http.Get(ts.URL + "/rank/alice") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the entry should come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var entry api.Entry
				So(json.NewDecoder(resp.Body).Decode(&entry), ShouldBeNil)
				So(entry.Rank, ShouldEqual, 1)
			})
		})

		Convey("When fetching an unknown player's rank", func() {
			resp, err := http.Get(ts.URL + "/rank/ghost") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the rank path is malformed", func() {
			resp, err := http.Get(ts.URL + "/rank/a/b") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestPredictEndpoints(t *testing.T) {
	Convey("Given the prediction endpoints", t, func() {
		deps := newFakeDeps()
		deps.winProbs = []float64{0.7, 0.3}
		deps.drawProb = 0.12
		deps.rankPreds = []api.RankProbability{{Rank: 1, Probability: 0.7}, {Rank: 2, Probability: 0.3}}
		ts := newTestServer(deps)
		defer ts.Close()

		body := `{"teams":[["a"],["b"]]}`

		Convey("When predicting a win", func() {
			resp, err := postJSON(ts.URL+"/predict/win", body)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the probability vector should come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var out struct {
					Probabilities []float64 `json:"probabilities"`
				}
				So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
				So(out.Probabilities, ShouldResemble, []float64{0.7, 0.3})
			})
		})

		Convey("When predicting a draw", func() {
			resp, err := postJSON(ts.URL+"/predict/draw", body)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the probability should come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var out struct {
					Probability float64 `json:"probability"`
				}
				So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
				So(out.Probability, ShouldEqual, 0.12)
			})
		})

		Convey("When predicting ranks", func() {
			resp, err := postJSON(ts.URL+"/predict/rank", body)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the rank predictions should come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var out struct {
					Ranks []api.RankProbability `json:"ranks"`
				}
				So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
				So(out.Ranks, ShouldHaveLength, 2)
				So(out.Ranks[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When the prediction kind is unknown", func() {
			resp, err := postJSON(ts.URL+"/predict/score", body)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the payload is invalid", func() {
			resp, err := postJSON(ts.URL+"/predict/win", `{"teams":[["a"]]}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the operational endpoints", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When checking health", func() {
			resp, err := http.Get(ts.URL + "/healthz") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should report ok", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When fetching stats", func() {
			resp, err := http.Get(ts.URL + "/stats") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the stats document should come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var stats map[string]interface{}
				So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When scraping metrics", func() {
			resp, err := http.Get(ts.URL + "/metrics") //nolint:noctx // test helper
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then Prometheus exposition should come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}
