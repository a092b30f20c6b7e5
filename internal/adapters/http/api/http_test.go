package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/pitchside/internal/adapters/http/api"
	"github.com/okian/pitchside/internal/adapters/sequence"
	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/curriculum"
	"github.com/okian/pitchside/internal/domain/pillar"
	"github.com/okian/pitchside/internal/domain/radar"
	. "github.com/smartystreets/goconvey/convey"
)

type chartCall struct {
	view     string
	playerID string
	pillar   pillar.Pillar
}

type mockDependencies struct {
	calls     []chartCall
	chartErr  error
	pointsErr error
}

func (m *mockDependencies) Chart(_ context.Context, view, playerID string, p pillar.Pillar) (radar.Chart, error) {
	m.calls = append(m.calls, chartCall{view: view, playerID: playerID, pillar: p})
	if m.chartErr != nil {
		return radar.Chart{}, m.chartErr
	}
	axes := p.Axes()
	scores := radar.Normalize(map[string]int{axes[0].Key: 4}, axes)
	chart := radar.NewLayout().Build(axes, scores)
	chart.Pillar, chart.PlayerID = p, playerID
	return chart, nil
}

func (m *mockDependencies) CurrentPointsSummary(_ context.Context, playerID string) (service.PointsSummary, error) {
	if m.pointsErr != nil {
		return service.PointsSummary{}, m.pointsErr
	}
	return service.PointsSummary{
		PlayerID:     playerID,
		Quarter:      curriculum.Quarter{Year: 2026, Number: 4},
		Total:        42.5,
		Transactions: 3,
	}, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{}
		stats := &mockStatsProvider{stats: map[string]interface{}{"started": true}}
		h := api.NewServer(deps, stats).Handler()

		Convey("Health serves prometheus metrics", func() {
			w := do(h, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Stats returns the provider's map", func() {
			w := do(h, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["started"], ShouldEqual, true)
		})

		Convey("Non-GET methods are not found", func() {
			So(do(h, http.MethodPost, "/stats").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodPost, "/spider/p1?pillar=mental").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Every response carries a request id", func() {
			w := do(h, http.MethodGet, "/stats")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)

			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			req.Header.Set(api.RequestIDHeader, "req-7")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			So(rec.Header().Get(api.RequestIDHeader), ShouldEqual, "req-7")
		})

		Convey("Unknown paths are not found", func() {
			So(do(h, http.MethodGet, "/leaderboard").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Extra registrars share the mux and the request id chain", func() {
			docs := api.NewServer(deps, stats).Handler(func(mux *http.ServeMux) {
				mux.HandleFunc("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusTeapot)
				})
			})
			w := do(docs, http.MethodGet, "/api-docs")
			So(w.Code, ShouldEqual, http.StatusTeapot)
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			So(do(docs, http.MethodGet, "/stats").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestSpiderHandler(t *testing.T) {
	Convey("Given the spider endpoint", t, func() {
		deps := &mockDependencies{}
		h := api.NewServer(deps, &mockStatsProvider{}).Handler()

		Convey("A valid request returns the chart", func() {
			w := do(h, http.MethodGet, "/spider/p1?pillar=Technical&view=tab-1")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.calls, ShouldResemble, []chartCall{{view: "tab-1", playerID: "p1", pillar: pillar.Technical}})

			var chart struct {
				Pillar     string `json:"pillar"`
				PlayerID   string `json:"player_id"`
				Renderable bool   `json:"renderable"`
				Axes       []struct {
					Key     string   `json:"key"`
					Score   *float64 `json:"score"`
					Display string   `json:"display"`
				} `json:"axes"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &chart), ShouldBeNil)
			So(chart.Pillar, ShouldEqual, "technical")
			So(chart.PlayerID, ShouldEqual, "p1")
			So(chart.Renderable, ShouldBeTrue)
			So(chart.Axes[0].Display, ShouldEqual, "4.0")
			last := chart.Axes[len(chart.Axes)-1]
			So(last.Score, ShouldBeNil)
			So(last.Display, ShouldEqual, radar.NoScore)
		})

		Convey("An unknown pillar is a bad request", func() {
			w := do(h, http.MethodGet, "/spider/p1?pillar=social")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.calls, ShouldBeEmpty)
		})

		Convey("A missing player id is a bad request", func() {
			So(do(h, http.MethodGet, "/spider/?pillar=mental").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodGet, "/spider/a/b?pillar=mental").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A superseded request is reported as a conflict", func() {
			deps.chartErr = sequence.ErrStale
			w := do(h, http.MethodGet, "/spider/p1?pillar=mental&view=tab-1")
			So(w.Code, ShouldEqual, http.StatusConflict)

			var body map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["code"], ShouldEqual, "stale")
			So(body["request_id"], ShouldNotBeEmpty)
		})

		Convey("A service that is not started is unavailable", func() {
			deps.chartErr = service.ErrNotStarted
			So(do(h, http.MethodGet, "/spider/p1?pillar=mental").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Other failures are internal errors", func() {
			deps.chartErr = errors.New("boom")
			So(do(h, http.MethodGet, "/spider/p1?pillar=mental").Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestPointsHandler(t *testing.T) {
	Convey("Given the points endpoint", t, func() {
		deps := &mockDependencies{}
		h := api.NewServer(deps, &mockStatsProvider{}).Handler()

		Convey("A valid request returns the summary", func() {
			w := do(h, http.MethodGet, "/points/p1")
			So(w.Code, ShouldEqual, http.StatusOK)

			var sum service.PointsSummary
			So(json.Unmarshal(w.Body.Bytes(), &sum), ShouldBeNil)
			So(sum.PlayerID, ShouldEqual, "p1")
			So(sum.Total, ShouldEqual, 42.5)
			So(sum.Quarter.String(), ShouldEqual, "2026-Q4")
		})

		Convey("An invalid player is a bad request", func() {
			deps.pointsErr = fmt.Errorf("lookup: %w", service.ErrInvalidPlayer)
			So(do(h, http.MethodGet, "/points/p1").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Given API operation errors", t, func() {
		cause := errors.New("boom")

		Convey("WrapKind unwraps to both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("NewKind carries only the kind", func() {
			err := api.NewKind("api.op", api.ErrStale)
			So(errors.Is(err, api.ErrStale), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: stale result")
		})

		Convey("Wrap of nil is nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("api.op", cause), cause), ShouldBeTrue)
		})
	})
}
