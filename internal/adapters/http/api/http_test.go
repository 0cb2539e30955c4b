package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fitcheck/internal/adapters/http/api"
	"github.com/okian/fitcheck/internal/adapters/mq/queue"
	service "github.com/okian/fitcheck/internal/app"
	"github.com/okian/fitcheck/internal/domain/analytics"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/planner"
	"github.com/okian/fitcheck/internal/domain/types"
	"github.com/okian/fitcheck/pkg/logger"
)

func init() { _ = logger.Init() }

// Wednesday.
var fixedNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func startService(t *testing.T, seed bool) *service.Service {
	t.Helper()
	svc := service.New(
		service.WithRandomSeed(7),
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithSeedWardrobe(seed),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return v
}

// stubDeps overrides single methods for failure paths.
type stubDeps struct {
	api.Dependencies
	submitErr error
	dailyErr  error
	ready     bool
}

func (s *stubDeps) SubmitWear(context.Context, model.WearEvent) (types.WearAck, error) {
	return types.WearAck{}, s.submitErr
}

func (s *stubDeps) Daily(context.Context) (planner.DailyPlan, error) {
	return planner.DailyPlan{}, s.dailyErr
}

func (s *stubDeps) Analytics(context.Context) (analytics.Summary, error) {
	return analytics.Summary{}, fmt.Errorf("load history: %w", errors.New(`pq: relation "outfit_history" does not exist`))
}

func (s *stubDeps) Ready() bool { return s.ready }

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func TestServer_Health(t *testing.T) {
	Convey("Given a server over a started service", t, func() {
		svc := startService(t, false)
		h := api.NewServer(svc, &mockStatsProvider{stats: map[string]interface{}{"queueLength": 0}}).Handler()

		Convey("Health reports ok", func() {
			w := do(h, http.MethodGet, "/api/health", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			resp := decode[types.HealthResponse](w)
			So(resp.Status, ShouldEqual, "ok")
			_, err := time.Parse(time.RFC3339, resp.Timestamp)
			So(err, ShouldBeNil)
		})

		Convey("Stats and metrics are served", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "queueLength")

			w = do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Health is unavailable while the service is not ready", func() {
			h := api.NewServer(&stubDeps{}, nil).Handler()
			w := do(h, http.MethodGet, "/api/health", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestServer_Clothing(t *testing.T) {
	Convey("Given a server over an empty wardrobe", t, func() {
		svc := startService(t, false)
		h := api.NewServer(svc, svc).Handler()

		Convey("An empty list is a JSON array", func() {
			w := do(h, http.MethodGet, "/api/clothing", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})

		Convey("Items can be created, listed, updated and deleted", func() {
			w := do(h, http.MethodPost, "/api/clothing",
				`{"type":"top","name":"Navy Tee","primaryHex":"#1F2A44","tags":["casual"]}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			top := decode[model.ClothingItem](w)
			So(top.ID, ShouldNotBeEmpty)
			So(top.PrimaryHex, ShouldEqual, "#1f2a44")
			So(top.Palette, ShouldResemble, []string{"#1f2a44"})

			w = do(h, http.MethodPost, "/api/clothing",
				`{"type":"bottom","name":"Khakis","primaryHex":"#C3B091"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)

			w = do(h, http.MethodGet, "/api/clothing?type=top", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[[]model.ClothingItem](w), ShouldHaveLength, 1)

			w = do(h, http.MethodGet, "/api/clothing?tag=CASUAL", "")
			So(decode[[]model.ClothingItem](w), ShouldHaveLength, 1)

			w = do(h, http.MethodPut, "/api/clothing/"+top.ID, `{"name":"Navy Crew"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[model.ClothingItem](w).Name, ShouldEqual, "Navy Crew")

			w = do(h, http.MethodPost, "/api/clothing/"+top.ID+"/wear", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			worn := decode[model.ClothingItem](w)
			So(worn.WearCount, ShouldEqual, 1)
			So(worn.LastWorn, ShouldNotBeNil)

			w = do(h, http.MethodDelete, "/api/clothing/"+top.ID, "")
			So(w.Code, ShouldEqual, http.StatusNoContent)

			w = do(h, http.MethodDelete, "/api/clothing/"+top.ID, "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[types.ErrorResponse](w).Code, ShouldEqual, "not_found")
		})

		Convey("Invalid input is rejected with 400", func() {
			cases := []struct {
				method, path, body string
			}{
				{http.MethodPost, "/api/clothing", `{"type":"hat","name":"Cap","primaryHex":"#000000"}`},
				{http.MethodPost, "/api/clothing", `{"type":"top","name":"Tee","primaryHex":"navy"}`},
				{http.MethodPost, "/api/clothing", `{"type":"top","name":"","primaryHex":"#000000"}`},
				{http.MethodPost, "/api/clothing", `{not json`},
				{http.MethodGet, "/api/clothing?type=shoes", ""},
				{http.MethodGet, "/api/clothing?sort=price", ""},
			}
			for _, c := range cases {
				w := do(h, c.method, c.path, c.body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("Updating an unknown item is 404", func() {
			w := do(h, http.MethodPut, "/api/clothing/missing", `{"name":"x"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_Planner(t *testing.T) {
	Convey("Given an empty wardrobe", t, func() {
		svc := startService(t, false)
		h := api.NewServer(svc, svc).Handler()

		Convey("Daily reports the inventory counts", func() {
			w := do(h, http.MethodPost, "/api/planner/daily", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			resp := decode[types.ErrorResponse](w)
			So(resp.Code, ShouldEqual, "insufficient_inventory")
			So(resp.Tops, ShouldNotBeNil)
			So(*resp.Tops, ShouldEqual, 0)
			So(*resp.Bottoms, ShouldEqual, 0)
		})
	})

	Convey("Given the starter wardrobe", t, func() {
		svc := startService(t, true)
		h := api.NewServer(svc, svc).Handler()

		Convey("Daily returns a scored outfit for today", func() {
			w := do(h, http.MethodPost, "/api/planner/daily", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			plan := decode[planner.DailyPlan](w)
			So(plan.DayOfWeek, ShouldEqual, "Wednesday")
			So(plan.Outfit, ShouldNotBeNil)
			So(plan.Outfit.Top.Slot, ShouldEqual, model.SlotTop)
			So(plan.Outfit.Bottom.Slot, ShouldEqual, model.SlotBottom)
			So(plan.Outfit.Explanation, ShouldNotBeEmpty)
		})

		Convey("Week returns five days with distinct tops", func() {
			w := do(h, http.MethodPost, "/api/planner/week", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			plan := decode[planner.WeeklyPlan](w)
			So(plan.Week, ShouldHaveLength, 5)
			So(plan.Week[0].Day, ShouldEqual, "Monday")
			So(plan.Week[0].Date, ShouldEqual, "2025-03-10")

			tops := map[string]bool{}
			for _, d := range plan.Week {
				So(d.Outfit, ShouldNotBeNil)
				tops[d.Outfit.Top.ID] = true
			}
			So(tops, ShouldHaveLength, 5)
		})
	})

	Convey("Given a failing dependency", t, func() {
		h := api.NewServer(&stubDeps{ready: true, dailyErr: service.ErrNotStarted}, nil).Handler()

		Convey("A stopped service is 503", func() {
			w := do(h, http.MethodPost, "/api/planner/daily", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Unexpected errors are 500 without the cause", func() {
			w := do(h, http.MethodGet, "/api/analytics", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			body := decode[types.ErrorResponse](w)
			So(body.Code, ShouldEqual, "internal_error")
			So(body.Message, ShouldEqual, http.StatusText(http.StatusInternalServerError))
			So(w.Body.String(), ShouldNotContainSubstring, "outfit_history")
		})
	})
}

func TestServer_WearAndHistory(t *testing.T) {
	Convey("Given a wardrobe with one top and one bottom", t, func() {
		svc := startService(t, false)
		h := api.NewServer(svc, svc).Handler()

		top := decode[model.ClothingItem](do(h, http.MethodPost, "/api/clothing",
			`{"type":"top","name":"Tee","primaryHex":"#1f2a44"}`))
		bottom := decode[model.ClothingItem](do(h, http.MethodPost, "/api/clothing",
			`{"type":"bottom","name":"Chinos","primaryHex":"#c3b091"}`))
		wear := fmt.Sprintf(`{"eventId":"evt-1","topId":%q,"bottomId":%q,"harmonyScore":88,"dripScore":91}`, top.ID, bottom.ID)

		Convey("Recording a wear returns the history entry", func() {
			w := do(h, http.MethodPost, "/api/history", wear)
			So(w.Code, ShouldEqual, http.StatusCreated)
			entry := decode[model.HistoryEntry](w)
			So(entry.ID, ShouldNotBeEmpty)
			So(entry.HarmonyScore, ShouldEqual, 88)
			So(entry.Rating, ShouldBeNil)

			Convey("Repeating the event id is a duplicate", func() {
				w := do(h, http.MethodPost, "/api/history", wear)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[types.WearAck](w).Duplicate, ShouldBeTrue)
			})

			Convey("The entry can be rated", func() {
				w := do(h, http.MethodPost, "/api/history/"+entry.ID+"/rating", `{"rating":4}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				rated := decode[model.HistoryEntry](w)
				So(rated.Rating, ShouldNotBeNil)
				So(*rated.Rating, ShouldEqual, 4)

				w = do(h, http.MethodPost, "/api/history/"+entry.ID+"/rating", `{"rating":6}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				w = do(h, http.MethodPost, "/api/history/missing/rating", `{"rating":3}`)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("History and analytics include it", func() {
				w := do(h, http.MethodGet, "/api/history?limit=10", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[[]model.HistoryEntry](w), ShouldHaveLength, 1)

				w = do(h, http.MethodGet, "/api/analytics", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				summary := decode[analytics.Summary](w)
				So(summary.TotalWears, ShouldEqual, 1)
				So(summary.Streak, ShouldEqual, 1)
				So(summary.Tops, ShouldEqual, 1)
			})
		})

		Convey("Queued wears are accepted then deduplicated", func() {
			w := do(h, http.MethodPost, "/api/planner/wear", wear)
			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(decode[types.WearAck](w).Status, ShouldEqual, types.StatusAccepted)

			w = do(h, http.MethodPost, "/api/planner/wear", wear)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[types.WearAck](w).Status, ShouldEqual, types.StatusDuplicate)
		})

		Convey("Malformed wears are rejected", func() {
			w := do(h, http.MethodPost, "/api/planner/wear", `{"topId":"","bottomId":"b"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			w = do(h, http.MethodPost, "/api/history",
				fmt.Sprintf(`{"topId":%q,"bottomId":%q,"date":"yesterday"}`, top.ID, bottom.ID))
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			for _, path := range []string{"/api/history", "/api/planner/wear"} {
				w = do(h, http.MethodPost, path,
					fmt.Sprintf(`{"topId":%q,"bottomId":%q,"date":"2025-03-17T09:00:00Z"}`, top.ID, bottom.ID))
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[types.ErrorResponse](w).Code, ShouldEqual, "validation_error")
			}
		})

		Convey("A bad history limit is rejected", func() {
			So(do(h, http.MethodGet, "/api/history?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodGet, "/api/history?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given a full queue", t, func() {
		h := api.NewServer(&stubDeps{ready: true, submitErr: fmt.Errorf("enqueue wear: %w", queue.ErrFull)}, nil).Handler()

		Convey("Submitting a wear reports backpressure", func() {
			w := do(h, http.MethodPost, "/api/planner/wear", `{"topId":"t","bottomId":"b"}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(decode[types.ErrorResponse](w).Code, ShouldEqual, "backpressure")
		})
	})
}

func TestServer_Middleware(t *testing.T) {
	Convey("Given a server limited to two requests per minute", t, func() {
		svc := startService(t, false)
		h := api.NewServer(svc, svc, api.WithRateLimit(2), api.WithCORSOrigin("https://fit.example")).Handler()

		Convey("The third request from one client is limited", func() {
			So(do(h, http.MethodGet, "/api/clothing", "").Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodGet, "/api/clothing", "").Code, ShouldEqual, http.StatusOK)
			w := do(h, http.MethodGet, "/api/clothing", "")
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(w.Header().Get("Retry-After"), ShouldNotBeEmpty)

			Convey("Health is not limited", func() {
				So(do(h, http.MethodGet, "/api/health", "").Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("CORS headers are set", func() {
			w := do(h, http.MethodGet, "/api/health", "")
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://fit.example")
		})
	})

	Convey("Given a handler that panics", t, func() {
		h := api.Recovery(logger.Get())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		Convey("The panic becomes a 500", func() {
			w := do(h, http.MethodGet, "/", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}
