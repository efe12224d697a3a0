package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/runelens/internal/adapters/http/api"
	"github.com/okian/runelens/internal/adapters/http/hiscores"
	"github.com/okian/runelens/internal/adapters/repository"
	service "github.com/okian/runelens/internal/app"
	"github.com/okian/runelens/internal/domain/model"
	"github.com/okian/runelens/internal/domain/resolve"
	"github.com/okian/runelens/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDeps implements api.Dependencies over fixed fixtures.
type mockDeps struct {
	players map[string]model.PlayerStats
	latest  map[int]model.EnrichedPriceRecord
	catalog []model.ItemMeta
	series  service.SeriesResult
}

func (m *mockDeps) PlayerStats(ctx context.Context, username string) (service.PlayerResult, error) {
	if !hiscores.ValidUsername(username) {
		return service.PlayerResult{}, hiscores.ErrInvalidUsername
	}
	stats, ok := m.players[username]
	if !ok {
		return service.PlayerResult{}, fmt.Errorf("%w: %s", hiscores.ErrPlayerNotFound, username)
	}
	return service.PlayerResult{Stats: stats}, nil
}

func (m *mockDeps) LatestPrices(ctx context.Context) (map[int]model.EnrichedPriceRecord, error) {
	if m.latest == nil {
		return nil, repository.ErrEmptySnapshot
	}
	return m.latest, nil
}

func (m *mockDeps) ResolveItem(ctx context.Context, query string) (resolve.Result, error) {
	return resolve.Resolve(query, repository.NewCatalog(m.catalog)), nil
}

func (m *mockDeps) SearchItems(ctx context.Context, query string) ([]model.ItemMeta, error) {
	return repository.NewCatalog(m.catalog).SearchByName(query), nil
}

func (m *mockDeps) ItemTimeseries(ctx context.Context, query, timestep string) (service.SeriesResult, error) {
	res := resolve.Resolve(query, repository.NewCatalog(m.catalog))
	switch res.Outcome {
	case resolve.NotFound:
		return service.SeriesResult{}, fmt.Errorf("%w: %q", repository.ErrItemNotFound, query)
	case resolve.Ambiguous:
		return service.SeriesResult{}, fmt.Errorf("%w: %q", repository.ErrAmbiguousItem, query)
	}
	out := m.series
	out.Item = res.Item
	return out, nil
}

func (m *mockDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"catalogItems": len(m.catalog)}
}

func newTestServer() (*httptest.Server, *mockDeps) {
	deps := &mockDeps{
		players: map[string]model.PlayerStats{
			"Zezima": {
				Username: "Zezima",
				Skills: map[string]model.SkillRecord{
					"overall": {ID: "overall", Name: "Overall", Rank: model.NewRank(1), Level: 2277, XP: 4600000000},
				},
			},
		},
		latest: map[int]model.EnrichedPriceRecord{
			4151: {ID: 4151, Name: "Abyssal whip"},
		},
		catalog: []model.ItemMeta{
			{ID: 4151, Name: "Abyssal whip"},
			{ID: 4178, Name: "Abyssal whip (broken)"},
			{ID: 2, Name: "Cannonball"},
		},
		series: service.SeriesResult{
			Points: []model.TimeseriesPoint{{Timestamp: 1700000000}},
		},
	}

	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux)
	return httptest.NewServer(mux), deps
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestPlayerEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, _ := newTestServer()
		defer srv.Close()

		Convey("When requesting a known player", func() {
			var stats model.PlayerStats
			status := getJSON(t, srv.URL+"/player/Zezima", &stats)

			Convey("Then the decoded stats come back", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(stats.Username, ShouldEqual, "Zezima")
				So(stats.Skills["overall"].Level, ShouldEqual, 2277)
			})
		})

		Convey("When requesting an unknown player", func() {
			status := getJSON(t, srv.URL+"/player/NoSuchPlayer", nil)

			Convey("Then the response is 404", func() {
				So(status, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the username fails validation", func() {
			status := getJSON(t, srv.URL+"/player/way.too.long.username", nil)

			Convey("Then the response is 400", func() {
				So(status, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the path has no username", func() {
			status := getJSON(t, srv.URL+"/player/", nil)

			Convey("Then the response is 400", func() {
				So(status, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPricesEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, deps := newTestServer()
		defer srv.Close()

		Convey("When requesting the latest prices", func() {
			var records map[string]model.EnrichedPriceRecord
			status := getJSON(t, srv.URL+"/prices/latest", &records)

			Convey("Then the enriched batch comes back keyed by id", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(records["4151"].Name, ShouldEqual, "Abyssal whip")
			})
		})

		Convey("When the catalog is empty", func() {
			deps.latest = nil
			status := getJSON(t, srv.URL+"/prices/latest", nil)

			Convey("Then the response is 503", func() {
				So(status, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestItemsEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, _ := newTestServer()
		defer srv.Close()

		Convey("When searching by name fragment", func() {
			var resp struct {
				Count   int              `json:"count"`
				Results []model.ItemMeta `json:"results"`
			}
			status := getJSON(t, srv.URL+"/items?q=whip", &resp)

			Convey("Then both whips are returned", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(resp.Count, ShouldEqual, 2)
			})
		})

		Convey("When searching without a query", func() {
			status := getJSON(t, srv.URL+"/items", nil)

			Convey("Then the response is 400", func() {
				So(status, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When resolving an exact id", func() {
			var resp struct {
				Outcome string          `json:"outcome"`
				Item    *model.ItemMeta `json:"item"`
			}
			status := getJSON(t, srv.URL+"/items/resolve?q=4151", &resp)

			Convey("Then the outcome is exact with the item attached", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(resp.Outcome, ShouldEqual, "exact")
				So(resp.Item, ShouldNotBeNil)
				So(resp.Item.ID, ShouldEqual, 4151)
			})
		})

		Convey("When resolving an ambiguous name", func() {
			var resp struct {
				Outcome string           `json:"outcome"`
				Matches []model.ItemMeta `json:"matches"`
			}
			status := getJSON(t, srv.URL+"/items/resolve?q=whip", &resp)

			Convey("Then the candidates are listed", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(resp.Outcome, ShouldEqual, "ambiguous")
				So(len(resp.Matches), ShouldEqual, 2)
			})
		})

		Convey("When resolving an unknown name", func() {
			status := getJSON(t, srv.URL+"/items/resolve?q=zzzznotreal", nil)

			Convey("Then the response is 404", func() {
				So(status, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestTimeseriesEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, _ := newTestServer()
		defer srv.Close()

		Convey("When requesting a series for an unambiguous item", func() {
			var resp struct {
				Timestep string                  `json:"timestep"`
				Points   []model.TimeseriesPoint `json:"points"`
			}
			status := getJSON(t, srv.URL+"/timeseries?item=cannonball", &resp)

			Convey("Then the default timestep applies", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(resp.Timestep, ShouldEqual, "24h")
				So(len(resp.Points), ShouldEqual, 1)
			})
		})

		Convey("When the timestep is invalid", func() {
			status := getJSON(t, srv.URL+"/timeseries?item=cannonball&timestep=2d", nil)

			Convey("Then the response is 400", func() {
				So(status, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the item is ambiguous", func() {
			status := getJSON(t, srv.URL+"/timeseries?item=whip", nil)

			Convey("Then the response is 409", func() {
				So(status, ShouldEqual, http.StatusConflict)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, _ := newTestServer()
		defer srv.Close()

		Convey("When requesting service stats", func() {
			var stats map[string]interface{}
			status := getJSON(t, srv.URL+"/stats", &stats)

			Convey("Then the counters are present", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(stats["catalogItems"], ShouldEqual, 3)
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, _ := newTestServer()
		defer srv.Close()

		Convey("When probing the health endpoint", func() {
			status := getJSON(t, srv.URL+"/healthz", nil)

			Convey("Then it responds 200", func() {
				So(status, ShouldEqual, http.StatusOK)
			})
		})
	})
}
