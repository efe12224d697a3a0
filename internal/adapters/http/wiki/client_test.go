package wiki_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	wiki "github.com/okian/runelens/internal/adapters/http/wiki"
	. "github.com/smartystreets/goconvey/convey"
)

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestMapping(t *testing.T) {
	Convey("Given a server with a mapping payload", t, func() {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			jsonHandler(`[
				{"id":4151,"name":"Abyssal whip","examine":"A weapon from the abyss.","members":true,"lowalch":48000,"highalch":72000,"limit":70,"value":120001},
				{"id":314,"name":"Feather","members":false}
			]`)(w, r)
		}))
		defer srv.Close()

		client := wiki.NewClient(wiki.WithBaseURL(srv.URL))

		Convey("When fetching the mapping", func() {
			items, err := client.Mapping(context.Background())

			Convey("Then domain values decode with optionals intact", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/mapping")
				So(len(items), ShouldEqual, 2)
				So(items[0].Name, ShouldEqual, "Abyssal whip")
				So(*items[0].HighAlch, ShouldEqual, 72000)
				So(items[1].Name, ShouldEqual, "Feather")
				So(items[1].HighAlch, ShouldBeNil)
				So(items[1].BuyLimit, ShouldBeNil)
			})
		})
	})

	Convey("Given a server that fails", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := wiki.NewClient(wiki.WithBaseURL(srv.URL))

		Convey("When fetching the mapping", func() {
			_, err := client.Mapping(context.Background())

			Convey("Then the status error surfaces", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, wiki.ErrBadStatus), ShouldBeTrue)
			})
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a server with a latest payload", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonHandler(`{"data":{
				"4151":{"high":1800000,"low":1750000,"highTime":1700000100,"lowTime":1700000050},
				"554":{"high":5},
				"not-an-id":{"high":1}
			}}`)(w, r)
		}))
		defer srv.Close()

		client := wiki.NewClient(wiki.WithBaseURL(srv.URL))

		Convey("When fetching latest prices", func() {
			observations, err := client.Latest(context.Background())

			Convey("Then string keys become item ids", func() {
				So(err, ShouldBeNil)
				So(len(observations), ShouldEqual, 2)
				whip := observations[4151]
				So(whip.ItemID, ShouldEqual, 4151)
				So(*whip.High, ShouldEqual, 1_800_000)
				So(*whip.LowTime, ShouldEqual, 1_700_000_050)
			})

			Convey("And optional fields stay nil", func() {
				fireRune := observations[554]
				So(*fireRune.High, ShouldEqual, 5)
				So(fireRune.Low, ShouldBeNil)
			})
		})
	})
}

func TestTimeseries(t *testing.T) {
	Convey("Given a server with a timeseries payload", t, func() {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			jsonHandler(`{"data":[
				{"timestamp":1700000000,"avgHighPrice":1800000,"avgLowPrice":1750000,"highPriceVolume":12,"lowPriceVolume":9},
				{"timestamp":1700003600,"avgHighPrice":1810000,"highPriceVolume":3,"lowPriceVolume":0}
			]}`)(w, r)
		}))
		defer srv.Close()

		client := wiki.NewClient(wiki.WithBaseURL(srv.URL))

		Convey("When fetching a valid timestep", func() {
			points, err := client.Timeseries(context.Background(), 4151, "1h")

			Convey("Then points decode in order", func() {
				So(err, ShouldBeNil)
				So(gotQuery, ShouldContainSubstring, "timestep=1h")
				So(gotQuery, ShouldContainSubstring, "id=4151")
				So(len(points), ShouldEqual, 2)
				So(points[0].Timestamp, ShouldEqual, 1_700_000_000)
				So(*points[0].AvgHighPrice, ShouldEqual, 1_800_000)
				So(points[1].AvgLowPrice, ShouldBeNil)
			})
		})

		Convey("When using an invalid timestep", func() {
			_, err := client.Timeseries(context.Background(), 4151, "2h")

			Convey("Then it fails before any request", func() {
				So(errors.Is(err, wiki.ErrBadTimestep), ShouldBeTrue)
			})
		})
	})
}

func TestGraph(t *testing.T) {
	Convey("Given a server with a graph payload", t, func() {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			jsonHandler(`{"daily":{"1700000000000":100,"1700086400000":110},"average":{"1700000000000":102}}`)(w, r)
		}))
		defer srv.Close()

		client := wiki.NewClient(wiki.WithGraphBaseURL(srv.URL))

		Convey("When fetching the graph", func() {
			series, err := client.Graph(context.Background(), 4151)

			Convey("Then both raw series decode", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/graph/4151.json")
				So(len(series.Daily), ShouldEqual, 2)
				So(series.Daily["1700000000000"], ShouldEqual, 100)
				So(len(series.Average), ShouldEqual, 1)
			})
		})
	})
}

func TestValidTimestep(t *testing.T) {
	Convey("Given the accepted timesteps", t, func() {
		Convey("Then only 5m, 1h, 6h and 24h validate", func() {
			So(wiki.ValidTimestep("5m"), ShouldBeTrue)
			So(wiki.ValidTimestep("1h"), ShouldBeTrue)
			So(wiki.ValidTimestep("6h"), ShouldBeTrue)
			So(wiki.ValidTimestep("24h"), ShouldBeTrue)
			So(wiki.ValidTimestep("2h"), ShouldBeFalse)
			So(wiki.ValidTimestep(""), ShouldBeFalse)
		})
	})
}
