package hiscore_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	hiscore "github.com/okian/runelens/internal/domain/hiscore"
	"github.com/okian/runelens/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// completeFeed builds a well-formed feed where every line encodes its
// taxonomy position, so decoded values are easy to assert.
func completeFeed() string {
	var lines []string
	for i := range hiscore.Skills {
		lines = append(lines, fmt.Sprintf("%d,%d,%d", 1000+i, 50+i%50, 13_034_431+i))
	}
	for i := range hiscore.Activities {
		lines = append(lines, fmt.Sprintf("%d,%d", 2000+i, 100+i))
	}
	for i := range hiscore.Bosses {
		lines = append(lines, fmt.Sprintf("%d,%d", 3000+i, 10+i))
	}
	return strings.Join(lines, "\n")
}

func TestDecode(t *testing.T) {
	Convey("Given a complete well-formed feed", t, func() {
		feed := completeFeed()

		Convey("When decoding", func() {
			stats, err := hiscore.Decode(feed)

			Convey("Then every taxonomy id is present exactly once", func() {
				So(err, ShouldBeNil)
				So(len(stats.Skills), ShouldEqual, len(hiscore.Skills))
				So(len(stats.Activities), ShouldEqual, len(hiscore.Activities))
				So(len(stats.Bosses), ShouldEqual, len(hiscore.Bosses))
			})

			Convey("And records decode in taxonomy order", func() {
				overall := stats.Skills["overall"]
				So(overall.Rank, ShouldResemble, model.NewRank(1000))
				So(overall.Level, ShouldEqual, 50)
				So(overall.XP, ShouldEqual, 13_034_431)
				So(overall.Name, ShouldEqual, "Overall")

				zulrah := stats.Bosses["zulrah"]
				So(zulrah.Rank, ShouldResemble, model.NewRank(3000+int64(len(hiscore.Bosses))-1))
				So(zulrah.Kills, ShouldEqual, int64(10+len(hiscore.Bosses)-1))
			})
		})

		Convey("When decoding the same feed with CRLF line endings", func() {
			stats, err := hiscore.Decode(strings.ReplaceAll(feed, "\n", "\r\n"))

			Convey("Then the result is identical", func() {
				So(err, ShouldBeNil)
				So(len(stats.Skills), ShouldEqual, len(hiscore.Skills))
				So(len(stats.Bosses), ShouldEqual, len(hiscore.Bosses))
			})
		})
	})

	Convey("Given a feed with sentinel values", t, func() {
		lines := strings.Split(completeFeed(), "\n")
		lines[1] = "-1,-1,-1" // attack: never trained
		lines[len(hiscore.Skills)] = "-1,-1"
		feed := strings.Join(lines, "\n")

		Convey("When decoding", func() {
			stats, err := hiscore.Decode(feed)
			So(err, ShouldBeNil)

			Convey("Then the sentinel maps to unranked, not -1", func() {
				attack := stats.Skills["attack"]
				So(attack.Rank.Ranked, ShouldBeFalse)
				So(attack.Rank.Position, ShouldNotEqual, -1)
			})

			Convey("And absent level defaults to 1, absent xp to 0", func() {
				attack := stats.Skills["attack"]
				So(attack.Level, ShouldEqual, 1)
				So(attack.XP, ShouldEqual, 0)
			})

			Convey("And an unranked activity keeps score 0", func() {
				lp := stats.Activities["league_points"]
				So(lp.Rank.Ranked, ShouldBeFalse)
				So(lp.Score, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a feed shorter than the taxonomy", t, func() {
		lines := strings.Split(completeFeed(), "\n")
		short := strings.Join(lines[:len(lines)-5], "\n")

		Convey("When decoding", func() {
			_, err := hiscore.Decode(short)

			Convey("Then it fails with the incomplete-feed condition", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, hiscore.ErrIncompleteFeed), ShouldBeTrue)
			})
		})

		Convey("When decoding an empty feed", func() {
			_, err := hiscore.Decode("")
			So(errors.Is(err, hiscore.ErrIncompleteFeed), ShouldBeTrue)
		})
	})

	Convey("Given a feed with one malformed record", t, func() {
		Convey("When a skill line has too few fields", func() {
			lines := strings.Split(completeFeed(), "\n")
			lines[2] = "12345" // defence: rank only
			stats, err := hiscore.Decode(strings.Join(lines, "\n"))

			Convey("Then only that record is skipped", func() {
				So(err, ShouldBeNil)
				_, present := stats.Skills["defence"]
				So(present, ShouldBeFalse)
				So(len(stats.Skills), ShouldEqual, len(hiscore.Skills)-1)
				So(len(stats.Activities), ShouldEqual, len(hiscore.Activities))
				So(len(stats.Bosses), ShouldEqual, len(hiscore.Bosses))
			})
		})

		Convey("When a field is not an integer", func() {
			lines := strings.Split(completeFeed(), "\n")
			lines[3] = "9,lots,42" // strength: bad level
			stats, err := hiscore.Decode(strings.Join(lines, "\n"))

			Convey("Then the owning record is skipped and the batch continues", func() {
				So(err, ShouldBeNil)
				_, present := stats.Skills["strength"]
				So(present, ShouldBeFalse)
				So(len(stats.Bosses), ShouldEqual, len(hiscore.Bosses))
			})
		})
	})
}

func TestTaxonomy(t *testing.T) {
	Convey("Given the taxonomy tables", t, func() {
		Convey("Then the shape matches the wire feed", func() {
			So(len(hiscore.Skills), ShouldEqual, 24)
			So(hiscore.FeedLines(), ShouldEqual,
				len(hiscore.Skills)+len(hiscore.Activities)+len(hiscore.Bosses))
		})

		Convey("Then ids are unique across the whole taxonomy", func() {
			seen := make(map[string]bool)
			for _, id := range hiscore.Skills {
				So(seen[id], ShouldBeFalse)
				seen[id] = true
			}
			for _, id := range hiscore.Activities {
				So(seen[id], ShouldBeFalse)
				seen[id] = true
			}
			for _, id := range hiscore.Bosses {
				So(seen[id], ShouldBeFalse)
				seen[id] = true
			}
		})

		Convey("Then display names read as titles", func() {
			So(hiscore.DisplayName("overall"), ShouldEqual, "Overall")
			So(hiscore.DisplayName("bounty_hunter_rogue"), ShouldEqual, "Bounty Hunter Rogue")
			So(hiscore.DisplayName("chambers_of_xeric_challenge_mode"), ShouldEqual, "Chambers Of Xeric Challenge Mode")
		})
	})
}
