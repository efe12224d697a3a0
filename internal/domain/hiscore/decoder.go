package hiscore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/runelens/internal/domain/model"
)

// Field counts per record shape.
const (
	skillFields    = 3 // rank, level, xp
	activityFields = 2 // rank, score or kills
)

// wireSentinel marks "no data" on the wire. It maps to the unranked state
// or the shape's default and never reaches the domain model as -1.
const wireSentinel = "-1"

// Decode walks the feed with a single cursor, consuming exactly one line
// per taxonomy entry in taxonomy order. A feed shorter than the taxonomy
// fails with ErrIncompleteFeed. A line with too few fields, or with a
// numeric field that is neither an integer nor the sentinel, skips that
// one record and decoding continues.
func Decode(feed string) (model.PlayerStats, error) {
	normalized := strings.ReplaceAll(feed, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(normalized), "\n")

	if want := FeedLines(); len(lines) < want {
		return model.PlayerStats{}, fmt.Errorf("%w: %d lines, taxonomy requires %d", ErrIncompleteFeed, len(lines), want)
	}

	stats := model.PlayerStats{
		Skills:     make(map[string]model.SkillRecord, len(Skills)),
		Activities: make(map[string]model.ActivityRecord, len(Activities)),
		Bosses:     make(map[string]model.BossRecord, len(Bosses)),
	}

	cursor := 0

	for _, id := range Skills {
		fields := splitRecord(lines[cursor])
		cursor++
		if len(fields) < skillFields {
			continue
		}
		rank, okRank := parseRank(fields[0])
		level, okLevel := parseCount(fields[1], 1)
		xp, okXP := parseCount(fields[2], 0)
		if !okRank || !okLevel || !okXP {
			continue
		}
		stats.Skills[id] = model.SkillRecord{
			ID:    id,
			Name:  DisplayName(id),
			Rank:  rank,
			Level: int(level),
			XP:    xp,
		}
	}

	for _, id := range Activities {
		fields := splitRecord(lines[cursor])
		cursor++
		if len(fields) < activityFields {
			continue
		}
		rank, okRank := parseRank(fields[0])
		score, okScore := parseCount(fields[1], 0)
		if !okRank || !okScore {
			continue
		}
		stats.Activities[id] = model.ActivityRecord{
			ID:    id,
			Name:  DisplayName(id),
			Rank:  rank,
			Score: score,
		}
	}

	for _, id := range Bosses {
		fields := splitRecord(lines[cursor])
		cursor++
		if len(fields) < activityFields {
			continue
		}
		rank, okRank := parseRank(fields[0])
		kills, okKills := parseCount(fields[1], 0)
		if !okRank || !okKills {
			continue
		}
		stats.Bosses[id] = model.BossRecord{
			ID:    id,
			Name:  DisplayName(id),
			Rank:  rank,
			Kills: kills,
		}
	}

	return stats, nil
}

func splitRecord(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// parseRank maps the sentinel to the explicit unranked state.
func parseRank(field string) (model.Rank, bool) {
	if field == wireSentinel {
		return model.Unranked(), true
	}
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return model.Rank{}, false
	}
	return model.NewRank(v), true
}

// parseCount maps the sentinel to the shape's default value.
func parseCount(field string, sentinelDefault int64) (int64, bool) {
	if field == wireSentinel {
		return sentinelDefault, true
	}
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
