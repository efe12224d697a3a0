// Package model contains the immutable value objects passed between layers.
package model

import (
	"encoding/json"
	"strconv"
)

// Rank is a hiscore placement. The wire feed marks missing placements with
// the sentinel -1; that sentinel never leaves the decoder. A zero Rank is
// unranked.
type Rank struct {
	Position int64
	Ranked   bool
}

// NewRank builds a ranked placement.
func NewRank(position int64) Rank {
	return Rank{Position: position, Ranked: true}
}

// Unranked is the explicit no-placement value.
func Unranked() Rank {
	return Rank{}
}

// MarshalJSON renders a ranked placement as its number and an unranked one
// as null, so downstream writers never see the wire sentinel.
func (r Rank) MarshalJSON() ([]byte, error) {
	if !r.Ranked {
		return []byte("null"), nil
	}
	return json.Marshal(r.Position)
}

// UnmarshalJSON accepts a number or null.
func (r *Rank) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rank{}
		return nil
	}
	var pos int64
	if err := json.Unmarshal(data, &pos); err != nil {
		return err
	}
	*r = NewRank(pos)
	return nil
}

// String renders the placement for CSV and table output.
func (r Rank) String() string {
	if !r.Ranked {
		return "unranked"
	}
	return strconv.FormatInt(r.Position, 10)
}

// SkillRecord is one decoded skill line of a hiscore feed.
type SkillRecord struct {
	ID    string `json:"skill_id"`
	Name  string `json:"skill_name"`
	Rank  Rank   `json:"rank"`
	Level int    `json:"level"`
	XP    int64  `json:"xp"`
}

// ActivityRecord is one decoded activity/minigame line.
type ActivityRecord struct {
	ID    string `json:"activity_id"`
	Name  string `json:"activity_name"`
	Rank  Rank   `json:"rank"`
	Score int64  `json:"score"`
}

// BossRecord is one decoded boss kill-count line.
type BossRecord struct {
	ID    string `json:"boss_id"`
	Name  string `json:"boss_name"`
	Rank  Rank   `json:"rank"`
	Kills int64  `json:"kills"`
}

// PlayerStats is a fully decoded hiscore feed. After a successful decode
// every taxonomy id has an entry in the matching map.
type PlayerStats struct {
	Username   string                    `json:"username"`
	Skills     map[string]SkillRecord    `json:"skills"`
	Activities map[string]ActivityRecord `json:"activities"`
	Bosses     map[string]BossRecord     `json:"bosses"`
}
