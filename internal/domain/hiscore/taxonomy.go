// Package hiscore decodes the fixed-order hiscore feed into typed
// skill, activity and boss records.
package hiscore

import "strings"

// The feed carries one comma-delimited line per taxonomy entry, in the
// exact order below: skills first, then activities, then bosses. The
// tables are the single source of truth for how many lines a feed must
// contain; decoding walks them with one cursor.

// Skills in feed order.
var Skills = []string{
	"overall", "attack", "defence", "strength", "hitpoints",
	"ranged", "prayer", "magic", "cooking", "woodcutting",
	"fletching", "fishing", "firemaking", "crafting", "smithing",
	"mining", "herblore", "agility", "thieving", "slayer",
	"farming", "runecrafting", "hunter", "construction",
}

// Activities (minigames and clue scrolls) in feed order.
var Activities = []string{
	"league_points", "bounty_hunter_hunter", "bounty_hunter_rogue",
	"bounty_hunter_hunter_legacy", "bounty_hunter_rogue_legacy",
	"clue_scrolls_all", "clue_scrolls_beginner", "clue_scrolls_easy",
	"clue_scrolls_medium", "clue_scrolls_hard", "clue_scrolls_elite",
	"clue_scrolls_master", "lms_rank", "pvp_arena_rank", "soul_wars_zeal",
	"rifts_closed", "colosseum_glory",
}

// Bosses in feed order.
var Bosses = []string{
	"abyssal_sire", "alchemical_hydra", "artio", "barrows_chests",
	"bryophyta", "callisto", "calvarion", "cerberus", "chambers_of_xeric",
	"chambers_of_xeric_challenge_mode", "chaos_elemental", "chaos_fanatic",
	"commander_zilyana", "corporeal_beast", "crazy_archaeologist",
	"dagannoth_prime", "dagannoth_rex", "dagannoth_supreme",
	"deranged_archaeologist", "duke_sucellus", "general_graardor",
	"giant_mole", "grotesque_guardians", "hespori", "kalphite_queen",
	"king_black_dragon", "kraken", "kreearra", "kril_tsutsaroth",
	"mimic", "nex", "nightmare", "phosanis_nightmare", "obor",
	"phantom_muspah", "sarachnis", "scorpia", "skotizo", "spindel",
	"tempoross", "the_gauntlet", "the_corrupted_gauntlet", "the_leviathan",
	"the_whisperer", "theatre_of_blood", "theatre_of_blood_hard_mode",
	"thermonuclear_smoke_devil", "tombs_of_amascut", "tombs_of_amascut_expert",
	"tzkal_zuk", "tztok_jad", "vardorvis", "venenatis", "vetion",
	"vorkath", "wintertodt", "zalcano", "zulrah",
}

// FeedLines is the exact number of lines a complete feed must contain.
func FeedLines() int {
	return len(Skills) + len(Activities) + len(Bosses)
}

// DisplayName turns a taxonomy id into its human-readable form:
// "bounty_hunter_rogue" becomes "Bounty Hunter Rogue".
func DisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
