package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	app "github.com/okian/runelens/internal/app"
	"github.com/okian/runelens/internal/domain/gp"
	"github.com/okian/runelens/internal/domain/hiscore"
	"github.com/okian/runelens/internal/domain/model"
)

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func printPlayerStats(stats model.PlayerStats) {
	fmt.Printf("stats for %s\n\n", stats.Username)

	skills := newTable(table.Row{"Skill", "Rank", "Level", "XP"})
	for _, id := range hiscore.Skills {
		rec, ok := stats.Skills[id]
		if !ok {
			continue
		}
		skills.AppendRow(table.Row{rec.Name, rec.Rank.String(), rec.Level, gp.Format(rec.XP)})
	}
	skills.Render()

	activities := newTable(table.Row{"Activity", "Rank", "Score"})
	for _, id := range hiscore.Activities {
		rec, ok := stats.Activities[id]
		if !ok || !rec.Rank.Ranked {
			continue
		}
		activities.AppendRow(table.Row{rec.Name, rec.Rank.String(), rec.Score})
	}
	fmt.Println()
	activities.Render()

	bosses := newTable(table.Row{"Boss", "Rank", "Kills"})
	for _, id := range hiscore.Bosses {
		rec, ok := stats.Bosses[id]
		if !ok || !rec.Rank.Ranked {
			continue
		}
		bosses.AppendRow(table.Row{rec.Name, rec.Rank.String(), rec.Kills})
	}
	fmt.Println()
	bosses.Render()
}

func printItemTable(items []model.ItemMeta) {
	t := newTable(table.Row{"ID", "Name", "Members", "Buy Limit", "High Alch"})
	for _, item := range items {
		t.AppendRow(table.Row{
			item.ID,
			item.Name,
			item.Members,
			optIntCell(item.BuyLimit),
			optAlchCell(item.HighAlch),
		})
	}
	t.Render()
}

func printSeriesSummary(result app.SeriesResult, timestep string) {
	fmt.Printf("%s (id %d), timestep %s: %d points\n",
		result.Item.Name, result.Item.ID, timestep, len(result.Points))

	if latest := latestPoint(result.Points); latest != nil {
		fmt.Printf("latest bucket: high %s, low %s\n",
			optPriceCell(latest.AvgHighPrice),
			optPriceCell(latest.AvgLowPrice),
		)
	}
	if n := len(result.History.Daily); n > 0 {
		first, last := result.History.Daily[0], result.History.Daily[n-1]
		fmt.Printf("daily history: %d points from %s (%s) to %s (%s)\n",
			n,
			first.Date, gp.Format(int64(first.Price)),
			last.Date, gp.Format(int64(last.Price)),
		)
	}
}

func printComparison(results map[int]app.CompareResult, timestep string) {
	t := newTable(table.Row{"ID", "Name", "Points", "Latest High", "Latest Low", "Status"})
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}
		var high, low string
		if latest := latestPoint(res.Points); latest != nil {
			high = optPriceCell(latest.AvgHighPrice)
			low = optPriceCell(latest.AvgLowPrice)
		}
		t.AppendRow(table.Row{res.Item.ID, res.Item.Name, len(res.Points), high, low, status})
	}
	t.SortBy([]table.SortBy{{Name: "ID", Mode: table.AscNumeric}})
	fmt.Printf("timestep %s\n", timestep)
	t.Render()
}

// latestPoint returns the newest bucket, relying on the upstream
// ascending order.
func latestPoint(points []model.TimeseriesPoint) *model.TimeseriesPoint {
	if len(points) == 0 {
		return nil
	}
	return &points[len(points)-1]
}

func optPriceCell(v *int64) string {
	if v == nil {
		return "-"
	}
	return gp.Format(*v)
}

func optIntCell(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func optAlchCell(v *int) string {
	if v == nil {
		return "-"
	}
	return gp.Format(int64(*v))
}
