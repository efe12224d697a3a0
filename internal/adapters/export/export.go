// Package export serializes normalized records to durable JSON and CSV
// artifacts under a data directory. The core hands it finished value
// objects; nothing here reshapes data beyond ordering rows.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/runelens/internal/domain/hiscore"
	"github.com/okian/runelens/internal/domain/model"
	"github.com/okian/runelens/pkg/metrics"
)

// Directory and file permissions for written artifacts.
const (
	dirPermission  = 0o755
	filePermission = 0o644

	stampLayout = "20060102_150405"
)

// Writer persists artifacts under a base data directory.
type Writer struct {
	dataDir string
	now     func() time.Time
}

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithDataDir sets the base directory for artifacts.
func WithDataDir(dir string) Option {
	return func(w *Writer) {
		if dir != "" {
			w.dataDir = dir
		}
	}
}

// WithClock overrides the time source, for deterministic filenames in
// tests.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

// NewWriter creates a Writer with configuration options.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		dataDir: "data",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// PlayerArtifacts lists the files written for one player.
type PlayerArtifacts struct {
	CompleteJSON  string
	SkillsCSV     string
	ActivitiesCSV string
	BossesCSV     string
}

// WritePlayerStats writes the complete JSON document plus one CSV per
// record family, rows in taxonomy order. The username is sanitized for
// filenames by the caller.
func (w *Writer) WritePlayerStats(stats model.PlayerStats) (PlayerArtifacts, error) {
	dir := filepath.Join(w.dataDir, "players")
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return PlayerArtifacts{}, fmt.Errorf("creating player dir: %w", err)
	}

	var arts PlayerArtifacts

	arts.CompleteJSON = filepath.Join(dir, stats.Username+"_complete_data.json")
	if err := w.writeJSON(arts.CompleteJSON, stats); err != nil {
		return PlayerArtifacts{}, err
	}

	arts.SkillsCSV = filepath.Join(dir, stats.Username+"_skills.csv")
	skillRows := [][]string{{"skill_name", "rank", "level", "xp"}}
	for _, id := range hiscore.Skills {
		rec, ok := stats.Skills[id]
		if !ok {
			continue
		}
		skillRows = append(skillRows, []string{
			rec.Name, rec.Rank.String(), strconv.Itoa(rec.Level), strconv.FormatInt(rec.XP, 10),
		})
	}
	if err := w.writeCSV(arts.SkillsCSV, skillRows); err != nil {
		return PlayerArtifacts{}, err
	}

	arts.ActivitiesCSV = filepath.Join(dir, stats.Username+"_activities.csv")
	activityRows := [][]string{{"activity_name", "rank", "score"}}
	for _, id := range hiscore.Activities {
		rec, ok := stats.Activities[id]
		if !ok {
			continue
		}
		activityRows = append(activityRows, []string{
			rec.Name, rec.Rank.String(), strconv.FormatInt(rec.Score, 10),
		})
	}
	if err := w.writeCSV(arts.ActivitiesCSV, activityRows); err != nil {
		return PlayerArtifacts{}, err
	}

	arts.BossesCSV = filepath.Join(dir, stats.Username+"_bosses.csv")
	bossRows := [][]string{{"boss_name", "rank", "kills"}}
	for _, id := range hiscore.Bosses {
		rec, ok := stats.Bosses[id]
		if !ok {
			continue
		}
		bossRows = append(bossRows, []string{
			rec.Name, rec.Rank.String(), strconv.FormatInt(rec.Kills, 10),
		})
	}
	if err := w.writeCSV(arts.BossesCSV, bossRows); err != nil {
		return PlayerArtifacts{}, err
	}

	return arts, nil
}

// Snapshot is the persisted envelope of one price-enrichment run.
type Snapshot struct {
	RunID     string                            `json:"run_id"`
	Timestamp string                            `json:"timestamp"`
	Data      map[int]model.EnrichedPriceRecord `json:"data"`
}

// SnapshotArtifacts lists the files written for one price snapshot.
type SnapshotArtifacts struct {
	RunID         string
	TimestampJSON string
	LatestJSON    string
	CSV           string
}

// WritePriceSnapshot writes a timestamped JSON artifact, a rolling
// latest_prices.json, and a CSV with one row per enriched record sorted
// by item id.
func (w *Writer) WritePriceSnapshot(records map[int]model.EnrichedPriceRecord) (SnapshotArtifacts, error) {
	dir := filepath.Join(w.dataDir, "item_prices")
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return SnapshotArtifacts{}, fmt.Errorf("creating price dir: %w", err)
	}

	now := w.now()
	snap := Snapshot{
		RunID:     uuid.NewString(),
		Timestamp: now.Format(time.RFC3339),
		Data:      records,
	}
	stamp := now.Format(stampLayout)

	arts := SnapshotArtifacts{
		RunID:         snap.RunID,
		TimestampJSON: filepath.Join(dir, "item_prices_"+stamp+".json"),
		LatestJSON:    filepath.Join(dir, "latest_prices.json"),
		CSV:           filepath.Join(dir, "item_prices_"+stamp+".csv"),
	}

	if err := w.writeJSON(arts.TimestampJSON, snap); err != nil {
		return SnapshotArtifacts{}, err
	}
	if err := w.writeJSON(arts.LatestJSON, snap); err != nil {
		return SnapshotArtifacts{}, err
	}

	ids := make([]int, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rows := [][]string{{
		"id", "name", "high_price", "low_price", "high_time", "low_time",
		"members", "high_alch", "low_alch", "buy_limit", "value",
	}}
	for _, id := range ids {
		rec := records[id]
		rows = append(rows, []string{
			strconv.Itoa(rec.ID),
			rec.Name,
			optInt64(rec.High),
			optInt64(rec.Low),
			optInt64(rec.HighTime),
			optInt64(rec.LowTime),
			strconv.FormatBool(rec.Members),
			optInt(rec.HighAlch),
			optInt(rec.LowAlch),
			optInt(rec.BuyLimit),
			optInt(rec.Value),
		})
	}
	if err := w.writeCSV(arts.CSV, rows); err != nil {
		return SnapshotArtifacts{}, err
	}

	return arts, nil
}

// TimeseriesDocument is the persisted envelope of one item timeseries.
type TimeseriesDocument struct {
	ItemID    int                     `json:"item_id"`
	ItemName  string                  `json:"item_name"`
	Timestamp string                  `json:"timestamp"`
	Data      []model.TimeseriesPoint `json:"data"`
}

// WriteTimeseries persists the bucketed series for one item.
func (w *Writer) WriteTimeseries(itemID int, itemName string, points []model.TimeseriesPoint) (string, error) {
	dir := filepath.Join(w.dataDir, "item_timeseries")
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return "", fmt.Errorf("creating timeseries dir: %w", err)
	}

	doc := TimeseriesDocument{
		ItemID:    itemID,
		ItemName:  itemName,
		Timestamp: w.now().Format(time.RFC3339),
		Data:      points,
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%d_timeseries.json", safeName(itemName), itemID))
	if err := w.writeJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// HistoryDocument is the persisted envelope of one daily/average series.
type HistoryDocument struct {
	ItemID    int                `json:"item_id"`
	ItemName  string             `json:"item_name"`
	Timestamp string             `json:"timestamp"`
	History   model.PriceHistory `json:"history"`
}

// WriteHistory persists the chronological price history for one item.
func (w *Writer) WriteHistory(itemID int, itemName string, history model.PriceHistory) (string, error) {
	dir := filepath.Join(w.dataDir, "item_history")
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return "", fmt.Errorf("creating history dir: %w", err)
	}

	doc := HistoryDocument{
		ItemID:    itemID,
		ItemName:  itemName,
		Timestamp: w.now().Format(time.RFC3339),
		History:   history,
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%d_history.json", safeName(itemName), itemID))
	if err := w.writeJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	metrics.RecordArtifactWritten("json")
	return nil
}

func (w *Writer) writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	metrics.RecordArtifactWritten("csv")
	return nil
}

// safeName lower-cases an item name and strips characters that do not
// belong in filenames.
func safeName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "item"
	}
	return b.String()
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
