// Package history persists grouped coverage runs so group trends can be
// compared across builds.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/covgroup/core"
	"github.com/oxhq/covgroup/models"
)

var ErrNoRuns = errors.New("no recorded runs")

// Meta describes where a run came from
type Meta struct {
	Branch string
	Commit string
	Label  string
	Total  core.CoverageSummary // run-wide summary from the coverage input
}

// Entry is one point of a group's trend
type Entry struct {
	RunID      uint
	Branch     string
	Commit     string
	Label      string
	Recorded   time.Time
	Total      core.CoveragePercentage
	FileCount  int
	LinesDelta float64 // change in lines pct against the previous run, 0 for the oldest
}

// Store records runs in a gorm database
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record stores every group of grouped in one transaction and returns the run id.
func (s *Store) Record(ctx context.Context, grouped core.GroupedCoverage, meta Meta) (uint, error) {
	totals := meta.Total.Percentages()
	run := models.Run{
		Branch:     meta.Branch,
		CommitSHA:  meta.Commit,
		Label:      meta.Label,
		Lines:      totals.L,
		Statements: totals.S,
		Functions:  totals.F,
		Branches:   totals.B,
	}

	for i, name := range grouped.Names {
		group := grouped.Groups[name]
		files, err := json.Marshal(group.Files)
		if err != nil {
			return 0, fmt.Errorf("encoding files of %q: %w", name, err)
		}
		run.Groups = append(run.Groups, models.GroupResult{
			Name:       name,
			Position:   i,
			Lines:      group.Total.L,
			Statements: group.Total.S,
			Functions:  group.Total.F,
			Branches:   group.Total.B,
			FileCount:  len(group.Files),
			Files:      datatypes.JSON(files),
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&run).Error
	})
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	return run.ID, nil
}

// Latest rebuilds the grouped result of the most recent run.
func (s *Store) Latest(ctx context.Context) (core.GroupedCoverage, error) {
	result := core.NewGroupedCoverage()

	var run models.Run
	err := s.db.WithContext(ctx).
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("id desc").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return result, ErrNoRuns
	}
	if err != nil {
		return result, err
	}

	for _, g := range run.Groups {
		summary := core.GroupedCoverageSummary{
			Total: core.CoveragePercentage{L: g.Lines, S: g.Statements, F: g.Functions, B: g.Branches},
			Files: map[string]core.CoveragePercentage{},
		}
		if len(g.Files) > 0 {
			if err := json.Unmarshal(g.Files, &summary.Files); err != nil {
				return result, fmt.Errorf("decoding files of %q: %w", g.Name, err)
			}
		}
		result.Set(g.Name, summary)
	}
	return result, nil
}

// Trend returns up to limit entries for group, newest first. limit <= 0
// returns every recorded run.
func (s *Store) Trend(ctx context.Context, group string, limit int) ([]Entry, error) {
	type row struct {
		RunID      uint
		Lines      float64
		Statements float64
		Functions  float64
		Branches   float64
		FileCount  int
		Branch     string
		CommitSHA  string
		Label      string
		CreatedAt  time.Time
	}

	q := s.db.WithContext(ctx).
		Table("group_results").
		Select("group_results.run_id, group_results.lines, group_results.statements, " +
			"group_results.functions, group_results.branches, group_results.file_count, " +
			"runs.branch, runs.commit_sha, runs.label, runs.created_at").
		Joins("JOIN runs ON runs.id = group_results.run_id").
		Where("group_results.name = ?", group).
		Order("group_results.run_id desc")
	if limit > 0 {
		// one extra row gives the oldest returned entry its delta
		q = q.Limit(limit + 1)
	}

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading trend for %q: %w", group, err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		if limit > 0 && i == limit {
			break
		}
		entry := Entry{
			RunID:     r.RunID,
			Branch:    r.Branch,
			Commit:    r.CommitSHA,
			Label:     r.Label,
			Recorded:  r.CreatedAt,
			Total:     core.CoveragePercentage{L: r.Lines, S: r.Statements, F: r.Functions, B: r.Branches},
			FileCount: r.FileCount,
		}
		if i+1 < len(rows) {
			entry.LinesDelta = math.Round((r.Lines-rows[i+1].Lines)*100) / 100
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
