// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"fmt"
	"sort"

	"github.com/haris-hm/gorkminion-voting-machine/models"
)

// MaxRankGroups caps how many distinct point values are announced.
const MaxRankGroups = 5

// Source reads accumulated tallies. *store.Store implements it.
type Source interface {
	ListTallies(ctx context.Context, ballotID string) ([]models.Result, error)
}

type Tabulator struct {
	source Source
}

func New(source Source) *Tabulator {
	return &Tabulator{source: source}
}

// Results returns the points of every option, highest first. Equal points
// keep option id order.
func (t *Tabulator) Results(ctx context.Context, ballotID string) ([]models.Result, error) {
	results, err := t.source.ListTallies(ctx, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tallies: %w", err)
	}
	SortResults(results)
	return results, nil
}

// SortResults orders results by points descending, then option id ascending.
func SortResults(results []models.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Points != results[j].Points {
			return results[i].Points > results[j].Points
		}
		return results[i].OptionID < results[j].OptionID
	})
}

// RankByPoints groups options by distinct point value. Only positive totals
// are ranked, and at most MaxRankGroups groups are returned. Ties share a
// rank; the next group's rank is one higher regardless of group size.
func RankByPoints(results []models.Result) []models.RankGroup {
	sorted := make([]models.Result, len(results))
	copy(sorted, results)
	SortResults(sorted)

	var groups []models.RankGroup
	for _, r := range sorted {
		if r.Points <= 0 {
			break
		}
		if n := len(groups); n > 0 && groups[n-1].Points == r.Points {
			groups[n-1].OptionIDs = append(groups[n-1].OptionIDs, r.OptionID)
			continue
		}
		if len(groups) == MaxRankGroups {
			break
		}
		groups = append(groups, models.RankGroup{
			Rank:      len(groups) + 1,
			Points:    r.Points,
			OptionIDs: []int{r.OptionID},
		})
	}

	if groups == nil {
		return []models.RankGroup{}
	}
	return groups
}

// WinnerIDs flattens rank groups into the ballot's winner list.
func WinnerIDs(groups []models.RankGroup) []int {
	winners := []int{}
	for _, g := range groups {
		winners = append(winners, g.OptionIDs...)
	}
	return winners
}
