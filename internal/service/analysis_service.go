package service

import (
	"context"
	"sort"
	"time"

	"go-household-inventory/internal/model"
	"go-household-inventory/internal/repository"
	"go-household-inventory/pkg/apperror"
)

const DefaultRange = "7d"

// StockMovementReport is the chart payload for one range.
type StockMovementReport struct {
	Range string                         `json:"range"`
	From  time.Time                      `json:"from"`
	To    time.Time                      `json:"to"`
	Data  []repository.StockMovementData `json:"data"`
}

type AnalysisService interface {
	Summary(ctx context.Context) (*repository.InventoryStats, error)
	TagRanking(ctx context.Context) ([]model.TagCount, error)
	LocationDistribution(ctx context.Context) ([]repository.LocationCount, error)
	StockMovement(ctx context.Context, rangeParam string) (*StockMovementReport, error)
}

type analysisService struct {
	movements repository.StockMovementRepository
	tags      repository.TagRepository
	now       func() time.Time
}

func NewAnalysisService(movements repository.StockMovementRepository, tags repository.TagRepository) AnalysisService {
	return &analysisService{movements: movements, tags: tags, now: time.Now}
}

func (s *analysisService) Summary(ctx context.Context) (*repository.InventoryStats, error) {
	stats, err := s.movements.GetInventoryStats(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load inventory summary")
	}
	return stats, nil
}

func (s *analysisService) TagRanking(ctx context.Context) ([]model.TagCount, error) {
	tags, err := s.tags.FindAllWithCounts(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load tag ranking")
	}
	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})
	if tags == nil {
		tags = []model.TagCount{}
	}
	return tags, nil
}

func (s *analysisService) LocationDistribution(ctx context.Context) ([]repository.LocationCount, error) {
	counts, err := s.movements.GetLocationDistribution(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load location distribution")
	}
	if counts == nil {
		counts = []repository.LocationCount{}
	}
	return counts, nil
}

func (s *analysisService) StockMovement(ctx context.Context, rangeParam string) (*StockMovementReport, error) {
	end := s.now()
	rangeParam, start := rangeStart(end, rangeParam)

	data, err := s.movements.GetStockMovement(ctx, start, end)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load stock movement")
	}
	if data == nil {
		data = []repository.StockMovementData{}
	}
	return &StockMovementReport{Range: rangeParam, From: start, To: end, Data: data}, nil
}

// rangeStart maps a range name to its start time; unknown names fall back to 7d.
func rangeStart(now time.Time, rangeParam string) (string, time.Time) {
	switch rangeParam {
	case "1m":
		return rangeParam, now.AddDate(0, -1, 0)
	case "3m":
		return rangeParam, now.AddDate(0, -3, 0)
	case "6m":
		return rangeParam, now.AddDate(0, -6, 0)
	case "1y":
		return rangeParam, now.AddDate(-1, 0, 0)
	}
	return DefaultRange, now.AddDate(0, 0, -7)
}
