package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

type ReportService struct {
	articles ports.ArticleRepository
	logger   zerolog.Logger
}

func NewReportService(articles ports.ArticleRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{articles: articles, logger: logger}
}

// Report aggregates the articles created within [start, end], both bounds
// inclusive.
func (s *ReportService) Report(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewValidationError("startDate", "and endDate are required")
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("endDate", "must not be before startDate")
	}

	articles, err := s.articles.List(ctx, ports.ArticleFilter{From: start, To: end})
	if err != nil {
		return nil, err
	}

	inRange := articles[:0]
	for _, a := range articles {
		if a.CreatedDate.Before(start) || a.CreatedDate.After(end) {
			continue
		}
		inRange = append(inRange, a)
	}
	domain.SortNewest(inRange)

	byCategory := map[string]int{}
	byStaff := map[string]int{}
	for _, a := range inRange {
		byCategory[categoryName(a)]++
		byStaff[staffName(a)]++
	}

	report := &domain.Report{
		Start:         start,
		End:           end,
		TotalArticles: len(inRange),
		Articles:      inRange,
		ByCategory:    make([]domain.CategoryCount, 0, len(byCategory)),
		ByStaff:       make([]domain.StaffCount, 0, len(byStaff)),
	}
	for name, n := range byCategory {
		report.ByCategory = append(report.ByCategory, domain.CategoryCount{CategoryName: name, Count: n})
	}
	for name, n := range byStaff {
		report.ByStaff = append(report.ByStaff, domain.StaffCount{StaffName: name, Count: n})
	}
	sort.Slice(report.ByCategory, func(i, j int) bool {
		a, b := report.ByCategory[i], report.ByCategory[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.CategoryName < b.CategoryName
	})
	sort.Slice(report.ByStaff, func(i, j int) bool {
		a, b := report.ByStaff[i], report.ByStaff[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.StaffName < b.StaffName
	})

	s.logger.Debug().Time("start", start).Time("end", end).Int("total", report.TotalArticles).Msg("report built")
	return report, nil
}

func categoryName(a domain.NewsArticle) string {
	if a.Category != nil && a.Category.Name != "" {
		return a.Category.Name
	}
	return fmt.Sprintf("category %d", a.CategoryID)
}

func staffName(a domain.NewsArticle) string {
	if a.CreatedBy != nil && a.CreatedBy.Name != "" {
		return a.CreatedBy.Name
	}
	return fmt.Sprintf("account %d", a.CreatedByID)
}
