package service

import (
	"context"

	"medreport/internal/cache"
	dom "medreport/internal/domain"

	"golang.org/x/sync/singleflight"
)

// DashboardService serves the simplified-interpretation payload. The data is
// static mock content until real report ingestion exists; it still goes
// through the cache so the read path is in place.
type DashboardService struct {
	cache *cache.DashboardCache
	sf    singleflight.Group
}

// NewDashboardService creates a DashboardService. If c is nil, caching is disabled.
func NewDashboardService(c *cache.DashboardCache) *DashboardService {
	return &DashboardService{cache: c}
}

// Get returns the dashboard payload.
func (s *DashboardService) Get(ctx context.Context, userID string) (dom.Dashboard, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("dashboard", func() (interface{}, error) {
			if d, err := s.cache.Get(ctx); err == nil && d != nil {
				return *d, nil
			}
			d := mockDashboard()
			_ = s.cache.Set(ctx, d)
			return d, nil
		})
		if err != nil {
			return dom.Dashboard{}, err
		}
		return v.(dom.Dashboard), nil
	}
	return mockDashboard(), nil
}

func mockDashboard() dom.Dashboard {
	return dom.Dashboard{
		Stats: map[string]dom.Stat{
			"tsh":        {Value: 2.5, Unit: "μIU/mL", Trend: "-0.4 from last test"},
			"hemoglobin": {Value: 11.9, Unit: "g/dL", Trend: "-0.2 from last test"},
		},
		History: map[string][]dom.HistoryPoint{
			"TSH": {
				{Date: "Jan 2024", Value: 4.8},
				{Date: "Jul 2024", Value: 3.5},
				{Date: "Jan 2025", Value: 2.5},
			},
		},
		Reports: []dom.Report{
			{ID: 1, Name: "Full_Panel_Jan2025.pdf", Date: "January 28, 2025"},
			{ID: 2, Name: "CBC_Report_Jul2024.pdf", Date: "July 05, 2024"},
		},
	}
}
