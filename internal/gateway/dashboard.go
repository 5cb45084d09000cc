package gateway

import (
	"context"
	"net/url"
	"strconv"
)

// DashboardAPI covers the backend's /dashboard surface.
type DashboardAPI struct {
	client *Client
}

// DashboardStats is the aggregate view shown on the landing page.
type DashboardStats struct {
	TotalBooks   int    `json:"totalBooks"`
	TotalMembers int    `json:"totalMembers"`
	ActiveLoans  int    `json:"activeLoans"`
	OverdueLoans int    `json:"overdueLoans"`
	RecentLoans  []Loan `json:"recentLoans"`
}

// PopularBook pairs a book with how often it has been loaned.
type PopularBook struct {
	Book      Book `json:"book"`
	LoanCount int  `json:"loanCount"`
}

func (d *DashboardAPI) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := d.client.get(ctx, "/dashboard/stats", nil, &stats)
	return stats, err
}

func (d *DashboardAPI) RecentLoans(ctx context.Context, limit int) ([]Loan, error) {
	var loans []Loan
	err := d.client.get(ctx, "/dashboard/recent-loans", limitQuery(limit), &loans)
	return loans, err
}

func (d *DashboardAPI) PopularBooks(ctx context.Context, limit int) ([]PopularBook, error) {
	var books []PopularBook
	err := d.client.get(ctx, "/dashboard/popular-books", limitQuery(limit), &books)
	return books, err
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
