// Package stats reports aggregate counts over the portal document.
package stats

import (
	"context"
	"fmt"

	"github.com/hnrobert/edupulse/internal/store"
)

type Activity struct {
	ID     int    `json:"id"`
	Action string `json:"action"`
	Time   string `json:"time"`
}

type AdminStats struct {
	TotalStudents  int        `json:"totalStudents"`
	TotalAdmins    int        `json:"totalAdmins"`
	RecentActivity []Activity `json:"recentActivity"`
}

// recentActivity is a placeholder feed for the dashboard; nothing records activity yet.
func recentActivity() []Activity {
	return []Activity{
		{ID: 1, Action: "Admin logged in", Time: "Just now"},
		{ID: 2, Action: "Database backup completed", Time: "2 hours ago"},
	}
}

type Reporter struct {
	store store.Store
}

func NewReporter(st store.Store) *Reporter {
	return &Reporter{store: st}
}

func (r *Reporter) AdminStats(ctx context.Context) (AdminStats, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return AdminStats{}, fmt.Errorf("load store: %w", err)
	}
	return AdminStats{
		TotalStudents:  len(doc.Students),
		TotalAdmins:    len(doc.Admins),
		RecentActivity: recentActivity(),
	}, nil
}
