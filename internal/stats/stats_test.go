package stats

import (
	"context"
	"fmt"
	"testing"

	"github.com/hnrobert/edupulse/internal/store"
)

func TestAdminStatsCounts(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	const admins, students = 2, 5
	err := st.Update(ctx, func(doc *store.Document) error {
		for i := 0; i < admins; i++ {
			doc.Admins = append(doc.Admins, store.Admin{ID: int64(i), Email: fmt.Sprintf("a%d@x.com", i)})
		}
		for i := 0; i < students; i++ {
			doc.Students = append(doc.Students, store.Student{ID: int64(i), Email: fmt.Sprintf("s%d@x.com", i)})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := NewReporter(st).AdminStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got.TotalAdmins != admins || got.TotalStudents != students {
		t.Fatalf("expected {%d admins %d students}, got {%d %d}", admins, students, got.TotalAdmins, got.TotalStudents)
	}
	if len(got.RecentActivity) != 2 || got.RecentActivity[0].Action != "Admin logged in" {
		t.Fatalf("unexpected recent activity %+v", got.RecentActivity)
	}
}

func TestAdminStatsEmptyStore(t *testing.T) {
	got, err := NewReporter(store.NewMemoryStore()).AdminStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got.TotalAdmins != 0 || got.TotalStudents != 0 {
		t.Fatalf("expected zero counts, got %+v", got)
	}
}
