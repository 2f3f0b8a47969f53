package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	fs := NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	if err := fs.Ensure(); err != nil {
		t.Fatalf("ensure file store: %v", err)
	}

	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "edupulse.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]Store{
		"file":   fs,
		"sqlite": sq,
		"memory": NewMemoryStore(),
	}
}

func TestStoresStartWithEmptyDocument(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			doc, err := st.Load(context.Background())
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(doc.Admins) != 0 || len(doc.Students) != 0 {
				t.Fatalf("expected empty collections, got %d admins %d students", len(doc.Admins), len(doc.Students))
			}
			if doc.Settings.SchoolName != DefaultSchoolName {
				t.Fatalf("expected default school name, got %q", doc.Settings.SchoolName)
			}
		})
	}
}

func TestStoresUpdateRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := st.Update(ctx, func(doc *Document) error {
				doc.Admins = append(doc.Admins, Admin{ID: 1, Name: "Root", Email: "root@x.com", PasswordHash: "h", Role: RoleAdmin, CreatedAt: created})
				doc.Students = append(doc.Students, Student{ID: 2, Name: "Ada", Email: "ada@x.com", StudentID: "S000001", CreatedAt: created})
				return nil
			})
			if err != nil {
				t.Fatalf("update: %v", err)
			}

			doc, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if a := doc.AdminByEmail("ROOT@x.com "); a == nil || a.ID != 1 {
				t.Fatalf("expected admin 1 by email, got %+v", a)
			}
			if s := doc.StudentByID(2); s == nil || s.StudentID != "S000001" {
				t.Fatalf("expected student 2, got %+v", s)
			}
			if !doc.Students[0].CreatedAt.Equal(created) {
				t.Fatalf("expected createdAt %v, got %v", created, doc.Students[0].CreatedAt)
			}
		})
	}
}

func TestStoresUpdateErrorWritesNothing(t *testing.T) {
	boom := errors.New("boom")
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := st.Update(ctx, func(doc *Document) error {
				doc.Admins = append(doc.Admins, Admin{ID: 1, Email: "a@x.com"})
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("expected boom, got %v", err)
			}
			doc, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(doc.Admins) != 0 {
				t.Fatalf("expected no admins after failed update, got %d", len(doc.Admins))
			}
		})
	}
}

func TestStoresSerializeConcurrentUpdates(t *testing.T) {
	const writers = 20
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs <- st.Update(ctx, func(doc *Document) error {
						doc.Students = append(doc.Students, Student{ID: int64(i), Email: fmt.Sprintf("s%d@x.com", i)})
						return nil
					})
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				if err != nil {
					t.Fatalf("update: %v", err)
				}
			}

			doc, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(doc.Students) != writers {
				t.Fatalf("expected %d students, got %d", writers, len(doc.Students))
			}
		})
	}
}

func TestFileStoreWritesOriginalLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "database.json")
	st := NewFileStore(path)
	if err := st.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"admins", "students", "settings"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("expected top-level key %q in %s", key, string(b))
		}
	}
	if string(raw["admins"]) != "[]" {
		t.Fatalf("expected empty admins array, got %s", raw["admins"])
	}
}

func TestFileStoreReadsExistingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	legacy := `{
  "admins": [{"id": 1700000000000, "name": "Admin", "email": "head@school.org", "password": "$2a$10$abc", "role": "admin", "createdAt": "2024-01-02T03:04:05.678Z"}],
  "students": [],
  "settings": {"school_name": "Hillside"}
}`
	if err := os.WriteFile(path, []byte(legacy), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	st := NewFileStore(path)
	if err := st.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	doc, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Settings.SchoolName != "Hillside" {
		t.Fatalf("expected Hillside, got %q", doc.Settings.SchoolName)
	}
	a := doc.AdminByEmail("head@school.org")
	if a == nil || a.PasswordHash != "$2a$10$abc" {
		t.Fatalf("expected legacy admin with hash, got %+v", a)
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	st := NewFileStore(path)

	_, err := st.Load(context.Background())
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestStoresHonourCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			err := st.Update(ctx, func(*Document) error { return nil })
			if err == nil {
				t.Fatal("expected error for canceled context")
			}
		})
	}
}

func TestNextIDsIncrease(t *testing.T) {
	now := time.UnixMilli(5000)
	doc := NewDocument()
	doc.Admins = append(doc.Admins, Admin{ID: 5000})
	if got := doc.NextAdminID(now); got != 5001 {
		t.Fatalf("expected 5001, got %d", got)
	}
	if got := doc.NextStudentID(now); got != 5000 {
		t.Fatalf("expected 5000, got %d", got)
	}
}
