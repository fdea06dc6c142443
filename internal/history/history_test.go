package history

import (
	"testing"
	"time"
)

func TestRecordAndList(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	entries := []Entry{
		{Command: "gitnr create gh:Rust", Templates: []string{"gh:Rust"}, Dest: "-", Bytes: 10, CreatedAt: base},
		{Command: "gitnr create gh:Go tt:go", Templates: []string{"gh:Go", "tt:go"}, Dest: ".gitignore", Bytes: 99, CreatedAt: base.Add(time.Minute)},
		{Command: "gitnr create ghg:Linux", Templates: []string{"ghg:Linux"}, Dest: "out/.gitignore", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := db.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := db.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Command != "gitnr create ghg:Linux" || got[1].Dest != ".gitignore" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if len(got[1].Templates) != 2 || got[1].Templates[1] != "tt:go" || got[1].Bytes != 99 {
		t.Fatalf("templates not round-tripped: %+v", got[1])
	}
	if !got[1].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("created_at = %v", got[1].CreatedAt)
	}

	all, err := db.List(0)
	if err != nil || len(all) != 3 {
		t.Fatalf("List(0) = %d rows, %v", len(all), err)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Record(Entry{Command: "gitnr create gh:Rust", Templates: []string{"gh:Rust"}, Dest: "-"}); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	rows, err := db.List(10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows after reopen: %d %v", len(rows), err)
	}
}

func TestNilDBRecordIsNoop(t *testing.T) {
	var db *DB
	if err := db.Record(Entry{}); err != nil {
		t.Fatalf("nil Record: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
