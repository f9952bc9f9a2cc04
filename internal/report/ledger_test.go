package report

import (
	"os"
	"testing"
	"time"

	"github.com/starford/presetgen/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "presetgen-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM runs`).Scan(&count); err != nil {
		t.Fatalf("runs table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM files`).Scan(&count); err != nil {
		t.Fatalf("files table missing: %v", err)
	}
}

func TestRecordAndRead(t *testing.T) {
	db := testDB(t)
	start := time.Now().Add(-time.Second)
	run := NewRun(start)
	run.Finish(time.Now(), "presets.xml", []models.FileOutcome{
		{Path: "a/x.txt", Checksum: "c1", Accepted: true},
		{Path: "a/y.txt", Checksum: "c2", Problems: []string{"invalid port value"}},
	})
	if run.Accepted != 1 || run.Rejected != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", run.Accepted, run.Rejected)
	}
	if err := db.Record(run); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := db.Recent(5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID || runs[0].Output != "presets.xml" {
		t.Fatalf("runs = %+v", runs)
	}

	files, err := db.Files(run.ID)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 || files[0].Path != "a/x.txt" || !files[0].Accepted {
		t.Fatalf("files = %+v", files)
	}
	if len(files[1].Problems) != 1 || files[1].Problems[0] != "invalid port value" {
		t.Errorf("problems = %v", files[1].Problems)
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	db := testDB(t)
	base := time.Now()
	for i := 0; i < 3; i++ {
		r := NewRun(base.Add(time.Duration(i) * time.Minute))
		r.Finish(r.StartedAt, "presets.xml", nil)
		if err := db.Record(r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	runs, err := db.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("runs not newest first: %v, %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestRecord_DuplicateIDFails(t *testing.T) {
	db := testDB(t)
	r := NewRun(time.Now())
	r.Finish(time.Now(), "presets.xml", nil)
	if err := db.Record(r); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := db.Record(r); err == nil {
		t.Error("expected primary key violation")
	}
}
