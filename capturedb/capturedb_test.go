package capturedb

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"tbctools/video"
)

func createDB(t *testing.T, schema string, inserts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tbc.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range append([]string{schema}, inserts...) {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	return path
}

const fullSchema = `CREATE TABLE capture (
	capture_id INTEGER PRIMARY KEY,
	system TEXT NOT NULL,
	video_sample_rate REAL,
	active_video_start INTEGER,
	active_video_end INTEGER,
	field_width INTEGER,
	field_height INTEGER,
	number_of_sequential_fields INTEGER,
	colour_burst_start INTEGER,
	colour_burst_end INTEGER,
	white_16b_ire INTEGER,
	black_16b_ire INTEGER,
	blanking_16b_ire INTEGER
)`

func TestLoad(t *testing.T) {
	path := createDB(t, fullSchema, `INSERT INTO capture VALUES
		(1, 'NTSC', 14318181.818, 134, 894, 910, 263, 40, 74, 110, 51200, 18048, 15360)`)

	c, err := Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	want := Capture{
		System: video.NTSC, SampleRate: 14318181.818,
		FieldWidth: 910, FieldHeight: 263,
		BurstStart: 74, BurstEnd: 110, Blanking: 15360,
		ActiveStart: 134, ActiveEnd: 894,
		White: 51200, Black: 18048, Fields: 40,
	}
	if c != want {
		t.Errorf("got %+v\nwant %+v", c, want)
	}

	std := c.Standard()
	if std.Blanking != 15360 || std.BurstStart != 74 || std.White != 51200 || std.ActiveStart != 134 {
		t.Errorf("standard = %+v", std)
	}
	if std.Fsc != video.NewNTSC().Fsc {
		t.Error("subcarrier should come from the system defaults")
	}
}

func TestLoadMinimalSchema(t *testing.T) {
	path := createDB(t, `CREATE TABLE capture (
		system TEXT, video_sample_rate REAL, field_width INTEGER, field_height INTEGER,
		colour_burst_start INTEGER, colour_burst_end INTEGER, blanking_16b_ire INTEGER)`,
		`INSERT INTO capture VALUES ('PAL', 17734475, 1135, 313, 98, 138, NULL)`)

	c, err := Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if c.System != video.PAL || c.Blanking != 0 || c.White != 0 {
		t.Errorf("got %+v", c)
	}
	if std := c.Standard(); std != video.NewPAL() {
		t.Errorf("PAL defaults not kept: %+v", std)
	}
}

func TestLoadNullGeometry(t *testing.T) {
	path := createDB(t, fullSchema, `INSERT INTO capture (system, video_sample_rate)
		VALUES ('NTSC', NULL)`)

	c, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("NULL geometry columns: %v", err)
	}
	if c.FieldWidth != 0 || c.FieldHeight != 0 || c.BurstStart != 0 || c.BurstEnd != 0 {
		t.Errorf("got %+v", c)
	}
	if std := c.Standard(); std != video.NewNTSC() {
		t.Errorf("NTSC defaults not kept: %+v", std)
	}
}

func TestLoadBadLevels(t *testing.T) {
	path := createDB(t, fullSchema, `INSERT INTO capture (system, field_width, field_height,
		colour_burst_start, colour_burst_end, white_16b_ire) VALUES ('PAL', 1135, 313, 98, 138, 'bright')`)

	if _, err := Load(context.Background(), path); err == nil {
		t.Error("unreadable level column should fail, not fall back to defaults")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, createDB(t, fullSchema, `INSERT INTO capture (system) VALUES ('PAL')`)); err == nil {
		t.Error("cancelled load should fail")
	}
}

func TestLoadErrors(t *testing.T) {
	empty := createDB(t, fullSchema)
	if _, err := Load(context.Background(), empty); !errors.Is(err, ErrNoCapture) {
		t.Errorf("empty table: got %v", err)
	}
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("missing file should fail")
	}
	bad := createDB(t, fullSchema, `INSERT INTO capture (system, field_width, field_height,
		colour_burst_start, colour_burst_end) VALUES ('SECAM', 1, 1, 1, 1)`)
	if _, err := Load(context.Background(), bad); err == nil {
		t.Error("unknown system should fail")
	}
}

func TestPathFor(t *testing.T) {
	if got := PathFor("/data/cap.tbc"); got != "/data/cap.tbc.db" {
		t.Errorf("got %q", got)
	}
}

func TestCreateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synth.tbc.db")
	std := video.NewPALM()
	want := FromStandard(std, 4)
	for i := 0; i < 2; i++ { // second pass replaces the first file
		if err := Create(context.Background(), path, "tbctool", want); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
	if got.Standard() != std {
		t.Errorf("standard = %+v", got.Standard())
	}

	fields, err := LoadFields(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 4 {
		t.Fatalf("got %d field records", len(fields))
	}
	if f := fields[3]; f.ID != 3 || f.FirstField || f.PhaseID != 3 || f.FileLoc != 3*909*263 || f.SyncConf != 100 {
		t.Errorf("field 3 = %+v", f)
	}
}

func TestSequenceFields(t *testing.T) {
	ntsc := SequenceFields(video.NewNTSC(), 6)
	pal := SequenceFields(video.NewPAL(), 10)
	if ntsc[5].PhaseID != 1 || pal[9].PhaseID != 1 || pal[7].PhaseID != 7 {
		t.Errorf("phase ids: ntsc %d, pal %d %d", ntsc[5].PhaseID, pal[9].PhaseID, pal[7].PhaseID)
	}
	if !pal[0].FirstField || pal[1].FirstField {
		t.Error("even fields are first fields")
	}
}

func TestLoadFieldsWithoutTable(t *testing.T) {
	path := createDB(t, fullSchema)
	if _, err := LoadFields(context.Background(), path); err == nil {
		t.Error("a file without field records should fail")
	}
}
