// Package capturedb reads capture parameters from the SQLite metadata file
// ld-decode style tools write next to a TBC file.
package capturedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"tbctools/video"
)

const captureQuery = `SELECT system, video_sample_rate, field_width, field_height,
	colour_burst_start, colour_burst_end, blanking_16b_ire
	FROM capture LIMIT 1`

const levelsQuery = `SELECT active_video_start, active_video_end,
	white_16b_ire, black_16b_ire, number_of_sequential_fields
	FROM capture LIMIT 1`

// ErrNoCapture is returned when the capture table has no rows.
var ErrNoCapture = errors.New("capturedb: no capture record")

// Capture is the capture record. Optional columns are zero when absent.
type Capture struct {
	System      video.System
	SampleRate  float64
	FieldWidth  int
	FieldHeight int
	BurstStart  int
	BurstEnd    int
	Blanking    int

	ActiveStart int
	ActiveEnd   int
	White       int
	Black       int
	Fields      int
}

// PathFor is the metadata file of a TBC file.
func PathFor(tbcPath string) string { return tbcPath + ".db" }

// Load opens dbPath and reads its capture record. The file must exist.
func Load(ctx context.Context, dbPath string) (Capture, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return Capture{}, fmt.Errorf("failed to open capture database: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return Capture{}, fmt.Errorf("failed to open capture database: %w", err)
	}
	defer db.Close()
	return Read(ctx, db)
}

// Read reads the capture record from an open database.
func Read(ctx context.Context, db *sql.DB) (Capture, error) {
	var (
		c                                  Capture
		system                             string
		rate                               sql.NullFloat64
		width, height, bstart, bend, blank sql.NullInt64
	)
	err := db.QueryRowContext(ctx, captureQuery).Scan(&system, &rate,
		&width, &height, &bstart, &bend, &blank)
	if errors.Is(err, sql.ErrNoRows) {
		return Capture{}, ErrNoCapture
	}
	if err != nil {
		return Capture{}, fmt.Errorf("failed to query capture: %w", err)
	}
	if c.System, err = video.ParseSystem(system); err != nil {
		return Capture{}, err
	}
	c.SampleRate = rate.Float64
	c.FieldWidth = int(width.Int64)
	c.FieldHeight = int(height.Int64)
	c.BurstStart = int(bstart.Int64)
	c.BurstEnd = int(bend.Int64)
	c.Blanking = int(blank.Int64)

	var start, end, white, black, fields sql.NullInt64
	err = db.QueryRowContext(ctx, levelsQuery).Scan(&start, &end, &white, &black, &fields)
	if err != nil && strings.Contains(err.Error(), "no such column") {
		// older files lack these columns; the system defaults stand in
		return c, nil
	}
	if err != nil {
		return Capture{}, fmt.Errorf("failed to query capture levels: %w", err)
	}
	c.ActiveStart = int(start.Int64)
	c.ActiveEnd = int(end.Int64)
	c.White = int(white.Int64)
	c.Black = int(black.Int64)
	c.Fields = int(fields.Int64)
	return c, nil
}

// Standard overlays the capture record on the default parameters of its
// system. Zero values keep the defaults.
func (c Capture) Standard() video.Standard {
	std, err := video.ForSystem(c.System)
	if err != nil {
		std = video.NewPAL()
	}
	set := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	if c.SampleRate > 0 {
		std.SampleRate = c.SampleRate
	}
	set(&std.FieldWidth, c.FieldWidth)
	set(&std.FieldHeight, c.FieldHeight)
	set(&std.BurstStart, c.BurstStart)
	set(&std.BurstEnd, c.BurstEnd)
	set(&std.Blanking, c.Blanking)
	set(&std.ActiveStart, c.ActiveStart)
	set(&std.ActiveEnd, c.ActiveEnd)
	set(&std.White, c.White)
	set(&std.Black, c.Black)
	return std
}

const schema = `CREATE TABLE capture (
	capture_id INTEGER PRIMARY KEY,
	system TEXT NOT NULL CHECK (system IN ('NTSC','PAL','PAL_M')),
	decoder TEXT NOT NULL,
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

const fieldSchema = `CREATE TABLE field_record (
	capture_id INTEGER NOT NULL REFERENCES capture(capture_id) ON DELETE CASCADE,
	field_id INTEGER NOT NULL,
	field_phase_id INTEGER,
	file_loc INTEGER,
	is_first_field INTEGER CHECK (is_first_field IN (0,1)),
	pad INTEGER CHECK (pad IN (0,1)),
	sync_conf INTEGER,
	PRIMARY KEY (capture_id, field_id)
)`

const fieldsQuery = `SELECT field_id, is_first_field, field_phase_id, file_loc, sync_conf
	FROM field_record ORDER BY field_id`

// Field is one row of the field_record table.
type Field struct {
	ID         int
	FirstField bool
	PhaseID    int   // position in the 4-field (NTSC) or 8-field colour sequence
	FileLoc    int64 // sample at which the field starts
	SyncConf   int
}

// SequenceFields returns the records of n consecutive fields of std
// starting at the first field of a colour sequence.
func SequenceFields(std video.Standard, n int) []Field {
	seq := 8
	if std.System == video.NTSC {
		seq = 4
	}
	perField := int64(std.FieldWidth) * int64(std.FieldHeight)
	out := make([]Field, n)
	for i := range out {
		out[i] = Field{
			ID:         i,
			FirstField: i%2 == 0,
			PhaseID:    i % seq,
			FileLoc:    int64(i) * perField,
			SyncConf:   100,
		}
	}
	return out
}

// FromStandard fills a capture record from std.
func FromStandard(std video.Standard, fields int) Capture {
	return Capture{
		System:      std.System,
		SampleRate:  std.SampleRate,
		FieldWidth:  std.FieldWidth,
		FieldHeight: std.FieldHeight,
		BurstStart:  std.BurstStart,
		BurstEnd:    std.BurstEnd,
		Blanking:    std.Blanking,
		ActiveStart: std.ActiveStart,
		ActiveEnd:   std.ActiveEnd,
		White:       std.White,
		Black:       std.Black,
		Fields:      fields,
	}
}

// Create writes a new metadata file at dbPath holding c and one field
// record per field. An existing file is replaced.
func Create(ctx context.Context, dbPath, decoder string, c Capture) error {
	if err := os.Remove(dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace capture database: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to create capture database: %w", err)
	}
	defer db.Close()

	for _, stmt := range []string{schema, fieldSchema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create capture tables: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO capture (system, decoder, video_sample_rate,
		active_video_start, active_video_end, field_width, field_height, number_of_sequential_fields,
		colour_burst_start, colour_burst_end, white_16b_ire, black_16b_ire, blanking_16b_ire)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.System.String(), decoder, c.SampleRate,
		c.ActiveStart, c.ActiveEnd, c.FieldWidth, c.FieldHeight, c.Fields,
		c.BurstStart, c.BurstEnd, c.White, c.Black, c.Blanking)
	if err != nil {
		return fmt.Errorf("failed to write capture record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO field_record
		(capture_id, field_id, field_phase_id, file_loc, is_first_field, pad, sync_conf)
		VALUES (?, ?, ?, ?, ?, 0, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, f := range SequenceFields(c.Standard(), c.Fields) {
		first := 0
		if f.FirstField {
			first = 1
		}
		if _, err := stmt.ExecContext(ctx, id, f.ID, f.PhaseID, f.FileLoc, first, f.SyncConf); err != nil {
			return fmt.Errorf("failed to write field %d: %w", f.ID, err)
		}
	}
	return tx.Commit()
}

// ReadFields reads the field records of an open database in field order.
func ReadFields(ctx context.Context, db *sql.DB) ([]Field, error) {
	rows, err := db.QueryContext(ctx, fieldsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	var out []Field
	for rows.Next() {
		var (
			f                       Field
			first, phase, loc, conf sql.NullInt64
		)
		if err := rows.Scan(&f.ID, &first, &phase, &loc, &conf); err != nil {
			return nil, err
		}
		f.FirstField = first.Int64 == 1
		f.PhaseID = int(phase.Int64)
		f.FileLoc = loc.Int64
		f.SyncConf = int(conf.Int64)
		out = append(out, f)
	}
	return out, rows.Err()
}

// LoadFields opens dbPath and reads its field records.
func LoadFields(ctx context.Context, dbPath string) ([]Field, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("failed to open capture database: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture database: %w", err)
	}
	defer db.Close()
	return ReadFields(ctx, db)
}
