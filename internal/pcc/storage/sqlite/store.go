package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
)

// pragmas are applied to every connection opened by Open.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Session is one decoder run.
type Session struct {
	SessionID      string `json:"session_id"`
	Source         string `json:"source"`
	StartedUnixNs  int64  `json:"started_unix_ns"`
	FinishedUnixNs *int64 `json:"finished_unix_ns,omitempty"`
	Frames         int    `json:"frames"`
	Points         int    `json:"points"`
	Errors         int    `json:"errors"`
}

// FrameRecord describes one output frame. Points is only stored when set.
type FrameRecord struct {
	FrameIndex    int                `json:"frame_index"`
	SPSID         uint32             `json:"sps_id"`
	PointCount    int                `json:"point_count"`
	Bounds        geom.Box3          `json:"bounds"`
	DecodedUnixNs int64              `json:"decoded_unix_ns"`
	Points        []geom.Vec3[int32] `json:"-"`
}

// SessionTotals are written when a session finishes.
type SessionTotals struct {
	Frames int
	Points int
	Errors int
}

// FrameStore records decode sessions and their frames in SQLite.
type FrameStore struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it to the
// latest schema.
func Open(path string) (*FrameStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open frame store: %w", err)
	}
	// Connection-scoped pragmas such as foreign_keys only hold on one
	// connection.
	db.SetMaxOpenConns(1)
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &FrameStore{db: db}, nil
}

// Close closes the database.
func (s *FrameStore) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied migration version.
func (s *FrameStore) SchemaVersion() (uint, error) {
	version, dirty, err := schemaVersion(s.db)
	if err != nil {
		return 0, err
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// BeginSession creates a session for source and returns its id.
func (s *FrameStore) BeginSession(source string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO decode_sessions (session_id, source, started_unix_ns) VALUES (?, ?, ?)`,
		id, source, time.Now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// RecordFrame stores one frame of a session. A zero DecodedUnixNs is
// replaced by the current time.
func (s *FrameStore) RecordFrame(sessionID string, rec FrameRecord) error {
	if rec.DecodedUnixNs == 0 {
		rec.DecodedUnixNs = time.Now().UnixNano()
	}
	var minX, minY, minZ, maxX, maxY, maxZ sql.NullInt64
	if !rec.Bounds.IsEmpty() {
		minX, minY, minZ = nullInt(rec.Bounds.Min[0]), nullInt(rec.Bounds.Min[1]), nullInt(rec.Bounds.Min[2])
		maxX, maxY, maxZ = nullInt(rec.Bounds.Max[0]), nullInt(rec.Bounds.Max[1]), nullInt(rec.Bounds.Max[2])
	}

	_, err := s.db.Exec(`
		INSERT INTO decoded_frames (
			session_id, frame_index, sps_id, point_count,
			min_x, min_y, min_z, max_x, max_y, max_z,
			decoded_unix_ns, points
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, rec.FrameIndex, rec.SPSID, rec.PointCount,
		minX, minY, minZ, maxX, maxY, maxZ,
		rec.DecodedUnixNs, encodePoints(rec.Points),
	)
	if err != nil {
		return fmt.Errorf("insert frame %d: %w", rec.FrameIndex, err)
	}
	return nil
}

// FinishSession stamps the session end time and totals.
func (s *FrameStore) FinishSession(sessionID string, totals SessionTotals) error {
	res, err := s.db.Exec(`
		UPDATE decode_sessions
		SET finished_unix_ns = ?, frames = ?, points = ?, errors = ?
		WHERE session_id = ?`,
		time.Now().UnixNano(), totals.Frames, totals.Points, totals.Errors, sessionID,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish session: %w", sql.ErrNoRows)
	}
	return nil
}

// GetSession returns one session.
func (s *FrameStore) GetSession(sessionID string) (*Session, error) {
	sess := &Session{}
	var finished sql.NullInt64
	err := s.db.QueryRow(`
		SELECT session_id, source, started_unix_ns, finished_unix_ns, frames, points, errors
		FROM decode_sessions WHERE session_id = ?`, sessionID,
	).Scan(&sess.SessionID, &sess.Source, &sess.StartedUnixNs, &finished, &sess.Frames, &sess.Points, &sess.Errors)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if finished.Valid {
		sess.FinishedUnixNs = &finished.Int64
	}
	return sess, nil
}

// ListFrames returns the frames of a session in frame order.
func (s *FrameStore) ListFrames(sessionID string) ([]FrameRecord, error) {
	rows, err := s.db.Query(`
		SELECT frame_index, sps_id, point_count,
		       min_x, min_y, min_z, max_x, max_y, max_z,
		       decoded_unix_ns, points
		FROM decoded_frames
		WHERE session_id = ?
		ORDER BY frame_index`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	var frames []FrameRecord
	for rows.Next() {
		var rec FrameRecord
		var minX, minY, minZ, maxX, maxY, maxZ sql.NullInt64
		var blob []byte
		err := rows.Scan(
			&rec.FrameIndex, &rec.SPSID, &rec.PointCount,
			&minX, &minY, &minZ, &maxX, &maxY, &maxZ,
			&rec.DecodedUnixNs, &blob,
		)
		if err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		rec.Bounds = geom.EmptyBox()
		if minX.Valid {
			rec.Bounds.Min = geom.Vec3[int32]{int32(minX.Int64), int32(minY.Int64), int32(minZ.Int64)}
			rec.Bounds.Max = geom.Vec3[int32]{int32(maxX.Int64), int32(maxY.Int64), int32(maxZ.Int64)}
		}
		if rec.Points, err = decodePoints(blob); err != nil {
			return nil, fmt.Errorf("frame %d: %w", rec.FrameIndex, err)
		}
		frames = append(frames, rec)
	}
	return frames, rows.Err()
}

func nullInt(v int32) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

// encodePoints packs positions as little-endian int32 triples.
func encodePoints(points []geom.Vec3[int32]) []byte {
	if len(points) == 0 {
		return nil
	}
	buf := make([]byte, 0, 12*len(points))
	for _, p := range points {
		for k := 0; k < 3; k++ {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(p[k]))
		}
	}
	return buf
}

func decodePoints(blob []byte) ([]geom.Vec3[int32], error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob)%12 != 0 {
		return nil, fmt.Errorf("point blob of %d bytes", len(blob))
	}
	points := make([]geom.Vec3[int32], len(blob)/12)
	for i := range points {
		for k := 0; k < 3; k++ {
			points[i][k] = int32(binary.LittleEndian.Uint32(blob[12*i+4*k:]))
		}
	}
	return points, nil
}
