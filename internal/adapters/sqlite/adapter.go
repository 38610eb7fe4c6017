// Package sqlite provides a SQLite-backed implementation of the repository
// and session ports.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/ports"
)

var (
	_ ports.PlaylistRepository = (*Adapter)(nil)
	_ ports.SessionStore       = (*Adapter)(nil)
)

// Adapter implements the repository ports for SQLite
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// One connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Ping reports whether the database is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Save writes the playlist with its entries and build report, replacing any
// previous version stored under the same ID.
func (a *Adapter) Save(ctx context.Context, p domain.Playlist) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	r := p.Report
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO playlists (
			id, name, description, distance_meters, category, goal_ns,
			profile, fallback_used, cadence_spm, primary_min, primary_max,
			secondary_min, secondary_max, target_ns, total_ns,
			spotify_id, status, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			description=excluded.description,
			distance_meters=excluded.distance_meters,
			category=excluded.category,
			goal_ns=excluded.goal_ns,
			profile=excluded.profile,
			fallback_used=excluded.fallback_used,
			cadence_spm=excluded.cadence_spm,
			primary_min=excluded.primary_min,
			primary_max=excluded.primary_max,
			secondary_min=excluded.secondary_min,
			secondary_max=excluded.secondary_max,
			target_ns=excluded.target_ns,
			total_ns=excluded.total_ns,
			spotify_id=excluded.spotify_id,
			status=excluded.status;
	`,
		p.ID, p.Name, p.Description, p.Goal.DistanceMeters, p.Goal.Category, int64(p.Goal.GoalTime),
		r.Profile, r.FallbackUsed, r.Cadence.StepsPerMinute, r.Cadence.Primary.Min, r.Cadence.Primary.Max,
		r.Cadence.Secondary.Min, r.Cadence.Secondary.Max, int64(r.TargetDuration), int64(r.TotalDuration),
		p.SpotifyID, string(p.Status), p.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to save playlist metadata: %w", err)
	}

	for _, table := range []string{"playlist_entries", "phase_reports", "relax_steps"} {
		// #nosec G202 -- table names come from the fixed list above
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE playlist_id = ?", p.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := saveEntries(ctx, tx, p.ID, p.Entries); err != nil {
		return err
	}
	if err := saveReport(ctx, tx, p.ID, r); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

func saveEntries(ctx context.Context, tx *sql.Tx, playlistID string, entries []domain.Entry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO playlist_entries (
			playlist_id, position, phase, track_id, title, artist, album,
			duration_ns, preview_url, danceability, energy, valence, tempo,
			instrumentalness, acousticness
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		t := e.Track
		if _, err := stmt.ExecContext(ctx,
			playlistID, e.Position, e.Phase, t.ID, t.Title, t.Artist, t.Album,
			int64(t.Duration), t.PreviewURL,
			t.Features.Danceability, t.Features.Energy, t.Features.Valence, t.Features.Tempo,
			t.Features.Instrumentalness, t.Features.Acousticness,
		); err != nil {
			return fmt.Errorf("failed to save entry %d (%s): %w", e.Position, t.ID, err)
		}
	}
	return nil
}

func saveReport(ctx context.Context, tx *sql.Tx, playlistID string, r domain.BuildReport) error {
	stmtPhase, err := tx.PrepareContext(ctx, `
		INSERT INTO phase_reports (
			playlist_id, seq, phase, energy_min, energy_max,
			target_ns, filled_ns, underfill_ns, level, track_count
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare phase report insert: %w", err)
	}
	defer stmtPhase.Close()

	for i, ph := range r.Phases {
		if _, err := stmtPhase.ExecContext(ctx,
			playlistID, i, ph.Phase, ph.EnergyMin, ph.EnergyMax,
			int64(ph.Target), int64(ph.Filled), int64(ph.Underfill), int(ph.Level), ph.TrackCount,
		); err != nil {
			return fmt.Errorf("failed to save phase report %s: %w", ph.Phase, err)
		}
	}

	stmtStep, err := tx.PrepareContext(ctx, `
		INSERT INTO relax_steps (playlist_id, seq, phase, level) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare relax step insert: %w", err)
	}
	defer stmtStep.Close()

	for i, s := range r.Steps {
		if _, err := stmtStep.ExecContext(ctx, playlistID, i, s.Phase, int(s.Level)); err != nil {
			return fmt.Errorf("failed to save relax step %d: %w", i, err)
		}
	}
	return nil
}

// GetByID loads a playlist with its entries and build report.
func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Playlist, error) {
	var (
		p       domain.Playlist
		goalNs  int64
		target  int64
		total   int64
		status  string
		spotify sql.NullString
	)
	r := &p.Report
	err := a.db.QueryRowContext(ctx, `
		SELECT id, name, description, distance_meters, category, goal_ns,
			profile, fallback_used, cadence_spm, primary_min, primary_max,
			secondary_min, secondary_max, target_ns, total_ns,
			spotify_id, status, created_at
		FROM playlists WHERE id = ?
	`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Goal.DistanceMeters, &p.Goal.Category, &goalNs,
		&r.Profile, &r.FallbackUsed, &r.Cadence.StepsPerMinute, &r.Cadence.Primary.Min, &r.Cadence.Primary.Max,
		&r.Cadence.Secondary.Min, &r.Cadence.Secondary.Max, &target, &total,
		&spotify, &status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Playlist{}, domain.ErrNotFound
		}
		return domain.Playlist{}, fmt.Errorf("failed to load playlist: %w", err)
	}
	p.Goal.GoalTime = time.Duration(goalNs)
	r.TargetDuration = time.Duration(target)
	r.TotalDuration = time.Duration(total)
	p.SpotifyID = spotify.String
	p.Status = domain.PublishStatus(status)

	if p.Entries, err = a.loadEntries(ctx, id); err != nil {
		return domain.Playlist{}, err
	}
	if r.Phases, err = a.loadPhaseReports(ctx, id); err != nil {
		return domain.Playlist{}, err
	}
	if r.Steps, err = a.loadSteps(ctx, id); err != nil {
		return domain.Playlist{}, err
	}
	return p, nil
}

func (a *Adapter) loadEntries(ctx context.Context, playlistID string) ([]domain.Entry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT position, phase, track_id, title, artist, IFNULL(album, ''),
			duration_ns, IFNULL(preview_url, ''),
			danceability, energy, valence, tempo, instrumentalness, acousticness
		FROM playlist_entries
		WHERE playlist_id = ?
		ORDER BY position ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var (
			e        domain.Entry
			duration int64
		)
		t := &e.Track
		if err := rows.Scan(
			&e.Position, &e.Phase, &t.ID, &t.Title, &t.Artist, &t.Album,
			&duration, &t.PreviewURL,
			&t.Features.Danceability, &t.Features.Energy, &t.Features.Valence, &t.Features.Tempo,
			&t.Features.Instrumentalness, &t.Features.Acousticness,
		); err != nil {
			return nil, fmt.Errorf("failed to scan playlist entry: %w", err)
		}
		t.Duration = time.Duration(duration)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist entries: %w", err)
	}
	return entries, nil
}

func (a *Adapter) loadPhaseReports(ctx context.Context, playlistID string) ([]domain.PhaseReport, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT phase, energy_min, energy_max, target_ns, filled_ns, underfill_ns, level, track_count
		FROM phase_reports
		WHERE playlist_id = ?
		ORDER BY seq ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load phase reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.PhaseReport{}
	for rows.Next() {
		var (
			ph                        domain.PhaseReport
			target, filled, underfill int64
			level                     int
		)
		if err := rows.Scan(&ph.Phase, &ph.EnergyMin, &ph.EnergyMax, &target, &filled, &underfill, &level, &ph.TrackCount); err != nil {
			return nil, fmt.Errorf("failed to scan phase report: %w", err)
		}
		ph.Target = time.Duration(target)
		ph.Filled = time.Duration(filled)
		ph.Underfill = time.Duration(underfill)
		ph.Level = domain.RelaxLevel(level)
		reports = append(reports, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phase reports: %w", err)
	}
	return reports, nil
}

func (a *Adapter) loadSteps(ctx context.Context, playlistID string) ([]domain.RelaxStep, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT phase, level FROM relax_steps WHERE playlist_id = ? ORDER BY seq ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load relax steps: %w", err)
	}
	defer rows.Close()

	steps := []domain.RelaxStep{}
	for rows.Next() {
		var (
			s     domain.RelaxStep
			level int
		)
		if err := rows.Scan(&s.Phase, &level); err != nil {
			return nil, fmt.Errorf("failed to scan relax step: %w", err)
		}
		s.Level = domain.RelaxLevel(level)
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate relax steps: %w", err)
	}
	return steps, nil
}

// MarkPublished records the Spotify playlist ID after a successful publish.
func (a *Adapter) MarkPublished(ctx context.Context, id, spotifyID string) error {
	return a.setStatus(ctx, id, domain.StatusPublished, spotifyID)
}

// MarkFailed records that publishing the playlist gave up.
func (a *Adapter) MarkFailed(ctx context.Context, id string) error {
	return a.setStatus(ctx, id, domain.StatusFailed, "")
}

func (a *Adapter) setStatus(ctx context.Context, id string, status domain.PublishStatus, spotifyID string) error {
	res, err := a.db.ExecContext(ctx, `
		UPDATE playlists SET status = ?, spotify_id = COALESCE(NULLIF(?, ''), spotify_id)
		WHERE id = ?
	`, string(status), spotifyID, id)
	if err != nil {
		return fmt.Errorf("failed to update playlist status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update playlist status: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveSession stores or refreshes an OAuth session.
func (a *Adapter) SaveSession(ctx context.Context, s domain.Session) error {
	if s.ID == "" {
		return fmt.Errorf("save session: %w", domain.ErrInvalidArgument)
	}
	if _, err := a.db.ExecContext(ctx, `
		INSERT INTO sessions (id, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			access_token=excluded.access_token,
			refresh_token=CASE WHEN excluded.refresh_token = '' THEN sessions.refresh_token ELSE excluded.refresh_token END,
			token_type=excluded.token_type,
			expiry=excluded.expiry,
			updated_at=CURRENT_TIMESTAMP;
	`, s.ID, s.AccessToken, s.RefreshToken, s.TokenType, s.Expiry.UTC()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession loads a session by ID.
func (a *Adapter) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var s domain.Session
	err := a.db.QueryRowContext(ctx, `
		SELECT id, access_token, refresh_token, token_type, expiry FROM sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.AccessToken, &s.RefreshToken, &s.TokenType, &s.Expiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS playlists (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		distance_meters REAL NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		goal_ns INTEGER NOT NULL,
		profile TEXT NOT NULL DEFAULT '',
		fallback_used INTEGER NOT NULL DEFAULT 0,
		cadence_spm REAL NOT NULL DEFAULT 0,
		primary_min REAL NOT NULL DEFAULT 0,
		primary_max REAL NOT NULL DEFAULT 0,
		secondary_min REAL NOT NULL DEFAULT 0,
		secondary_max REAL NOT NULL DEFAULT 0,
		target_ns INTEGER NOT NULL DEFAULT 0,
		total_ns INTEGER NOT NULL DEFAULT 0,
		spotify_id TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS playlist_entries (
		playlist_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		phase TEXT NOT NULL,
		track_id TEXT NOT NULL,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		album TEXT,
		duration_ns INTEGER NOT NULL,
		preview_url TEXT,
		danceability REAL NOT NULL DEFAULT 0,
		energy REAL NOT NULL DEFAULT 0,
		valence REAL NOT NULL DEFAULT 0,
		tempo REAL NOT NULL DEFAULT 0,
		instrumentalness REAL NOT NULL DEFAULT 0,
		acousticness REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (playlist_id, position),
		UNIQUE (playlist_id, track_id),
		FOREIGN KEY(playlist_id) REFERENCES playlists(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS phase_reports (
		playlist_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		phase TEXT NOT NULL,
		energy_min REAL NOT NULL,
		energy_max REAL NOT NULL,
		target_ns INTEGER NOT NULL,
		filled_ns INTEGER NOT NULL,
		underfill_ns INTEGER NOT NULL,
		level INTEGER NOT NULL,
		track_count INTEGER NOT NULL,
		PRIMARY KEY (playlist_id, seq),
		FOREIGN KEY(playlist_id) REFERENCES playlists(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS relax_steps (
		playlist_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		phase TEXT NOT NULL,
		level INTEGER NOT NULL,
		PRIMARY KEY (playlist_id, seq),
		FOREIGN KEY(playlist_id) REFERENCES playlists(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL DEFAULT '',
		token_type TEXT NOT NULL DEFAULT '',
		expiry DATETIME,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	return nil
}
