package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/planner"
	"github.com/ewilliams-labs/stride/internal/core/ports"
)

// ErrGoalParserUnavailable indicates free-text goals are not configured.
var ErrGoalParserUnavailable = errors.New("service: goal parser unavailable")

// Dependencies are the collaborators of an Orchestrator. Goals and Queue
// may be nil: free-text parsing is then unavailable and playlists are
// stored without being published.
type Dependencies struct {
	Spotify   ports.SpotifyProvider
	Repo      ports.PlaylistRepository
	Sessions  ports.SessionStore
	Goals     ports.GoalParser
	Queue     ports.PublishQueue
	Planner   *planner.Planner
	Distances map[string]float64
	Logger    *zap.Logger
}

// Orchestrator coordinates the Spotify library, the planner and the
// playlist repository.
type Orchestrator struct {
	spotify   ports.SpotifyProvider
	repo      ports.PlaylistRepository
	sessions  ports.SessionStore
	goals     ports.GoalParser
	queue     ports.PublishQueue
	planner   *planner.Planner
	distances map[string]float64
	log       *zap.Logger

	newID func() string
	now   func() time.Time
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(d Dependencies) *Orchestrator {
	o := &Orchestrator{
		spotify:   d.Spotify,
		repo:      d.Repo,
		sessions:  d.Sessions,
		goals:     d.Goals,
		queue:     d.Queue,
		planner:   d.Planner,
		distances: d.Distances,
		log:       d.Logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	if o.distances == nil {
		o.distances = domain.DefaultDistances()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// GenerateRequest is a race goal as submitted by a client. GoalTime, when
// set, takes precedence over GoalMinutes.
type GenerateRequest struct {
	Distance    string  `json:"distance"`
	GoalMinutes float64 `json:"goal_minutes,omitempty"`
	GoalTime    string  `json:"goal_time,omitempty"`
}

// ResolveGoal turns a request into a GoalSpec using the configured distances.
func (o *Orchestrator) ResolveGoal(req GenerateRequest) (domain.GoalSpec, error) {
	goal := time.Duration(req.GoalMinutes * float64(time.Minute))
	if req.GoalTime != "" {
		meters, _, err := domain.ParseDistance(req.Distance, o.distances)
		if err != nil {
			return domain.GoalSpec{}, err
		}
		parsed, err := domain.ParseGoalTime(req.GoalTime, meters)
		if err != nil {
			return domain.GoalSpec{}, err
		}
		goal = parsed
	}
	return domain.NewGoalSpec(req.Distance, goal, o.distances)
}

// GeneratePlaylist builds a playlist from the session user's saved tracks,
// stores it and queues it for publishing to Spotify.
func (o *Orchestrator) GeneratePlaylist(ctx context.Context, sessionID string, req GenerateRequest) (domain.Playlist, error) {
	goal, err := o.ResolveGoal(req)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("service: resolve goal: %w", err)
	}
	// Reject bad goals before touching Spotify.
	if _, _, _, err := o.planner.Schedule(goal); err != nil {
		return domain.Playlist{}, fmt.Errorf("service: schedule: %w", err)
	}

	sess, err := o.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Playlist{}, fmt.Errorf("service: session %q: %w", sessionID, ports.ErrUnauthorized)
		}
		return domain.Playlist{}, fmt.Errorf("service: failed to load session: %w", err)
	}

	tracks, err := o.spotify.SavedTracks(ctx, sess)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("service: failed to fetch library: %w", err)
	}

	res, err := o.PreviewPlaylist(goal, tracks)
	if err != nil {
		return domain.Playlist{}, err
	}

	pl, err := domain.NewPlaylist(o.newID(), playlistName(goal))
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("service: domain rule violation: %w", err)
	}
	pl.Description = playlistDescription(goal)
	pl.Goal = goal
	pl.Entries = res.Entries
	pl.Report = res.Report
	pl.CreatedAt = o.now().UTC()

	if err := o.repo.Save(ctx, *pl); err != nil {
		return domain.Playlist{}, fmt.Errorf("service: failed to save playlist: %w", err)
	}

	if o.queue != nil && !o.queue.Enqueue(pl.ID, sess) {
		o.log.Warn("service: publish queue full", zap.String("playlist_id", pl.ID))
		if err := o.repo.MarkFailed(ctx, pl.ID); err != nil {
			return domain.Playlist{}, fmt.Errorf("service: failed to mark playlist: %w", err)
		}
		pl.Status = domain.StatusFailed
	}

	return *pl, nil
}

// PreviewPlaylist runs the planner without any I/O and logs its diagnostics.
func (o *Orchestrator) PreviewPlaylist(goal domain.GoalSpec, tracks []domain.Track) (planner.Result, error) {
	res, err := o.planner.Build(goal, tracks)
	if err != nil {
		return planner.Result{}, fmt.Errorf("service: build playlist: %w", err)
	}
	o.logReport(res.Report)
	return res, nil
}

func (o *Orchestrator) logReport(r domain.BuildReport) {
	for _, s := range r.Steps {
		o.log.Warn("service: phase relaxed",
			zap.String("phase", s.Phase), zap.Stringer("level", s.Level))
	}
	for _, ph := range r.Phases {
		if ph.Underfilled() {
			o.log.Warn("service: phase underfilled",
				zap.String("phase", ph.Phase),
				zap.Duration("target", ph.Target),
				zap.Duration("underfill", ph.Underfill),
				zap.Stringer("level", ph.Level))
		}
	}
	o.log.Info("service: playlist built",
		zap.String("profile", r.Profile),
		zap.Bool("fallback", r.FallbackUsed),
		zap.Float64("cadence", r.Cadence.StepsPerMinute),
		zap.Duration("target", r.TargetDuration),
		zap.Duration("total", r.TotalDuration))
}

// GetPlaylist loads a stored playlist.
func (o *Orchestrator) GetPlaylist(ctx context.Context, id string) (domain.Playlist, error) {
	pl, err := o.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("service: failed to load playlist: %w", err)
	}
	return pl, nil
}

// PublishPlaylist writes a stored playlist to the user's Spotify account and
// records the outcome. Already published playlists are left alone.
func (o *Orchestrator) PublishPlaylist(ctx context.Context, id string, sess domain.Session) error {
	pl, err := o.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to load playlist: %w", err)
	}
	if pl.Status == domain.StatusPublished {
		return nil
	}

	// The queued session may predate a token refresh made while loading the
	// library, and Spotify can revoke the refresh token it replaced.
	if stored, err := o.sessions.GetSession(ctx, sess.ID); err == nil {
		sess = stored
	}

	spotifyID, err := o.spotify.PublishPlaylist(ctx, sess, pl.Name, pl.Description, pl.TrackIDs())
	if err != nil {
		// Record the failure even when ctx was cancelled mid-publish.
		if markErr := o.repo.MarkFailed(context.WithoutCancel(ctx), id); markErr != nil {
			o.log.Error("service: failed to mark playlist failed", zap.String("playlist_id", id), zap.Error(markErr))
		}
		return fmt.Errorf("service: failed to publish playlist: %w", err)
	}

	if err := o.repo.MarkPublished(ctx, id, spotifyID); err != nil {
		return fmt.Errorf("service: failed to mark playlist published: %w", err)
	}
	return nil
}

// ParseGoal extracts a race goal from free text.
func (o *Orchestrator) ParseGoal(ctx context.Context, message string) (domain.GoalSpec, error) {
	if o.goals == nil {
		return domain.GoalSpec{}, ErrGoalParserUnavailable
	}
	intent, err := o.goals.ParseGoal(ctx, message)
	if err != nil {
		return domain.GoalSpec{}, fmt.Errorf("service: failed to parse goal: %w", err)
	}
	goal, err := o.ResolveGoal(GenerateRequest{Distance: intent.Distance, GoalMinutes: intent.GoalMinutes})
	if err != nil {
		return domain.GoalSpec{}, fmt.Errorf("service: resolve parsed goal: %w", err)
	}
	return goal, nil
}

// SaveSession stores the credentials from a completed login.
func (o *Orchestrator) SaveSession(ctx context.Context, sess domain.Session) error {
	if err := o.sessions.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("service: failed to save session: %w", err)
	}
	return nil
}

// Profiles returns the configured phase tables.
func (o *Orchestrator) Profiles() []planner.Profile {
	return o.planner.Profiles()
}

func playlistName(goal domain.GoalSpec) string {
	return fmt.Sprintf("Marathon Music - %skm in %dmin",
		strconv.FormatFloat(goal.DistanceKm(), 'f', -1, 64),
		int(math.Round(goal.GoalTime.Minutes())))
}

func playlistDescription(goal domain.GoalSpec) string {
	return fmt.Sprintf("Auto-generated running playlist for %skm at %.1fh pace. BPM-optimized for your cadence.",
		strconv.FormatFloat(goal.DistanceKm(), 'f', -1, 64), goal.GoalTime.Hours())
}
