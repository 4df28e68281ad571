// Package syncer refreshes the local course catalogue from a remote
// instance or the Golestan portal.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"golestoon/pkg/course"
	"golestoon/pkg/credentials"
	"golestoon/pkg/golestan"
	"golestoon/pkg/store"
)

// remoteBackoff is how long the remote catalogue is skipped after it fails.
const remoteBackoff = 15 * time.Minute

// Source names where a sync got its data.
type Source string

const (
	SourceRemote Source = "remote"
	SourcePortal Source = "portal"
	SourceCache  Source = "cache"
)

// Portal is the part of the Golestan client a sync needs.
type Portal interface {
	Login(ctx context.Context, username, password string) error
	FetchCourseReports(ctx context.Context, status golestan.Status) (golestan.Reports, error)
	CachedReports(status golestan.Status) (golestan.Reports, bool)
}

// Remote is a catalogue served by another instance.
type Remote interface {
	FetchOfferings(ctx context.Context) (available, unavailable course.Offerings, err error)
}

// Result summarises a finished sync.
type Result struct {
	Source      Source
	Available   int
	Unavailable int
	At          time.Time
}

// Syncer runs catalogue syncs. It is safe for concurrent use; overlapping
// syncs are serialised.
type Syncer struct {
	Store       *store.Store
	Credentials func() (credentials.Credentials, error)
	NewPortal   func() (Portal, error)
	// Remote is tried before the portal when set.
	Remote Remote
	Status golestan.Status
	// Force skips the report cache.
	Force bool
	Log   zerolog.Logger

	mu              sync.Mutex
	remoteDownUntil time.Time
	now             func() time.Time
}

func (s *Syncer) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Sync fetches the catalogue, saves the course files and stamps last_sync.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	available, unavailable, source, err := s.fetch(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := s.Store.SaveCatalogFiles(available, unavailable); err != nil {
		return Result{}, fmt.Errorf("failed to save course data: %w", err)
	}

	res := Result{Source: source, Available: available.Count(), Unavailable: unavailable.Count(), At: s.clock()}
	data, _, err := s.Store.LoadUserData()
	if err != nil {
		return res, err
	}
	data.LastSync = res.At
	if err := s.Store.SaveUserData(data); err != nil {
		return res, fmt.Errorf("failed to record sync time: %w", err)
	}
	s.Log.Info().Str("source", string(source)).Int("available", res.Available).Int("unavailable", res.Unavailable).Msg("catalogue synced")
	return res, nil
}

func (s *Syncer) fetch(ctx context.Context) (available, unavailable course.Offerings, source Source, err error) {
	if s.Remote != nil && s.clock().After(s.remoteDownUntil) {
		available, unavailable, err = s.Remote.FetchOfferings(ctx)
		if err == nil {
			available, unavailable = keep(available, unavailable, s.Status)
			return available, unavailable, SourceRemote, nil
		}
		if ctx.Err() != nil {
			return nil, nil, "", ctx.Err()
		}
		s.remoteDownUntil = s.clock().Add(remoteBackoff)
		s.Log.Warn().Err(err).Dur("retry_in", remoteBackoff).Msg("remote catalogue failed, using the portal")
	}

	if s.NewPortal == nil {
		return nil, nil, "", errors.New("no catalogue source configured")
	}
	portal, err := s.NewPortal()
	if err != nil {
		return nil, nil, "", err
	}

	source = SourcePortal
	reports, cached := golestan.Reports{}, false
	if !s.Force {
		reports, cached = portal.CachedReports(s.Status)
	}
	if cached {
		source = SourceCache
		s.Log.Debug().Msg("using cached course reports")
	} else {
		creds, err := s.Credentials()
		if err != nil {
			return nil, nil, "", fmt.Errorf("no portal credentials: %w", err)
		}
		if err := portal.Login(ctx, creds.Username, creds.Password); err != nil {
			return nil, nil, "", err
		}
		if reports, err = portal.FetchCourseReports(ctx, s.Status); err != nil {
			return nil, nil, "", err
		}
	}

	if reports.Available != "" {
		if available, err = golestan.ParseCourseReport(reports.Available); err != nil {
			return nil, nil, "", fmt.Errorf("available courses: %w", err)
		}
	}
	if reports.Unavailable != "" {
		if unavailable, err = golestan.ParseCourseReport(reports.Unavailable); err != nil {
			return nil, nil, "", fmt.Errorf("unavailable courses: %w", err)
		}
	}
	return available, unavailable, source, nil
}

// keep drops the list the status did not ask for, so SaveCatalogFiles
// leaves that file alone.
func keep(available, unavailable course.Offerings, status golestan.Status) (course.Offerings, course.Offerings) {
	switch status {
	case golestan.AvailableOnly:
		unavailable = nil
	case golestan.UnavailableOnly:
		available = nil
	}
	return available, unavailable
}

// DueForSync reports whether interval has passed since last. A zero last
// time is always due.
func DueForSync(last time.Time, interval time.Duration, now time.Time) bool {
	if last.IsZero() || interval <= 0 {
		return true
	}
	return !now.Before(last.Add(interval))
}

// Watch syncs when due and then every interval until ctx is cancelled.
// Failures are logged and retried on the next tick.
func (s *Syncer) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", interval)
	}
	log := s.Log.With().Str("component", "sync_watch").Logger()
	log.Info().Dur("interval", interval).Msg("watch started")

	run := func() {
		if _, err := s.Sync(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("sync failed")
		}
	}

	data, _, err := s.Store.LoadUserData()
	if err != nil || DueForSync(data.LastSync, interval, s.clock()) {
		run()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("watch stopped")
			return nil
		case <-ticker.C:
			run()
		}
	}
}
