// Package workspace ties the configuration, the data directory and the
// loaded catalogue together for the command line and the interactive UI.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"golestoon/pkg/api"
	"golestoon/pkg/captcha"
	"golestoon/pkg/config"
	"golestoon/pkg/course"
	"golestoon/pkg/credentials"
	"golestoon/pkg/golestan"
	"golestoon/pkg/planner"
	"golestoon/pkg/store"
	"golestoon/pkg/syncer"
)

// Workspace is the user's data directory with everything loaded.
type Workspace struct {
	Config  *config.AppConfig
	Store   *store.Store
	Data    *store.UserData
	Catalog course.Catalog
	Log     zerolog.Logger
	// Recovered names the backup user data was read from when the main
	// file was missing or corrupt.
	Recovered string
}

// Open loads the user data and catalogue from the configured data directory.
func Open(cfg *config.AppConfig, log zerolog.Logger) (*Workspace, error) {
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	w := &Workspace{Config: cfg, Store: store.New(dir), Log: log}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	if w.Recovered != "" {
		log.Warn().Str("backup", w.Recovered).Msg("user data restored from backup")
	}
	return w, nil
}

// Reload rereads user data and the catalogue from disk.
func (w *Workspace) Reload() error {
	data, recovered, err := w.Store.LoadUserData()
	if err != nil {
		return err
	}
	catalog, renamed, err := w.Store.LoadCatalog(data)
	if err != nil {
		return err
	}
	w.Data, w.Recovered, w.Catalog = data, recovered, catalog
	if len(renamed) == 0 {
		return nil
	}
	for old, nk := range renamed {
		w.Log.Warn().Str("old", old).Str("new", nk).Msg("custom course key taken by a synced course, renamed")
	}
	return w.Save()
}

// Save writes the user data back.
func (w *Workspace) Save() error {
	if err := w.Store.SaveUserData(w.Data); err != nil {
		return fmt.Errorf("failed to save user data: %w", err)
	}
	return nil
}

// Schedule returns the planner view of the current timetable.
func (w *Workspace) Schedule() *planner.Schedule {
	return planner.NewSchedule(w.Catalog, w.Data.CurrentSchedule, w.Data.PriorityList)
}

// Commit copies a schedule back into the user data and saves it.
func (w *Workspace) Commit(s *planner.Schedule) error {
	w.Data.CurrentSchedule = s.Courses
	w.Data.PriorityList = s.Priority
	return w.Save()
}

// Resolve finds a course by key, or by code when the code is unique.
func (w *Workspace) Resolve(ref string) (string, course.Course, error) {
	if c, ok := w.Catalog[ref]; ok {
		return ref, c, nil
	}
	var matches []string
	for k, c := range w.Catalog {
		if c.Code == ref {
			matches = append(matches, k)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], w.Catalog[matches[0]], nil
	case 0:
		return "", course.Course{}, fmt.Errorf("%w: %s", planner.ErrUnknownCourse, ref)
	default:
		return "", course.Course{}, fmt.Errorf("%s matches %d sections, use the course key", ref, len(matches))
	}
}

// Vault returns the credential store of the data directory.
func (w *Workspace) Vault() *credentials.Vault {
	return credentials.New(w.Store.Dir())
}

// NewClient returns a portal client wired to the configured captcha solver,
// report cache and logger.
func (w *Workspace) NewClient() (*golestan.Client, error) {
	solver := captcha.FromConfig(w.Config.CaptchaURL, filepath.Join(w.Store.CacheDir(), "captcha"))
	return golestan.NewClient(w.Config.Portal(), solver,
		golestan.WithLogger(w.Log.With().Str("component", "golestan").Logger()),
		golestan.WithCacheDir(w.Store.CacheDir()),
	)
}

// Syncer returns a catalogue syncer. passphrase unlocks sealed credentials.
func (w *Workspace) Syncer(passphrase string) *syncer.Syncer {
	s := &syncer.Syncer{
		Store: w.Store,
		Credentials: func() (credentials.Credentials, error) {
			return w.Vault().Resolve(passphrase)
		},
		NewPortal: func() (syncer.Portal, error) {
			return w.NewClient()
		},
		Log: w.Log.With().Str("component", "syncer").Logger(),
	}
	if w.Config.RemoteCatalogURL != "" {
		s.Remote = api.NewRemoteCatalog(w.Config.RemoteCatalogURL)
	}
	return s
}
