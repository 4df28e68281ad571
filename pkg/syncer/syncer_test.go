package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"golestoon/pkg/course"
	"golestoon/pkg/credentials"
	"golestoon/pkg/golestan"
	"golestoon/pkg/store"
)

const reportXML = `<Root><row B4="فنی" B6="کامپیوتر" C1="1214032_01" C2="ساختمان داده" C3="3" C12="درس(ت): شنبه 08:00-10:00"/></Root>`

type fakePortal struct {
	cached   *golestan.Reports
	loginErr error
	logins   atomic.Int32
	fetches  atomic.Int32
}

func (p *fakePortal) Login(ctx context.Context, username, password string) error {
	p.logins.Add(1)
	if username != "student" || password != "secret" {
		return golestan.ErrAuthFailed
	}
	return p.loginErr
}

func (p *fakePortal) FetchCourseReports(ctx context.Context, status golestan.Status) (golestan.Reports, error) {
	p.fetches.Add(1)
	return golestan.Reports{Available: reportXML, Unavailable: "<Root/>"}, nil
}

func (p *fakePortal) CachedReports(status golestan.Status) (golestan.Reports, bool) {
	if p.cached == nil {
		return golestan.Reports{}, false
	}
	return *p.cached, true
}

type fakeRemote struct {
	err   error
	calls atomic.Int32
}

func (r *fakeRemote) FetchOfferings(ctx context.Context) (course.Offerings, course.Offerings, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, nil, r.err
	}
	return course.Offerings{"f": {"d": {{Code: "9", Name: "remote"}}}}, course.Offerings{}, nil
}

func newSyncer(t *testing.T, p *fakePortal) *Syncer {
	t.Helper()
	return &Syncer{
		Store: store.New(t.TempDir()),
		Credentials: func() (credentials.Credentials, error) {
			return credentials.Credentials{Username: "student", Password: "secret"}, nil
		},
		NewPortal: func() (Portal, error) { return p, nil },
		Log:       zerolog.Nop(),
	}
}

func TestSyncFromPortal(t *testing.T) {
	p := &fakePortal{}
	s := newSyncer(t, p)

	res, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Source != SourcePortal || res.Available != 1 || res.Unavailable != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if p.logins.Load() != 1 || p.fetches.Load() != 1 {
		t.Errorf("expected one login and fetch, got %d/%d", p.logins.Load(), p.fetches.Load())
	}

	catalog, _, err := s.Store.LoadCatalog(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := catalog["1214032_01"]; !ok {
		t.Errorf("synced course missing from catalogue: %v", catalog.Keys())
	}
	data, _, err := s.Store.LoadUserData()
	if err != nil || data.LastSync.IsZero() {
		t.Errorf("last_sync not stamped: %v %v", data.LastSync, err)
	}
}

func TestSyncUsesCache(t *testing.T) {
	p := &fakePortal{cached: &golestan.Reports{Available: reportXML}}
	s := newSyncer(t, p)

	res, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Source != SourceCache || p.logins.Load() != 0 {
		t.Errorf("expected cached sync without login, got %+v (%d logins)", res, p.logins.Load())
	}

	s.Force = true
	if res, _ := s.Sync(context.Background()); res.Source != SourcePortal {
		t.Errorf("Force should bypass the cache, got %s", res.Source)
	}
}

func TestSyncLoginFailure(t *testing.T) {
	p := &fakePortal{}
	s := newSyncer(t, p)
	s.Credentials = func() (credentials.Credentials, error) {
		return credentials.Credentials{Username: "student", Password: "wrong"}, nil
	}
	if _, err := s.Sync(context.Background()); !errors.Is(err, golestan.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if s.Store.HasCatalog() {
		t.Error("failed sync must not write course files")
	}

	s.Credentials = func() (credentials.Credentials, error) { return credentials.Credentials{}, credentials.ErrNotFound }
	if _, err := s.Sync(context.Background()); !errors.Is(err, credentials.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncPrefersRemote(t *testing.T) {
	p := &fakePortal{}
	s := newSyncer(t, p)
	remote := &fakeRemote{}
	s.Remote = remote

	res, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Source != SourceRemote || p.logins.Load() != 0 {
		t.Errorf("expected remote sync, got %+v", res)
	}
}

func TestSyncFallsBackAndBacksOff(t *testing.T) {
	p := &fakePortal{}
	s := newSyncer(t, p)
	remote := &fakeRemote{err: errors.New("connection refused")}
	s.Remote = remote
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	res, err := s.Sync(context.Background())
	if err != nil || res.Source != SourcePortal {
		t.Fatalf("expected portal fallback, got %+v %v", res, err)
	}

	// Within the back-off window the remote is not tried again.
	now = now.Add(10 * time.Minute)
	s.Force = true
	if _, err := s.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	if remote.calls.Load() != 1 {
		t.Errorf("remote retried during back-off: %d calls", remote.calls.Load())
	}

	now = now.Add(6 * time.Minute)
	remote.err = nil
	if res, _ := s.Sync(context.Background()); res.Source != SourceRemote {
		t.Errorf("remote should be used again after back-off, got %s", res.Source)
	}
}

func TestSyncStatusKeepsOtherFile(t *testing.T) {
	p := &fakePortal{}
	s := newSyncer(t, p)
	s.Remote = &fakeRemote{}
	s.Status = golestan.AvailableOnly

	unavailable := course.Offerings{"x": {"y": {{Code: "old", Name: "old"}}}}
	if err := s.Store.SaveCatalogFiles(nil, unavailable); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, got, err := s.Store.LoadOfferings()
	if err != nil || got.Count() != 1 {
		t.Errorf("unavailable file should be untouched, got %v %v", got, err)
	}
}

func TestDueForSync(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		last time.Time
		want bool
	}{
		{"never synced", time.Time{}, true},
		{"recent", now.Add(-time.Hour), false},
		{"exactly due", now.Add(-6 * time.Hour), true},
		{"overdue", now.Add(-48 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DueForSync(tt.last, 6*time.Hour, now); got != tt.want {
				t.Errorf("DueForSync = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	p := &fakePortal{}
	s := newSyncer(t, p)
	s.Force = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, 20*time.Millisecond) }()

	deadline := time.After(5 * time.Second)
	for p.fetches.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("watch ran only %d syncs", p.fetches.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}

	if err := s.Watch(context.Background(), 0); err == nil {
		t.Error("expected an error for a zero interval")
	}
}
