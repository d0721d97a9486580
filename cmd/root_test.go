package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/session"
	"github.com/theirongolddev/wishjar/internal/store"
	"github.com/theirongolddev/wishjar/internal/store/remotestore"

	"github.com/alicebob/miniredis/v2"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// isolate points config and data at temp dirs and resets global flags.
func isolate(t *testing.T, key, backend string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, env := range []string{config.EnvKey, config.EnvBackend, config.EnvRedisURL, config.EnvPostgresDSN, config.EnvRemoteURL} {
		t.Setenv(env, "")
	}

	oldKey, oldBackend, oldLevel, oldOverwrite := flagKey, flagBackend, flagLogLevel, flagOverwrite
	flagKey, flagBackend, flagLogLevel, flagOverwrite = key, backend, "error", false
	t.Cleanup(func() {
		flagKey, flagBackend, flagLogLevel, flagOverwrite = oldKey, oldBackend, oldLevel, oldOverwrite
	})
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"12", 11, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePosition(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parsePosition(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, model.ErrIndexOutOfRange) {
			t.Fatalf("parsePosition(%q) err = %v, want ErrIndexOutOfRange", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parsePosition(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOpenStoreRequiresConnectionSettings(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()

	cfg.Storage.Backend = store.BackendRedis
	if _, err := openStore(ctx, cfg); err == nil {
		t.Fatal("redis backend opened without a URL")
	}
	cfg.Storage.Backend = store.BackendPostgres
	if _, err := openStore(ctx, cfg); err == nil {
		t.Fatal("postgres backend opened without a DSN")
	}
	cfg.Storage.Backend = store.BackendRemote
	if _, err := openStore(ctx, cfg); err == nil {
		t.Fatal("remote backend opened without a URL")
	}
	cfg.Storage.Backend = "carrier-pigeon"
	if _, err := openStore(ctx, cfg); err == nil {
		t.Fatal("unknown backend opened")
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	isolate(t, "alice", "floppy")
	if _, err := loadConfig(); err == nil {
		t.Fatal("loadConfig accepted an unknown backend")
	}
}

func TestStartSessionNeedsKey(t *testing.T) {
	isolate(t, "", store.BackendMemory)
	if _, err := startSession(context.Background()); !errors.Is(err, model.ErrNoUserKey) {
		t.Fatalf("startSession err = %v, want ErrNoUserKey", err)
	}
}

func TestSQLiteSessionsShareRecords(t *testing.T) {
	isolate(t, "alice", store.BackendSQLite)
	ctx := context.Background()

	first, err := startSession(ctx)
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}
	if _, err := first.ctrl.AddWish("Headphones", 300); err != nil {
		t.Fatalf("AddWish: %v", err)
	}
	if err := first.save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	first.close()

	second, err := startSession(ctx)
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}
	defer second.close()

	rec, err := second.ctrl.Record()
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(rec.Wishes) != 1 || rec.Wishes[0].Name != "Headphones" {
		t.Fatalf("wishes = %+v, want [Headphones]", rec.Wishes)
	}
	if rec.DailySaving != config.DefaultConfig().General.DefaultDailySaving {
		t.Fatalf("DailySaving = %v, want config default", rec.DailySaving)
	}
}

func TestUnreachableStoreDegrades(t *testing.T) {
	isolate(t, "alice", store.BackendRedis)
	sess, err := startSession(context.Background())
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}
	defer sess.close()

	if w := sess.ctrl.Warning(); w == nil || !errors.Is(w, model.ErrPersistenceUnavailable) {
		t.Fatalf("Warning = %v, want persistence unavailable", w)
	}
	if err := sess.save(context.Background()); !errors.Is(err, model.ErrPersistenceUnavailable) {
		t.Fatalf("save err = %v, want ErrPersistenceUnavailable", err)
	}
}

func TestMaskDSN(t *testing.T) {
	got := maskDSN("postgres://user:secret@db/wishjar")
	if got != "postgres://u..." {
		t.Fatalf("maskDSN = %q", got)
	}
}

func testCommand() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func TestAddRefusesToReplaceUnreadRecord(t *testing.T) {
	mr := miniredis.RunT(t)
	isolate(t, "alice", store.BackendRedis)
	t.Setenv(config.EnvRedisURL, "redis://"+mr.Addr())

	const recordKey = "wishjar:record:alice"
	const corrupt = `{"wishes": [{"name": "Bike", "price": 20`
	if err := mr.Set(recordKey, corrupt); err != nil {
		t.Fatal(err)
	}

	err := runAdd(testCommand(), []string{"Hat", "30"})
	if !errors.Is(err, session.ErrUnreadRecord) {
		t.Fatalf("runAdd err = %v, want ErrUnreadRecord", err)
	}
	if got, _ := mr.Get(recordKey); got != corrupt {
		t.Fatalf("stored record = %q, want it untouched", got)
	}

	flagOverwrite = true
	if err := runAdd(testCommand(), []string{"Hat", "30"}); err != nil {
		t.Fatalf("runAdd --overwrite: %v", err)
	}
	got, _ := mr.Get(recordKey)
	if !strings.Contains(got, `"name":"Hat"`) || strings.Contains(got, "Bike") {
		t.Fatalf("stored record = %q, want only Hat", got)
	}
}

func TestRedisTTLIsApplied(t *testing.T) {
	mr := miniredis.RunT(t)
	isolate(t, "alice", store.BackendRedis)
	t.Setenv(config.EnvRedisURL, "redis://"+mr.Addr())

	cfg := config.DefaultConfig()
	cfg.Storage.RedisTTLSec = 60
	if err := config.Save(cfg); err != nil {
		t.Fatalf("config.Save: %v", err)
	}

	if err := runAdd(testCommand(), []string{"Hat", "30"}); err != nil {
		t.Fatalf("runAdd: %v", err)
	}
	if ttl := mr.TTL("wishjar:record:alice"); ttl != time.Minute {
		t.Fatalf("TTL = %v, want 1m", ttl)
	}
}

func TestRemoteSessionPlansOnServer(t *testing.T) {
	planStatus := http.StatusOK
	var gotToday string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/record":
			http.NotFound(w, r)
		case "/v1/plan":
			var req remotestore.PlanRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			gotToday = req.Today
			w.WriteHeader(planStatus)
			_, _ = io.WriteString(w, `{"projections":[{"name":"From server","days":7}],"total_days":7}`)
		}
	}))
	t.Cleanup(srv.Close)

	isolate(t, "alice", store.BackendRemote)
	t.Setenv(config.EnvRemoteURL, srv.URL)

	sess, err := startSession(context.Background())
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}
	defer sess.close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	plan, err := sess.plan(context.Background(), now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Projections) != 1 || plan.Projections[0].Name != "From server" {
		t.Fatalf("plan = %+v, want the server's projection", plan)
	}
	if gotToday != "2026-03-01" {
		t.Fatalf("today sent = %q, want 2026-03-01", gotToday)
	}

	planStatus = http.StatusInternalServerError
	plan, err = sess.plan(context.Background(), now)
	if err != nil {
		t.Fatalf("plan after server failure: %v", err)
	}
	midnight := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	if len(plan.Projections) != 0 || !plan.Today.Equal(midnight) {
		t.Fatalf("fallback plan = %+v, want the local empty plan for %v", plan, midnight)
	}
}
