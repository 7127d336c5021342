package dev

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/jml-dev/jml/internal/config"
	"github.com/jml-dev/jml/pkg/page"
)

func startWatcher(t *testing.T, dir string) (*Watcher, chan Change) {
	t.Helper()
	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{dir},
		Interval: 20 * time.Millisecond,
	})
	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go watcher.Start(ctx)

	// Wait for initial scan
	time.Sleep(100 * time.Millisecond)
	return watcher, changes
}

func waitChange(t *testing.T, changes chan Change) Change {
	t.Helper()
	select {
	case change := <-changes:
		return change
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}
	return Change{}
}

func TestWatcherModify(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "index.jml")
	if err := os.WriteFile(testFile, []byte(`{"p": "a"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	watcher, changes := startWatcher(t, tmpDir)
	defer watcher.Stop()

	later := time.Now().Add(time.Second)
	if err := os.WriteFile(testFile, []byte(`{"p": "b"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Chtimes(testFile, later, later)

	got := waitChange(t, changes)
	if diff := cmp.Diff(Change{Path: testFile, Type: ChangePage}, got); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcherNewAndRemovedFile(t *testing.T) {
	tmpDir := t.TempDir()
	watcher, changes := startWatcher(t, tmpDir)
	defer watcher.Stop()

	newFile := filepath.Join(tmpDir, "site.css")
	if err := os.WriteFile(newFile, []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := waitChange(t, changes)
	if diff := cmp.Diff(Change{Path: newFile, Type: ChangeCSS}, got); diff != "" {
		t.Errorf("new file mismatch (-want +got):\n%s", diff)
	}

	if err := os.Remove(newFile); err != nil {
		t.Fatal(err)
	}
	got = waitChange(t, changes)
	if diff := cmp.Diff(Change{Path: newFile, Type: ChangeCSS, Removed: true}, got); diff != "" {
		t.Errorf("removed file mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcherIgnore(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Paths:  []string{tmpDir},
		Ignore: []string{"*.bak", "drafts"},
	})

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(tmpDir, "index.jml.bak"), true},
		{filepath.Join(tmpDir, "drafts", "about.jml"), true},
		{filepath.Join(tmpDir, "index.jml"), false},
		{filepath.Join(tmpDir, "draftsman.jml"), false},
	}
	for _, tt := range tests {
		if got := watcher.shouldIgnore(tt.path); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherDefaults(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{Paths: []string{"."}})
	if watcher.config.Interval != 500*time.Millisecond {
		t.Errorf("Interval = %v, want 500ms", watcher.config.Interval)
	}
	if !watcher.shouldIgnore(filepath.Join("site", ".git", "HEAD")) {
		t.Error("default ignore should skip .git")
	}
	if watcher.IsRunning() {
		t.Error("watcher should not be running before Start")
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"pages/index.jml", ChangePage},
		{"pages/about.dom.json", ChangePage},
		{"pages/deck.jml.hcl", ChangePage},
		{"jml.json", ChangeConfig},
		{"public/site.css", ChangeCSS},
		{"public/SITE.CSS", ChangeCSS},
		{"public/logo.png", ChangeAsset},
		{"data.json", ChangeAsset},
	}

	for _, tt := range tests {
		if got := classifyChange(tt.path); got != tt.want {
			t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestCollectWatchPaths(t *testing.T) {
	root := t.TempDir()
	cfg := config.New()
	cfg.Server.Static = "public"
	cfg.Dev.Watch = []string{"pages", "content/../extra"}
	if err := cfg.SaveTo(filepath.Join(root, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(root, "pages"),
		filepath.Join(root, "public"),
		filepath.Join(root, config.ConfigFileName),
		filepath.Join(root, "extra"),
	}
	if diff := cmp.Diff(want, CollectWatchPaths(cfg)); diff != "" {
		t.Errorf("CollectWatchPaths mismatch (-want +got):\n%s", diff)
	}

	cfg.Pages.Bucket = "site-pages"
	cfg.Dev.Watch = nil
	cfg.Server.Static = ""
	want = []string{filepath.Join(root, config.ConfigFileName)}
	if diff := cmp.Diff(want, CollectWatchPaths(cfg)); diff != "" {
		t.Errorf("bucket CollectWatchPaths mismatch (-want +got):\n%s", diff)
	}
}

// dialHub connects a websocket client to hub and waits until it is
// registered.
func dialHub(t *testing.T, hub *ReloadHub) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(hub)
	t.Cleanup(ts.Close)

	before := hub.ClientCount()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + ReloadPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == before {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ReloadMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ReloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestReloadHubBroadcast(t *testing.T) {
	hub := NewReloadHub()
	defer hub.Close()
	a := dialHub(t, hub)
	b := dialHub(t, hub)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("ClientCount = %d, want 2", got)
	}

	hub.NotifyReload()
	hub.NotifyCSS("site.css")
	for _, conn := range []*websocket.Conn{a, b} {
		if diff := cmp.Diff(ReloadMessage{Type: ReloadTypeFull}, readMessage(t, conn)); diff != "" {
			t.Errorf("reload mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(ReloadMessage{Type: ReloadTypeCSS, File: "site.css"}, readMessage(t, conn)); diff != "" {
			t.Errorf("css mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestReloadHubErrorReplay(t *testing.T) {
	hub := NewReloadHub()
	defer hub.Close()

	// Clearing with nothing showing sends nothing.
	hub.ClearError()
	hub.NotifyError("index.jml", "E121: Invalid page JSON")

	late := dialHub(t, hub)
	want := ReloadMessage{Type: ReloadTypeError, Error: "E121: Invalid page JSON"}
	if diff := cmp.Diff(want, readMessage(t, late)); diff != "" {
		t.Errorf("replayed error mismatch (-want +got):\n%s", diff)
	}

	hub.ClearError()
	if diff := cmp.Diff(ReloadMessage{Type: ReloadTypeClear}, readMessage(t, late)); diff != "" {
		t.Errorf("clear mismatch (-want +got):\n%s", diff)
	}
}

func TestReloadHubClientLeaves(t *testing.T) {
	hub := NewReloadHub()
	conn := dialHub(t, hub)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestReloadMessageJSON(t *testing.T) {
	data, err := json.Marshal(ReloadMessage{Type: ReloadTypeFull})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"type":"reload"}`; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

func TestClientScript(t *testing.T) {
	if strings.Contains(ClientScript, "<script") {
		t.Error("ClientScript should not carry its own script tag")
	}
	if !strings.Contains(ClientScript, ReloadPath) {
		t.Errorf("ClientScript should connect to %s", ReloadPath)
	}
}

func newDevSite(t *testing.T, index string) (*config.Config, *Server, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	cfg := config.New()
	cfg.Dev.Interval = "20ms"
	if err := cfg.SaveTo(filepath.Join(root, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.PagesPath(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.PagesPath(), "index.jml"), []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := page.NewDiskStore(cfg.PagesPath())
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	srv := NewServer(cfg, store, Options{
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	return cfg, srv, &logs
}

func TestServerInjectsClient(t *testing.T) {
	_, srv, _ := newDevSite(t, `{"h1": "Home"}`)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<script>"+ClientScript+"</script></body>") {
		t.Errorf("reload client not injected:\n%s", body)
	}
}

func TestServerReloadDisabled(t *testing.T) {
	root := t.TempDir()
	cfg := config.New()
	off := false
	cfg.Dev.Reload = &off
	if err := cfg.SaveTo(filepath.Join(root, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	srv := NewServer(cfg, page.NewS3Store(nil, "unused", ""), Options{})
	if srv.Hub() != nil {
		t.Error("Hub should be nil when reload is disabled")
	}
	for _, s := range srv.Handler().Config().Scripts {
		if s == ClientScript {
			t.Error("reload client injected with reload disabled")
		}
	}
}

func TestServerHandleChange(t *testing.T) {
	cfg, srv, logs := newDevSite(t, `{"h1": "Home"}`)
	conn := dialHub(t, srv.Hub())

	index := filepath.Join(cfg.PagesPath(), "index.jml")
	if err := os.WriteFile(index, []byte("{\n  \"h1\": \"x\",\n  ]\n}"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv.handleChange(Change{Path: index, Type: ChangePage})

	msg := readMessage(t, conn)
	if msg.Type != ReloadTypeError || msg.File != "index.jml" {
		t.Errorf("message = %+v, want error for index.jml", msg)
	}
	if !strings.HasPrefix(msg.Error, index+":3:") || !strings.Contains(msg.Error, "E121") {
		t.Errorf("error text = %q, want location and E121", msg.Error)
	}
	if !strings.Contains(logs.String(), "page error") {
		t.Errorf("expected page error log, got:\n%s", logs.String())
	}

	if err := os.WriteFile(index, []byte(`{"h1": "Fixed"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	srv.handleChange(Change{Path: index, Type: ChangePage})
	if got := readMessage(t, conn).Type; got != ReloadTypeClear {
		t.Errorf("message type = %q, want clear", got)
	}
	if got := readMessage(t, conn).Type; got != ReloadTypeFull {
		t.Errorf("message type = %q, want reload", got)
	}

	srv.handleChange(Change{Path: filepath.Join(cfg.Dir(), "public", "site.css"), Type: ChangeCSS})
	if diff := cmp.Diff(ReloadMessage{Type: ReloadTypeCSS, File: "site.css"}, readMessage(t, conn)); diff != "" {
		t.Errorf("css mismatch (-want +got):\n%s", diff)
	}
}

func TestServerServe(t *testing.T) {
	cfg, srv, _ := newDevSite(t, `{"h1": "Home"}`)

	handled := make(chan Change, 10)
	srv.options.OnChange = func(c Change) { handled <- c }

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	// Wait for the watcher's initial scan
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "<h1>Home</h1>") {
		t.Errorf("body = %s", body)
	}

	about := filepath.Join(cfg.PagesPath(), "about.jml")
	if err := os.WriteFile(about, []byte(`{"p": "About"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Change{Path: about, Type: ChangePage}, waitChange(t, handled)); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
