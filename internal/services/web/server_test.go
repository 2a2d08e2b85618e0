package web

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/what2pick/internal/platform/storage/sqlspec"
	"github.com/louisbranch/what2pick/internal/services/picker"
	"github.com/louisbranch/what2pick/internal/services/user"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	store, err := sqlspec.Open(filepath.Join(t.TempDir(), "what2pick.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	users, err := user.NewService(ctx, store)
	if err != nil {
		t.Fatalf("user service: %v", err)
	}
	games, err := picker.NewService(ctx, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("picker service: %v", err)
	}

	ts := httptest.NewServer(New(users, games, zerolog.Nop()).Router())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	res, err := client.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, string(body)
}

func post(t *testing.T, client *http.Client, url, body string) (*http.Response, string) {
	t.Helper()
	res, err := client.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	out, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, string(out)
}

func TestIndexIssuesSession(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	res, body := get(t, client, ts.URL+"/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if !strings.Contains(body, "Playing as") {
		t.Fatalf("expected index page, got %q", body)
	}

	var hasUID, hasSecret bool
	for _, c := range client.Jar.Cookies(mustParseURL(t, ts.URL)) {
		switch c.Name {
		case "uid":
			hasUID = true
		case "pwd":
			hasSecret = true
		}
	}
	if !hasUID || !hasSecret {
		t.Fatal("expected uid and pwd cookies set")
	}
}

func TestIndexKeepsIdentityAcrossRequests(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	_, first := get(t, client, ts.URL+"/")
	_, second := get(t, client, ts.URL+"/")
	if nameFromIndex(t, first) != nameFromIndex(t, second) {
		t.Fatal("expected stable identity across requests")
	}
}

func TestInAppBrowserGetsFallbackPage(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 [FB_IAB/FB4A;FBAV/389]")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if !strings.Contains(string(body), "in-app browser") {
		t.Fatalf("expected fallback page, got %q", body)
	}
	if len(res.Cookies()) != 0 {
		t.Fatal("expected no session cookies for in-app browsers")
	}
}

func TestSetName(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)
	get(t, client, ts.URL+"/")

	res, body := post(t, client, ts.URL+"/setname", `{"name":"Maple Crew"}`)
	if res.StatusCode != http.StatusOK || body != "OK" {
		t.Fatalf("expected OK, got %d %q", res.StatusCode, body)
	}

	_, index := get(t, client, ts.URL+"/")
	if nameFromIndex(t, index) != "Maple Crew" {
		t.Fatalf("expected renamed identity, got %q", nameFromIndex(t, index))
	}
}

func TestCreateGameRedirects(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	get(t, client, ts.URL+"/")

	res, _ := get(t, client, ts.URL+"/p")
	if res.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", res.StatusCode)
	}
	location := res.Header.Get("Location")
	if !strings.HasPrefix(location, "/p/") || len(location) <= len("/p/") {
		t.Fatalf("expected game location, got %q", location)
	}
}

func TestUnknownGameRedirectsToFreshGame(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	get(t, client, ts.URL+"/")

	res, _ := get(t, client, ts.URL+"/p/no-such-game")
	if res.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", res.StatusCode)
	}
	if res.Header.Get("Location") == "/p/no-such-game" {
		t.Fatal("expected redirect to a fresh game id")
	}
}

func TestSoloGameRound(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)
	get(t, client, ts.URL+"/")

	res, body := get(t, client, ts.URL+"/p")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected game page, got %d", res.StatusCode)
	}
	gid := gameIDFromURL(t, res.Request.URL.Path)
	if !strings.Contains(body, "Add option") {
		t.Fatalf("expected add gate for creator, got %q", body)
	}

	if res, out := post(t, client, ts.URL+"/p/"+gid+"/add", `{"option":"sushi"}`); res.StatusCode != http.StatusOK {
		t.Fatalf("add failed: %d %q", res.StatusCode, out)
	}
	if res, out := post(t, client, ts.URL+"/p/"+gid+"/sel", `{}`); res.StatusCode != http.StatusOK {
		t.Fatalf("select failed: %d %q", res.StatusCode, out)
	}

	_, page := get(t, client, ts.URL+"/p/"+gid)
	if !strings.Contains(page, "Decided!") || !strings.Contains(page, "sushi") {
		t.Fatalf("expected decided page with winner, got %q", page)
	}
}

func TestActionErrorsMapToStatus(t *testing.T) {
	ts := newTestServer(t)

	alice := newClient(t)
	get(t, alice, ts.URL+"/")
	res, _ := get(t, alice, ts.URL+"/p")
	gid := gameIDFromURL(t, res.Request.URL.Path)
	if res, out := post(t, alice, ts.URL+"/p/"+gid+"/add", `{"option":"sushi"}`); res.StatusCode != http.StatusOK {
		t.Fatalf("add failed: %d %q", res.StatusCode, out)
	}

	bob := newClient(t)
	get(t, bob, ts.URL+"/")
	get(t, bob, ts.URL+"/p/"+gid)

	if res, _ := post(t, bob, ts.URL+"/p/"+gid+"/add", `{"option":"spam"}`); res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for out-of-turn add, got %d", res.StatusCode)
	}
	if res, _ := post(t, alice, ts.URL+"/p/"+gid+"/del", `{"option":99}`); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad index, got %d", res.StatusCode)
	}
	if res, _ := post(t, bob, ts.URL+"/p/"+gid+"/adm_skip", `{}`); res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin skip, got %d", res.StatusCode)
	}
}

func TestPollUnknownGame(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	res, _ := get(t, client, ts.URL+"/p/no-such-game/poll")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestPollWakesOnChange(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)
	get(t, client, ts.URL+"/")
	res, _ := get(t, client, ts.URL+"/p")
	gid := gameIDFromURL(t, res.Request.URL.Path)

	type pollResult struct {
		status int
		body   string
	}
	done := make(chan pollResult, 1)
	go func() {
		res, body := get(t, client, ts.URL+"/p/"+gid+"/poll")
		done <- pollResult{status: res.StatusCode, body: body}
	}()

	// Give the poll a moment to register before mutating.
	time.Sleep(50 * time.Millisecond)
	if res, out := post(t, client, ts.URL+"/p/"+gid+"/add", `{"option":"sushi"}`); res.StatusCode != http.StatusOK {
		t.Fatalf("add failed: %d %q", res.StatusCode, out)
	}

	select {
	case result := <-done:
		if result.status != http.StatusOK || result.body != "reload" {
			t.Fatalf("expected reload, got %d %q", result.status, result.body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poll never woke")
	}
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func nameFromIndex(t *testing.T, body string) string {
	t.Helper()
	const marker = `id="current-username">`
	start := strings.Index(body, marker)
	if start < 0 {
		t.Fatalf("no username marker in %q", body)
	}
	rest := body[start+len(marker):]
	end := strings.Index(rest, "<")
	if end < 0 {
		t.Fatalf("unterminated username in %q", body)
	}
	return rest[:end]
}

func gameIDFromURL(t *testing.T, path string) string {
	t.Helper()
	gid := strings.TrimPrefix(path, "/p/")
	if gid == "" || gid == path {
		t.Fatalf("no game id in %q", path)
	}
	return gid
}
