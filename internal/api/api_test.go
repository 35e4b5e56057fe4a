package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/roamshare/internal/noteservice"
	"github.com/starford/roamshare/internal/testutil"
)

// testEnv sets up a temp note directory, service, and router for testing.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string, notes map[string]string) http.Handler {
	t.Helper()
	_, store := testutil.TestVault(t, notes)
	svc := noteservice.NewService(store, nil)
	return NewRouter(svc, authToken != "", authToken)
}

var sampleNotes = map[string]string{
	"A.md":       "[Click here]([[B]]) and [[C]]",
	"B.md":       "see [[My Note]]",
	"C.md":       "c",
	"My Note.md": "^^deep^^",
}

func TestDiscoverEndpoint(t *testing.T) {
	router := testEnv(t, "", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/discover?seed=A&depth=2&exclude=C", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("discover status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp Discovery
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"A.md", "B.md", "My Note.md"}, resp.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
	if len(resp.Waves) != 2 {
		t.Errorf("waves = %+v", resp.Waves)
	}
}

func TestDiscoverEndpoint_BadInput(t *testing.T) {
	router := testEnv(t, "", sampleNotes)

	for _, target := range []string{
		"/discover?depth=1",
		"/discover?seed=A",
		"/discover?seed=A&depth=",
		"/discover?seed=A&depth=x",
		"/discover?seed=A&depth=-1",
		"/discover?seed=A&depth=1&drop_empty=maybe",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestDiscoverEndpoint_MissingSeed(t *testing.T) {
	router := testEnv(t, "", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/discover?seed=Nope&depth=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRewriteEndpoint(t *testing.T) {
	router := testEnv(t, "", nil)

	body, _ := json.Marshal(map[string]any{
		"content":  "[Click here]([[B]]) and [[C]] __x__",
		"prefix":   "notes",
		"exported": []string{"A", "B.md"},
	})
	req := httptest.NewRequest(http.MethodPost, "/rewrite", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("rewrite status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RewriteResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Content != "[Click here](notes/b) and C _x_" {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestRewriteEndpoint_NoPrefixIsPassThrough(t *testing.T) {
	router := testEnv(t, "", nil)

	body, _ := json.Marshal(map[string]any{"content": "[[B]] __x__", "exported": []string{"B"}})
	req := httptest.NewRequest(http.MethodPost, "/rewrite", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp RewriteResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Content != "[[B]] __x__" {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestRewriteEndpoint_InvalidBody(t *testing.T) {
	router := testEnv(t, "", nil)

	for _, body := range []string{"{not json", `{"content": ""}`} {
		req := httptest.NewRequest(http.MethodPost, "/rewrite", bytes.NewReader([]byte(body)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestRewriteEndpoint_BodyTooLarge(t *testing.T) {
	router := testEnv(t, "", nil)

	big := bytes.Repeat([]byte("a"), maxBodyBytes+1)
	body := append(append([]byte(`{"content": "`), big...), []byte(`"}`)...)
	req := httptest.NewRequest(http.MethodPost, "/rewrite", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestGetNote(t *testing.T) {
	router := testEnv(t, "", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/notes/A", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var resp NoteResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Content != sampleNotes["A.md"] {
		t.Errorf("content = %q", resp.Content)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes/A.md?prefix=notes&exported=A&exported=B", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Content != "[Click here](notes/b) and C" {
		t.Errorf("rewritten content = %q", resp.Content)
	}
}

func TestGetNote_EncodedName(t *testing.T) {
	router := testEnv(t, "", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/notes/My%20Note.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
}

func TestListNotesEndpoint(t *testing.T) {
	router := testEnv(t, "", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var notes []struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(w.Body).Decode(&notes); err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, n := range notes {
		paths = append(paths, n.Path)
	}
	if diff := cmp.Diff([]string{"A.md", "B.md", "C.md", "My Note.md"}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	router := testEnv(t, "", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/notes/missing.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := testEnv(t, "secret123", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/discover?seed=A&depth=1", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed discover = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := testEnv(t, "secret123", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/discover?seed=A&depth=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate challenge")
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	router := testEnv(t, "secret123", sampleNotes)

	req := httptest.NewRequest(http.MethodGet, "/notes/A", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}
