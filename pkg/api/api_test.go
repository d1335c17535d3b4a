package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/layout"
)

func quietLogger() *log.Logger { return log.New(&bytes.Buffer{}) }

// newTestBoard returns a 3x3 board of 10-unit cells with cell 4 marked.
func newTestBoard() *board.Board {
	g := layout.New(3, 3, layout.Vec2{X: 10, Y: 10}, layout.WithLogger(quietLogger()))
	b := board.New(g, board.WithLogger(quietLogger()))
	b.ToggleIndex(4)
	return b
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, NewHandler(newTestBoard(), quietLogger()), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("Server") == "" {
		t.Error("Server header not set")
	}
}

func TestGetBoard(t *testing.T) {
	rec := get(t, NewHandler(newTestBoard(), quietLogger()), "/board")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body BoardResponse
	decode(t, rec, &body)

	if body.Columns != 3 || body.Rows != 3 || body.Capacity != 9 || len(body.Cells) != 9 {
		t.Errorf("board = %dx%d capacity %d cells %d", body.Columns, body.Rows, body.Capacity, len(body.Cells))
	}
	if len(body.Marked) != 1 || body.Marked[0] != 4 {
		t.Errorf("marked = %v, want [4]", body.Marked)
	}
	if body.Bounds.Max != (layout.Vec2{X: 30, Y: 30}) {
		t.Errorf("bounds = %+v", body.Bounds)
	}
	if c := body.Cells[5]; c.Column != 2 || c.Row != 1 || c.Address != "c2" {
		t.Errorf("cell 5 = %+v", c)
	}
}

func TestGetMarkedEmpty(t *testing.T) {
	b := newTestBoard()
	b.ToggleIndex(4)

	rec := get(t, NewHandler(b, quietLogger()), "/marked")
	if got := rec.Body.String(); got != "{\"marked\":[]}\n" {
		t.Errorf("body = %q, want empty array", got)
	}
}

func TestGetCell(t *testing.T) {
	h := NewHandler(newTestBoard(), quietLogger())

	tests := []struct {
		path       string
		wantStatus int
		wantIndex  int
		wantCode   errors.Code
	}{
		{"/cells/4", http.StatusOK, 4, ""},
		{"/cells/b2", http.StatusOK, 4, ""},
		{"/cells/B2", http.StatusOK, 4, ""},
		{"/cells/0", http.StatusOK, 0, ""},
		{"/cells/9", http.StatusNotFound, 0, errors.ErrCodeNotFound},
		{"/cells/-1", http.StatusNotFound, 0, errors.ErrCodeNotFound},
		{"/cells/z9", http.StatusNotFound, 0, errors.ErrCodeNotFound},
		{"/cells/a0", http.StatusBadRequest, 0, errors.ErrCodeInvalidAddress},
		{"/cells/abc", http.StatusBadRequest, 0, errors.ErrCodeInvalidAddress},
		{"/cells/11", http.StatusNotFound, 0, errors.ErrCodeNotFound},
		{"/addresses/11", http.StatusOK, 0, ""},
		{"/addresses/22", http.StatusOK, 4, ""},
		{"/addresses/b2", http.StatusOK, 4, ""},
		{"/addresses/d1", http.StatusNotFound, 0, errors.ErrCodeNotFound},
		{"/addresses/4", http.StatusBadRequest, 0, errors.ErrCodeInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				var e ErrorResponse
				decode(t, rec, &e)
				if e.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", e.Code, tt.wantCode)
				}
				return
			}
			var c board.Cell
			decode(t, rec, &c)
			if c.Index != tt.wantIndex {
				t.Errorf("index = %d, want %d", c.Index, tt.wantIndex)
			}
			if c.Marked != (tt.wantIndex == 4) {
				t.Errorf("marked = %v", c.Marked)
			}
		})
	}
}

func TestHit(t *testing.T) {
	b := newTestBoard()
	h := NewHandler(b, quietLogger())

	tests := []struct {
		query      string
		wantStatus int
		wantIndex  int
	}{
		{"?x=15&y=15", http.StatusOK, 4},
		{"?x=0&y=0", http.StatusOK, 0},
		{"?x=10&y=0", http.StatusOK, 1},
		{"?x=30&y=30", http.StatusOK, layout.Invalid},
		{"?x=-1&y=5", http.StatusOK, layout.Invalid},
		{"?x=a&y=1", http.StatusBadRequest, 0},
		{"", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, h, "/hit"+tt.query)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var body HitResponse
			decode(t, rec, &body)
			if body.Index != tt.wantIndex {
				t.Errorf("index = %d, want %d", body.Index, tt.wantIndex)
			}
			if (body.Cell != nil) != (tt.wantIndex != layout.Invalid) {
				t.Errorf("cell = %+v", body.Cell)
			}
		})
	}

	if !b.IsMarked(4) || len(b.Marked()) != 1 {
		t.Error("hit must not toggle cells")
	}
}

func TestNotFoundRoute(t *testing.T) {
	rec := get(t, NewHandler(newTestBoard(), quietLogger()), "/toggle/b2")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestReadOnly(t *testing.T) {
	h := NewHandler(newTestBoard(), quietLogger())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/board", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /board status = %d, want 405", rec.Code)
	}
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addrc := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", newTestBoard(), quietLogger(), func(a net.Addr) { addrc <- a })
	}()

	var addr net.Addr
	select {
	case addr = <-addrc:
	case err := <-done:
		t.Fatalf("Serve exited early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}

func TestServeBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	err = Serve(context.Background(), ln.Addr().String(), newTestBoard(), quietLogger(), nil)
	if !errors.Is(err, errors.ErrCodeBind) {
		t.Errorf("Serve on busy port error = %v, want %s", err, errors.ErrCodeBind)
	}
}
