// Package api serves a read-only HTTP view of a board.
//
// Routes:
//
//	GET /healthz         liveness and version
//	GET /board           dimensions, bounds and every cell
//	GET /marked          indices of marked cells
//	GET /cells/{cell}    one cell, by index ("7") or address ("b2")
//	GET /addresses/{a}   one cell, always decoded as an address
//	GET /hit?x=..&y=..   the cell containing a point, without toggling it
//
// A purely numeric {cell} is read as an index, so digit-only addresses such
// as "11" are reachable through /addresses only.
//
// Errors are JSON objects carrying the message and the pkg/errors code.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/buildinfo"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/layout"
)

const shutdownTimeout = 5 * time.Second

// =============================================================================
// Responses
// =============================================================================

// BoardResponse is the body of GET /board.
type BoardResponse struct {
	Columns  int          `json:"columns"`
	Rows     int          `json:"rows"`
	Capacity int          `json:"capacity"`
	CellSize layout.Vec2  `json:"cell_size"`
	Bounds   layout.Rect  `json:"bounds"`
	Marked   []int        `json:"marked"`
	Cells    []board.Cell `json:"cells"`
}

// HitResponse is the body of GET /hit.
type HitResponse struct {
	Point layout.Vec2 `json:"point"`
	Index int         `json:"index"`
	Cell  *board.Cell `json:"cell,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// =============================================================================
// Handler
// =============================================================================

type handler struct {
	board  *board.Board
	logger *log.Logger
}

// NewHandler returns the router for b.
func NewHandler(b *board.Board, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &handler{board: b, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	r.Get("/healthz", h.health)
	r.Get("/board", h.getBoard)
	r.Get("/marked", h.getMarked)
	r.Get("/cells/{cell}", h.getCell)
	r.Get("/addresses/{address}", h.getAddress)
	r.Get("/hit", h.hit)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (h *handler) getBoard(w http.ResponseWriter, r *http.Request) {
	cells := h.board.Cells()
	writeJSON(w, http.StatusOK, BoardResponse{
		Columns:  h.board.Columns(),
		Rows:     h.board.Rows(),
		Capacity: len(cells),
		CellSize: h.board.CellSize(),
		Bounds:   h.board.Bounds(),
		Marked:   nonNil(h.board.Marked()),
		Cells:    cells,
	})
}

func (h *handler) getMarked(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]int{"marked": nonNil(h.board.Marked())})
}

func (h *handler) getCell(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "cell")
	if n, err := strconv.Atoi(ref); err == nil {
		h.writeCell(w, ref, n)
		return
	}
	h.writeAddress(w, ref)
}

func (h *handler) getAddress(w http.ResponseWriter, r *http.Request) {
	h.writeAddress(w, chi.URLParam(r, "address"))
}

func (h *handler) writeAddress(w http.ResponseWriter, ref string) {
	col, row, ok := board.DecodeAddress(ref)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidAddress, "%q is not a valid address", ref))
		return
	}
	index := h.board.Index(col, row)
	if index == layout.Invalid {
		writeError(w, errors.New(errors.ErrCodeNotFound, "address %s is outside the board", ref))
		return
	}
	h.writeCell(w, ref, index)
}

func (h *handler) writeCell(w http.ResponseWriter, ref string, index int) {
	cell, ok := h.board.Cell(index)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "cell %s is outside the board", ref))
		return
	}
	writeJSON(w, http.StatusOK, cell)
}

func (h *handler) hit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}

	p := layout.Vec2{X: x, Y: y}
	resp := HitResponse{Point: p, Index: h.board.CellAt(p)}
	if resp.Index != layout.Invalid {
		if c, ok := h.board.Cell(resp.Index); ok {
			resp.Cell = &c
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Encoding
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidAddress:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

// =============================================================================
// Server
// =============================================================================

// Serve listens on addr and serves NewHandler(b) until ctx is cancelled,
// then shuts down gracefully. ready, if non-nil, receives the bound address.
func Serve(ctx context.Context, addr string, b *board.Board, logger *log.Logger, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBind, err, "listen on %s", addr)
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{
		Handler:           NewHandler(b, logger),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "http server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "http shutdown")
		}
		return nil
	}
}
