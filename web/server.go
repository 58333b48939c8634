// ABOUTME: JSON API server for reports and dashboards
// ABOUTME: Envelope responses, lenient query parsing, read-only endpoints
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/auth"
)

const defaultWindowDays = 30

type Server struct {
	engine *analytics.Engine
	mux    *http.ServeMux
}

func NewServer(engine *analytics.Engine) *Server {
	s := &Server{
		engine: engine,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /api/report", s.handleReport)
	s.mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return withRequestID(withLogging(withTimeout(s.mux)))
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting analytics API at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// envelope is the fixed response shape: exactly one of Data and Error
// is set.
type envelope struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

func writeData(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, envelope{Data: v})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: &msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: encoding response: %v", err)
	}
}

// handleContextError detects request cancellation and timeout. It does
// not write a response; http.TimeoutHandler owns the 503 and writing
// here would race its buffered writer.
func handleContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vis := auth.VisibilityFor(auth.UserFromRequest(r), auth.ActionViewReports)

	report, err := s.engine.BuildReport(r.Context(), analytics.ReportParams{
		Window:  s.parseWindow(q.Get("start_date"), q.Get("end_date")),
		GroupBy: analytics.ParseGranularity(q.Get("group_by")),
		Vis:     vis,
	})
	if err != nil {
		if handleContextError(err) {
			return
		}
		log.Printf("report failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeData(w, report)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	vis := auth.VisibilityFor(auth.UserFromRequest(r), auth.ActionViewDashboard)

	dashboard, err := s.engine.BuildDashboard(r.Context(), analytics.DashboardParams{Vis: vis})
	if err != nil {
		if handleContextError(err) {
			return
		}
		log.Printf("dashboard failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate dashboard")
		return
	}
	writeData(w, dashboard)
}

// parseWindow turns start_date/end_date query values into a half-open
// window in the reference timezone. The end date is inclusive, so the
// window extends to the start of the following day. Missing or
// malformed values fall back leniently to the trailing 30 days; the
// report surface never rejects a date.
func (s *Server) parseWindow(startStr, endStr string) analytics.Window {
	loc := s.engine.Location()
	w := analytics.LastNDays(time.Now(), defaultWindowDays, loc)

	if t, err := time.ParseInLocation("2006-01-02", startStr, loc); err == nil {
		w.Start = t
	}
	if t, err := time.ParseInLocation("2006-01-02", endStr, loc); err == nil {
		w.End = t.AddDate(0, 0, 1)
	}
	if !w.Start.Before(w.End) {
		return analytics.LastNDays(time.Now(), defaultWindowDays, loc)
	}
	return w
}
