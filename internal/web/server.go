// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the read-only summary browser. All state lives in
// the store; requests are independent and read-only.
package web

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-digest/internal/store"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// previewKeyPoints caps the key points shown on a paper card.
const previewKeyPoints = 5

// Server renders stored summaries with date-based browsing.
type Server struct {
	store  store.Store
	cfg    types.WebConfig
	log    *zap.Logger
	loc    *time.Location
	engine *gin.Engine
	srv    *http.Server
}

// NewServer builds the router. The listen address comes from cfg when
// Start is used; tests drive Handler directly.
func NewServer(st store.Store, cfg types.WebConfig, log *zap.Logger) (*Server, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, err
		}
	}

	s := &Server{store: st, cfg: cfg, log: log, loc: loc}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.SetHTMLTemplate(indexTmpl)

	engine.GET("/", s.handleIndex)
	engine.GET("/api/papers", s.handleAPIPapers)
	engine.GET("/api/paper/:id", s.handleAPIPaper)

	s.engine = engine
	return s, nil
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving in the foreground until Shutdown or failure.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("web reader listening", zap.String("addr", s.cfg.Addr))
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// resolveDate parses the date query parameter, falling back to the
// current date in the configured timezone when absent or invalid.
func (s *Server) resolveDate(raw string) string {
	if raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err == nil {
			return raw
		}
		s.log.Warn("invalid date parameter, using today", zap.String("date", raw))
	}
	return time.Now().In(s.loc).Format("2006-01-02")
}

// listForDate fetches a date's records, degrading to an empty listing on
// storage failure so internal errors never reach the browser.
func (s *Server) listForDate(ctx context.Context, date string) []*types.SummaryRecord {
	records, skipped, err := s.store.List(ctx, date)
	if err != nil {
		s.log.Error("listing records failed", zap.String("date", date), zap.Error(err))
		return nil
	}
	if skipped > 0 {
		s.log.Warn("skipped malformed records", zap.String("date", date), zap.Int("skipped", skipped))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Title < records[j].Title })
	return records
}

type dateOption struct {
	Value    string
	Display  string
	Selected bool
}

type paperView struct {
	*types.SummaryRecord
	PreviewPoints []string
}

func (s *Server) handleIndex(c *gin.Context) {
	date := s.resolveDate(c.Query("date"))
	records := s.listForDate(c.Request.Context(), date)

	papers := make([]paperView, 0, len(records))
	for _, rec := range records {
		points := rec.KeyPoints
		if len(points) > previewKeyPoints {
			points = points[:previewKeyPoints]
		}
		papers = append(papers, paperView{SummaryRecord: rec, PreviewPoints: points})
	}

	now := time.Now().In(s.loc)
	recentDays := s.cfg.RecentDays
	if recentDays <= 0 {
		recentDays = 7
	}
	options := make([]dateOption, 0, recentDays)
	for i := 0; i < recentDays; i++ {
		d := now.AddDate(0, 0, -i)
		value := d.Format("2006-01-02")
		options = append(options, dateOption{
			Value:    value,
			Display:  d.Format("Jan 02, 2006"),
			Selected: value == date,
		})
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Date":        date,
		"Papers":      papers,
		"Count":       len(papers),
		"DateOptions": options,
	})
}

func (s *Server) handleAPIPapers(c *gin.Context) {
	date := s.resolveDate(c.Query("date"))
	records := s.listForDate(c.Request.Context(), date)
	if records == nil {
		records = []*types.SummaryRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"papers": records,
		"count":  len(records),
	})
}

func (s *Server) handleAPIPaper(c *gin.Context) {
	date := s.resolveDate(c.Query("date"))
	id := c.Param("id")

	rec, err := s.store.Get(c.Request.Context(), date, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("fetching record failed", zap.String("id", id), zap.Error(err))
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "paper " + id + " not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
