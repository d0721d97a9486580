package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/pipeline"
	"github.com/theirongolddev/wishjar/internal/store"
)

const maxBodySize = 1 << 20 // 1 MB

// PlanRequest is the body of POST /v1/plan. Today is optional (YYYY-MM-DD).
type PlanRequest struct {
	Wishes         []model.Wish `json:"wishes"`
	CurrentBalance float64      `json:"current_balance"`
	DailySaving    float64      `json:"daily_saving"`
	Today          string       `json:"today,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Handler builds the gin engine with every route registered.
func (s *Service) Handler() http.Handler {
	if s.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	v1.GET("/record", s.requireKey, s.handleGetRecord)
	v1.PUT("/record", s.requireKey, s.handlePutRecord)
	v1.POST("/plan", s.handlePlan)
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)
	v1.GET("/status", s.handleStatus)

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Service) requireKey(c *gin.Context) {
	key := model.NormalizeKey(c.GetHeader(KeyHeader))
	if key == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
			Error: model.ErrNoUserKey.Error(),
			Kind:  "no_user_key",
		})
		return
	}
	c.Set("userKey", key)
	c.Next()
}

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleGetRecord(c *gin.Context) {
	key := c.GetString("userKey")

	unlock := s.lockKey(key)
	rec, err := s.store.Fetch(c.Request.Context(), key)
	unlock()

	s.noteFetch()
	if err != nil {
		s.unavailable(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no record for key", Kind: "not_found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Service) handlePutRecord(c *gin.Context) {
	key := c.GetString("userKey")

	var rec model.SavingsRecord
	if err := decodeBody(c, &rec); err != nil {
		badRequest(c, err)
		return
	}
	if rec.UserKey != "" && model.NormalizeKey(rec.UserKey) != key {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "record key does not match header", Kind: "key_mismatch"})
		return
	}
	rec.UserKey = key
	if rec.Wishes == nil {
		rec.Wishes = []model.Wish{}
	}
	if err := model.ValidateRecord(rec); err != nil {
		badRequest(c, err)
		return
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now().UTC()
	}

	unlock := s.lockKey(key)
	err := s.store.Upsert(c.Request.Context(), rec)
	unlock()

	if err != nil {
		s.unavailable(c, err)
		return
	}
	s.noteSave(rec)
	c.Status(http.StatusNoContent)
}

func (s *Service) handlePlan(c *gin.Context) {
	var req PlanRequest
	if err := decodeBody(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	today := s.now()
	if req.Today != "" {
		t, err := time.ParseInLocation("2006-01-02", req.Today, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "today must be YYYY-MM-DD", Kind: "bad_request"})
			return
		}
		today = t
	}

	plan, err := pipeline.Project(req.Wishes, req.CurrentBalance, req.DailySaving, today)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Service) handleEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotEvents())
}

func (s *Service) handleStatus(c *gin.Context) {
	st := s.snapshotStatus()
	if counter, ok := s.store.(store.Counter); ok {
		if n, err := counter.Count(c.Request.Context()); err == nil {
			st.Records = &n
		} else {
			s.logger.Warn("counting records failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, st)
}

func (s *Service) handleStream(c *gin.Context) {
	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev := <-ch:
			c.SSEvent(ev.Type, ev)
			return true
		}
	})
}

func (s *Service) unavailable(c *gin.Context, err error) {
	s.noteError(err)
	s.logger.Warn("store call failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusServiceUnavailable, errorResponse{
		Error: model.ErrPersistenceUnavailable.Error(),
		Kind:  "persistence_unavailable",
	})
}

func decodeBody(c *gin.Context, v any) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.New("malformed JSON body")
	}
	return nil
}

func badRequest(c *gin.Context, err error) {
	kind := "bad_request"
	switch {
	case errors.Is(err, model.ErrInvalidWish):
		kind = "invalid_wish"
	case errors.Is(err, model.ErrInvalidConfig):
		kind = "invalid_config"
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kind})
}
