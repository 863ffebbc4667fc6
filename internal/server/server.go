// Package server exposes a carousel over HTTP and pushes every state change to
// websocket clients.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/carousel/internal/autoplay"
	"github.com/ivlev/carousel/internal/config"
	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/schedule"
	"github.com/ivlev/carousel/internal/source"
	"github.com/ivlev/carousel/internal/viewport"
)

type Options struct {
	Scheduler schedule.Scheduler
	Logger    *zap.Logger
	Focus     int // starting focus
}

type Server struct {
	cfg        *config.Config
	classifier viewport.Classifier
	sched      schedule.Scheduler
	log        *zap.Logger
	router     *gin.Engine
	hub        *Hub
	player     *autoplay.Player

	mu     sync.RWMutex
	eng    *engine.Engine[source.Item]
	cancel func()
}

func New(cfg *config.Config, items []source.Item, opts Options) *Server {
	s := &Server{
		cfg:        cfg,
		classifier: cfg.Classifier(),
		sched:      opts.Scheduler,
		log:        opts.Logger,
	}
	if s.sched == nil {
		s.sched = schedule.Real{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.hub = NewHub(s.log)
	if cfg.Autoplay.Enabled {
		s.player = autoplay.New(s, cfg.Autoplay.Period, s.sched, s.log)
	}
	s.swap(items, opts.Focus)
	s.router = s.routes()
	return s
}

// swap replaces the engine. The old one is closed, never patched.
func (s *Server) swap(items []source.Item, focus int) {
	eo := s.cfg.EngineOptions(s.sched, s.log)
	eo.Focus = focus
	eng := engine.New(items, eo)
	cancel := eng.Subscribe(func(st engine.State) {
		s.hub.Broadcast(Message{Type: "state", State: st, Playing: s.playing()})
	})

	s.mu.Lock()
	old, oldCancel := s.eng, s.cancel
	s.eng, s.cancel = eng, cancel
	s.mu.Unlock()

	if old != nil {
		oldCancel()
		old.Close()
	}
}

// Reload swaps in a new collection and tells clients to refetch
func (s *Server) Reload(items []source.Item) {
	s.swap(items, 0)
	st := s.engine().State()
	s.hub.Broadcast(Message{Type: "reload", State: st, Playing: s.playing()})
	s.log.Info("catalog reloaded", zap.Int("items", st.Count))
}

func (s *Server) engine() *engine.Engine[source.Item] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng
}

// Advance lets autoplay drive whichever engine is current
func (s *Server) Advance(dir engine.Direction) bool {
	return s.engine().Advance(dir)
}

// State returns the current engine state
func (s *Server) State() engine.State {
	return s.engine().State()
}

func (s *Server) playing() bool {
	return s.player != nil && s.player.Playing()
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/carousel", s.getCarousel)
	api.POST("/carousel/next", s.command(func(e *engine.Engine[source.Item]) bool { return e.Advance(engine.Next) }))
	api.POST("/carousel/prev", s.command(func(e *engine.Engine[source.Item]) bool { return e.Advance(engine.Prev) }))
	api.POST("/carousel/jump/:index", s.jump)
	api.POST("/carousel/pause/:reason", s.pause)
	api.POST("/carousel/resume/:reason", s.resume)
	api.GET("/items", s.getItems)
	api.GET("/autoplay", s.getAutoplay)

	r.GET("/ws", s.hub.HandleWebSocket)
	return r
}

func (s *Server) getCarousel(c *gin.Context) {
	width := s.cfg.Storyboard.ViewWidth
	if w := c.Query("width"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a positive integer"})
			return
		}
		width = n
	}

	eng := s.engine()
	slots := s.classifier.SlotCount(width)
	c.JSON(http.StatusOK, gin.H{
		"state":       eng.State(),
		"mode":        s.classifier.Mode(width),
		"slots":       slots,
		"assignments": eng.Assignments(slots),
		"playing":     s.playing(),
	})
}

func (s *Server) command(fn func(*engine.Engine[source.Item]) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		eng := s.engine()
		accepted := fn(eng)
		c.JSON(http.StatusOK, gin.H{"accepted": accepted, "state": eng.State()})
	}
}

func (s *Server) jump(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	s.command(func(e *engine.Engine[source.Item]) bool { return e.JumpTo(index) })(c)
}

func (s *Server) pause(c *gin.Context) {
	if s.player == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "autoplay disabled"})
		return
	}
	s.player.Pause(c.Param("reason"))
	s.autoplayStatus(c)
}

func (s *Server) resume(c *gin.Context) {
	if s.player == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "autoplay disabled"})
		return
	}
	s.player.Resume(c.Param("reason"))
	s.autoplayStatus(c)
}

func (s *Server) getAutoplay(c *gin.Context) {
	if s.player == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	s.autoplayStatus(c)
}

func (s *Server) autoplayStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"enabled": true,
		"playing": s.player.Playing(),
		"reasons": s.player.PauseReasons(),
		"period":  s.player.Period().String(),
		"stats":   s.player.Stats(),
	})
}

func (s *Server) getItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.engine().Items()})
}

// Run serves on cfg.Server.Addr until ctx is done. catalogPath, when set and
// watching is enabled, is reloaded on change.
func (s *Server) Run(ctx context.Context, catalogPath string) error {
	var w *CatalogWatcher
	if catalogPath != "" && s.cfg.Server.WatchCatalog {
		var err error
		if w, err = NewCatalogWatcher(catalogPath, s.Reload, s.log); err != nil {
			s.engine().Close()
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.hub.Run(ctx)
		return nil
	})
	if s.player != nil {
		g.Go(func() error { return s.player.Run(ctx) })
	}
	if w != nil {
		g.Go(func() error { return w.Run(ctx) })
	}

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.router}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	err := g.Wait()
	s.engine().Close()
	return err
}
