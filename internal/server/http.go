package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/kube"
	"github.com/kubedeck/kubedeck/internal/logging"
)

// Server is the HTTP front door for the desktop UI.
type Server struct {
	sc     *ServerContext
	engine *gin.Engine
}

// NewServer builds the router on top of sc.
func NewServer(sc *ServerContext) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{sc: sc, engine: engine}
	s.registerRoutes()
	return s
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/metrics", gin.WrapH(instrumentation.Handler()))
	s.engine.GET("/ws/events", s.handleEventsFeed)

	api := s.engine.Group("/api/v1", s.measure())
	api.GET("/contexts", s.handleListContexts)

	api.GET("/resources", s.handleListResources)
	api.GET("/resource", s.handleGetResourceDetail)
	api.DELETE("/resource", s.handleDeleteResource)
	api.POST("/deployments/restart", s.handleRolloutRestart)
	api.GET("/crds/groups", s.handleListCrdGroups)

	api.POST("/watches", s.handleStartWatch)
	api.DELETE("/watches/:id", s.handleStopWatch)

	api.GET("/clusters/overview", s.handleClusterOverview)
	api.GET("/clusters/stats", s.handleClusterStats)

	api.GET("/kubeconfig", s.handleGetKubeconfigPath)
	api.PUT("/kubeconfig", s.handleSetKubeconfigPath)

	api.POST("/terminals", s.handleCreateTerminal)
	api.POST("/terminals/:id/input", s.handleTerminalInput)
	api.DELETE("/terminals/:id", s.handleCloseTerminal)
}

// measure records request counts and latency per route.
func (s *Server) measure() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		instrumentation.APIRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		instrumentation.APIRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.sc.Config().ListenAddr,
		Handler: s.engine,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.sc.Logger().Info("http server listening", logging.Host(srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderError maps the error taxonomy onto HTTP status codes: configuration
// and connection failures are upstream problems, API server errors keep their
// own status, and anything unrecognized is a 500.
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case kube.IsConfigError(err), kube.IsConnectionError(err):
		status = http.StatusBadGateway
	case apierrors.IsBadRequest(err):
		status = http.StatusBadRequest
	case apierrors.IsNotFound(err):
		status = http.StatusNotFound
	case apierrors.IsForbidden(err):
		status = http.StatusForbidden
	case apierrors.IsUnauthorized(err):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		s.sc.Logger().Error("request failed", logging.SanitizedErr(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) clientFor(c *gin.Context) (*kube.Client, bool) {
	client, err := s.sc.Provider().ClientFor(c.Request.Context(), c.Query("context"))
	if err != nil {
		s.renderError(c, err)
		return nil, false
	}
	return client, true
}

func (s *Server) handleListContexts(c *gin.Context) {
	contexts, err := s.sc.Provider().KubeContexts()
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contexts": contexts})
}

func (s *Server) handleListResources(c *gin.Context) {
	client, ok := s.clientFor(c)
	if !ok {
		return
	}
	items, err := client.List(c.Request.Context(), c.Query("kind"), c.Query("namespace"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": kube.MarshalItems(s.sc.Logger(), items)})
}

func (s *Server) handleGetResourceDetail(c *gin.Context) {
	client, ok := s.clientFor(c)
	if !ok {
		return
	}
	detail, err := client.GetDetail(c.Request.Context(), c.Query("kind"), c.Query("name"), c.Query("namespace"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleDeleteResource(c *gin.Context) {
	client, ok := s.clientFor(c)
	if !ok {
		return
	}
	err := client.Delete(c.Request.Context(), c.Query("kind"), c.Query("name"), c.Query("namespace"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type rolloutRestartRequest struct {
	Context   string `json:"context"`
	Name      string `json:"name" binding:"required"`
	Namespace string `json:"namespace" binding:"required"`
}

func (s *Server) handleRolloutRestart(c *gin.Context) {
	var req rolloutRestartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := s.sc.Provider().ClientFor(c.Request.Context(), req.Context)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if err := client.RolloutRestartDeployment(c.Request.Context(), req.Name, req.Namespace); err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListCrdGroups(c *gin.Context) {
	client, ok := s.clientFor(c)
	if !ok {
		return
	}
	groups, err := client.ListCrdGroups(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type startWatchRequest struct {
	Context   string `json:"context"`
	Kind      string `json:"kind" binding:"required"`
	Namespace string `json:"namespace"`
}

func (s *Server) handleStartWatch(c *gin.Context) {
	var req startWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := s.sc.Provider().ClientFor(c.Request.Context(), req.Context)
	if err != nil {
		s.renderError(c, err)
		return
	}
	watchID, err := s.sc.Watches().Start(req.Kind, req.Namespace, client.Conn())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"watchId": watchID})
}

func (s *Server) handleStopWatch(c *gin.Context) {
	s.sc.Watches().Stop(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClusterOverview(c *gin.Context) {
	client, ok := s.clientFor(c)
	if !ok {
		return
	}
	overview, err := client.ClusterOverview(c.Request.Context(), c.Query("context"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleClusterStats(c *gin.Context) {
	client, ok := s.clientFor(c)
	if !ok {
		return
	}
	stats, err := client.ClusterStats(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleGetKubeconfigPath(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"path": s.sc.Provider().KubeconfigPath()})
}

type setKubeconfigRequest struct {
	Path string `json:"path"`
}

// handleSetKubeconfigPath switches the active kubeconfig. The provider drops
// every pooled connection so no stale-context handle survives the change.
func (s *Server) handleSetKubeconfigPath(c *gin.Context) {
	var req setKubeconfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.sc.Provider().SetKubeconfigPath(req.Path)
	s.sc.Logger().Info("active kubeconfig changed", logging.Host(req.Path))
	c.Status(http.StatusNoContent)
}

type createTerminalRequest struct {
	Shell   string `json:"shell"`
	Context string `json:"context"`
}

func (s *Server) handleCreateTerminal(c *gin.Context) {
	var req createTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shell := req.Shell
	if shell == "" {
		shell = s.sc.Config().DefaultShell
	}
	sessionID, err := s.sc.Terminals().Create(shell, req.Context, s.sc.Provider().KubeconfigPath())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}

type terminalInputRequest struct {
	Data string `json:"data" binding:"required"`
}

func (s *Server) handleTerminalInput(c *gin.Context) {
	var req terminalInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.sc.Terminals().Write(c.Param("id"), []byte(req.Data)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCloseTerminal(c *gin.Context) {
	s.sc.Terminals().Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}
