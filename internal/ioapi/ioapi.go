// Package ioapi serves the exported KPIs over HTTP. It only reads: KPI
// collections from the document store and the objects of explicitly
// allowed buckets from the object store.
package ioapi

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kpilake/kpilake/internal/ioexport"
	"github.com/kpilake/kpilake/internal/iolayer"
	"github.com/kpilake/kpilake/internal/iometrics"
	"github.com/kpilake/kpilake/pkg/store"
)

const (
	notFound     = "Aucune donnée trouvée"
	defaultLimit = 1000
)

// Routes maps KPI endpoints to their collections.
var Routes = []struct {
	Path       string
	Collection string
}{
	{"/api/ca_par_pays", "kpi_ca_par_pays"},
	{"/api/volumes_jour", "kpi_volumes_jour"},
	{"/api/volumes_semaine", "kpi_volumes_semaine"},
	{"/api/volumes_mois", "kpi_volumes_mois"},
	{"/api/croissance", "kpi_croissance"},
	{"/api/distribution", "kpi_distribution"},
}

// Server is the read API.
type Server struct {
	docs    store.DocumentStore
	layer   *iolayer.Layer
	metrics *iometrics.Metrics
	buckets map[string]struct{}
	router  *gin.Engine
}

// New creates a Server. The objects endpoint serves only the given
// buckets and is not registered when objects is nil or no bucket is
// given.
func New(
	docs store.DocumentStore,
	objects store.ObjectStore,
	m *iometrics.Metrics,
	buckets ...string,
) *Server {
	res := &Server{
		docs:    docs,
		metrics: m,
		buckets: make(map[string]struct{}, len(buckets)),
	}
	for _, b := range buckets {
		res.buckets[b] = struct{}{}
	}
	if objects != nil && len(res.buckets) > 0 {
		res.layer = iolayer.New(objects)
	}
	res.router = res.routes()
	return res
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.metrics.Middleware())

	r.GET("/", s.root)
	r.GET("/health", s.health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	for _, v := range Routes {
		r.GET(v.Path, s.collection(v.Collection))
	}
	if s.layer != nil {
		r.GET("/api/objects/:bucket", s.objects)
	}
	return r
}

func (s *Server) root(c *gin.Context) {
	endpoints := make([]string, len(Routes))
	for i, v := range Routes {
		endpoints[i] = v.Path
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Bienvenue sur l'API Data Lake",
		"endpoints": endpoints,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) collection(coll string) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := s.docs.Find(c.Request.Context(), coll)
		if err != nil {
			slog.Error("Cannot read collection", "collection", coll, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		if len(docs) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
			return
		}
		c.JSON(http.StatusOK, clean(docs))
	}
}

type objectError struct {
	Object string `json:"object"`
	Error  string `json:"error"`
}

type objectsResponse struct {
	Bucket  string           `json:"bucket"`
	Columns []string         `json:"columns"`
	Total   int              `json:"total"`
	Rows    []store.Document `json:"rows"`
	Errors  []objectError    `json:"errors"`
}

// objects reads every table of an allowed bucket, optionally filtered by
// the prefix query parameter. Unreadable objects are listed in errors.
func (s *Server) objects(c *gin.Context) {
	bucket := c.Param("bucket")
	if _, ok := s.buckets[bucket]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
		return
	}
	limit := defaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	t, objErrs, err := s.layer.ReadAll(c.Request.Context(), bucket, c.Query("prefix"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}

	docs := ioexport.Documents(t)
	res := objectsResponse{
		Bucket:  bucket,
		Columns: t.ColumnNames(),
		Total:   len(docs),
		Rows:    clean(docs[:min(limit, len(docs))]),
		Errors:  make([]objectError, len(objErrs)),
	}
	for i, e := range objErrs {
		res.Errors[i] = objectError{Object: e.Key, Error: e.Err.Error()}
	}
	c.JSON(http.StatusOK, res)
}

// clean prepares documents for JSON: times become YYYY-MM-DD, NaN and
// infinite floats become null.
func clean(docs []store.Document) []store.Document {
	for _, d := range docs {
		for k, v := range d {
			switch x := v.(type) {
			case time.Time:
				d[k] = x.UTC().Format(time.DateOnly)
			case float64:
				if math.IsNaN(x) || math.IsInf(x, 0) {
					d[k] = nil
				}
			}
		}
	}
	return docs
}

// Serve listens on addr until ctx is cancelled, then shuts the server down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ServeError(addr, err)
	case <-ctx.Done():
	}

	slog.Info("API shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return ServeError(addr, err)
	}
	return nil
}
