package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"RoboticsDaily/internal/apperr"
	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/infrastructure/snapshot"
	"RoboticsDaily/internal/infrastructure/storage"
	"RoboticsDaily/pkg/pagination"
)

const (
	minSearchLength     = 2
	defaultTrendingSize = 10
	healthTimeout       = 3 * time.Second
)

// Store is the read side of persistence the API serves from.
type Store interface {
	ListArticles(ctx context.Context, filter storage.ArticleFilter) (pagination.OffsetResult[domain.Article], error)
	ArticleByID(ctx context.Context, id int64) (domain.Article, error)
	SearchArticles(ctx context.Context, q string, limit int) ([]domain.Article, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListTrending(ctx context.Context, limit int) ([]domain.TrendingTopic, error)
	SourceCounts(ctx context.Context) (map[string]int64, error)
	Stats(ctx context.Context) (domain.Stats, error)
	Ping(ctx context.Context) error
}

// Runner is the pipeline surface the admin endpoints drive.
type Runner interface {
	Run(ctx context.Context, trigger domain.Trigger) (domain.RunSummary, error)
	State() domain.RunState
	Running() bool
	LastRun() (domain.RunSummary, bool)
}

type Handler struct {
	store    Store
	runner   Runner
	sources  []domain.Source
	adminKey string
}

func NewHandler(store Store, runner Runner, sources []domain.Source, adminKey string) *Handler {
	return &Handler{store: store, runner: runner, sources: sources, adminKey: adminKey}
}

// Register mounts every route under /api.
func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/articles", h.listArticles)
	g.GET("/articles/:id", h.getArticle)
	g.GET("/search", h.search)
	g.GET("/categories", h.categories)
	g.GET("/trending", h.trending)
	g.GET("/sources", h.listSources)
	g.GET("/health", h.health)

	admin := g.Group("/admin", h.requireAdminKey)
	admin.POST("/scrape", h.triggerScrape)
	admin.GET("/status", h.status)
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func (h *Handler) listArticles(c echo.Context) error {
	filter := storage.ArticleFilter{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Source:   strings.TrimSpace(c.QueryParam("source")),
	}

	var err error
	if filter.Page, err = intParam(c, "page"); err != nil {
		return err
	}
	if filter.Limit, err = intParam(c, "limit"); err != nil {
		return err
	}
	if filter.From, err = dateParam(c, "date_from", false); err != nil {
		return err
	}
	if filter.To, err = dateParam(c, "date_to", true); err != nil {
		return err
	}

	page, err := h.store.ListArticles(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *Handler) getArticle(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperr.NewValidation("article id must be a positive integer")
	}

	article, err := h.store.ArticleByID(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Article not found")
	}
	if err != nil {
		return err
	}
	return ok(c, article)
}

func (h *Handler) search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if len([]rune(q)) < minSearchLength {
		return apperr.NewValidation("search query must be at least 2 characters")
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}

	articles, err := h.store.SearchArticles(c.Request().Context(), q, limit)
	if err != nil {
		return err
	}
	return ok(c, map[string]any{"query": q, "count": len(articles), "articles": articles})
}

func (h *Handler) categories(c echo.Context) error {
	categories, err := h.store.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, categories)
}

func (h *Handler) trending(c echo.Context) error {
	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = defaultTrendingSize
	}
	limit = min(limit, pagination.MaxLimit)

	topics, err := h.store.ListTrending(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return ok(c, topics)
}

func (h *Handler) listSources(c echo.Context) error {
	counts, err := h.store.SourceCounts(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, snapshot.WithCounts(h.sources, counts))
}

func (h *Handler) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"success":  false,
			"status":   "unhealthy",
			"database": "unreachable",
			"error":    err.Error(),
		})
	}
	return ok(c, map[string]string{"status": "healthy", "database": "connected"})
}

func intParam(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewValidationWrap("invalid "+name, err)
	}
	return v, nil
}

// dateParam accepts YYYY-MM-DD or RFC3339. A bare date used as an upper bound covers the whole day.
func dateParam(c echo.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid "+name+", expected YYYY-MM-DD", err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
