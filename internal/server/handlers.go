package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pders01/slyde/internal/debuglog"
	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type parseRequest struct {
	URL string `json:"url"`
}

// respondError maps extraction pipeline errors to their status and message.
func respondError(c *gin.Context, err error) {
	c.JSON(slideshow.HTTPStatus(err), gin.H{"error": slideshow.Message(err)})
}

// respondInternal reports a store or index failure without leaking its text.
func respondInternal(c *gin.Context, action string, err error) {
	debuglog.Errorf("%s: %v", action, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": action + " failed"})
}

func (s *Server) handleParse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, slideshow.ErrMissingInput)
		return
	}

	show, err := s.slides.Parse(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, show)
}

func (s *Server) handleShared(c *gin.Context) {
	show, err := s.slides.ParseShareID(c.Request.Context(), c.Query("s"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, show)
}

func (s *Server) handleRecents(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultPageSize)
	if !ok {
		return
	}
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		return
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	projects, err := s.store.ListRecents(limit, offset)
	if err != nil {
		respondInternal(c, "listing recents", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) handleFavorites(c *gin.Context) {
	projects, err := s.store.ListFavorites()
	if err != nil {
		respondInternal(c, "listing favorites", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) handleFavoriteStatus(c *gin.Context) {
	id := c.Param("id")
	fav, err := s.store.IsFavorite(id)
	if err != nil {
		respondInternal(c, "reading favorite", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articleId": id, "isFavorite": fav})
}

func (s *Server) handleToggleFavorite(c *gin.Context) {
	id := c.Param("id")
	fav, err := s.store.ToggleFavorite(id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if err != nil {
		respondInternal(c, "toggling favorite", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articleId": id, "isFavorite": fav})
}

func (s *Server) handleSearch(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultPageSize)
	if !ok {
		return
	}

	results, err := s.searcher.Search(c.Query("q"), limit)
	if err != nil {
		respondInternal(c, "search", err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// intQuery reads a non-negative integer query parameter. It writes a 400
// response and reports false when the value is malformed.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}
