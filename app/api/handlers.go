package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/feed-cache/app/cfg"
	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/local"
	"github.com/lysyi3m/feed-cache/app/remote"
	"github.com/lysyi3m/feed-cache/app/tasks"
)

func NewHandler(feedLoader feed.Loader, imageLoader feed.ImageDataLoader,
	validator tasks.CacheValidator, scheduler tasks.TaskSchedulerInterface, generator GeneratorInterface) *Handler {
	return &Handler{
		feedLoader:  feedLoader,
		imageLoader: imageLoader,
		validator:   validator,
		scheduler:   scheduler,
		generator:   generator,
	}
}

type feedResult struct {
	items []feed.Item
	err   error
}

type imageResult struct {
	data []byte
	err  error
}

// loadFeed waits for the composed feed loader. It reports false when the
// client went away first; feed loads cannot be cancelled, so the result is
// dropped.
func (h *Handler) loadFeed(c *gin.Context) (feedResult, bool) {
	done := make(chan feedResult, 1)
	h.feedLoader.Load(func(items []feed.Item, err error) {
		done <- feedResult{items, err}
	})

	select {
	case result := <-done:
		return result, true
	case <-c.Request.Context().Done():
		slog.Debug("Client went away before feed was loaded")
		return feedResult{}, false
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	result, ok := h.loadFeed(c)
	if !ok {
		return
	}
	items, err := result.items, result.err

	if err != nil {
		slog.Error("Feed load failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	response := feedResponse{Items: make([]feedItemResponse, 0, len(items))}
	for _, item := range items {
		response.Items = append(response.Items, feedItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Location:    item.Location,
			Image:       item.ImageURL.String(),
		})
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetFeedRSS(c *gin.Context) {
	result, ok := h.loadFeed(c)
	if !ok {
		return
	}
	items, err := result.items, result.err

	if err != nil {
		slog.Error("Feed load failed", "error", err)
		c.Status(http.StatusBadGateway)
		return
	}

	rss, err := h.generator.Run(items)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) GetImage(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid url parameter"})
		return
	}

	done := make(chan imageResult, 1)
	task := h.imageLoader.LoadImageData(u, func(data []byte, err error) {
		done <- imageResult{data, err}
	})

	var result imageResult
	select {
	case result = <-done:
	case <-c.Request.Context().Done():
		task.Cancel()
		slog.Debug("Image request cancelled by client", "url", u.Redacted())
		return
	}

	if result.err != nil {
		status := imageErrorStatus(result.err)
		slog.Warn("Image load failed", "url", u.Redacted(), "status", status, "error", result.err)
		c.JSON(status, gin.H{"error": result.err.Error()})
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(result.data), result.data)
}

func imageErrorStatus(err error) int {
	switch {
	case errors.Is(err, local.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, remote.ErrInvalidData):
		return http.StatusBadGateway
	case errors.Is(err, remote.ErrConnectivity):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.GetVersion(),
	})
}

func (h *Handler) APIValidateCache(c *gin.Context) {
	task := tasks.NewValidateCacheTask(h.validator)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing validate task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue validate task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}
