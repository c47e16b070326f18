package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cube_navigator/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// logsQuery is the query string of GET /api/v1/logs. type may repeat or
// hold a comma-separated list.
type logsQuery struct {
	From  string   `form:"from"`
	To    string   `form:"to"`
	Types []string `form:"type"`
	Limit int      `form:"limit"`
}

// filter parses the query into a service.LogFilter. A date-only 'to' covers
// the whole day.
func (q logsQuery) filter() (service.LogFilter, error) {
	var (
		f   = service.LogFilter{Limit: q.Limit}
		err error
	)
	if q.From != "" {
		if f.From, err = parseQueryTime(q.From); err != nil {
			return f, fmt.Errorf("'from': %w", err)
		}
	}
	if q.To != "" {
		if f.To, err = parseQueryTime(q.To); err != nil {
			return f, fmt.Errorf("'to': %w", err)
		}
		if !strings.ContainsAny(q.To, "T ") {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	for _, t := range q.Types {
		f.Types = append(f.Types, strings.Split(t, ",")...)
	}
	return f, nil
}

// @Summary      List navigator events
// @Description  Oldest first, at most 'limit' of the newest matches. Times are RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' includes the whole day (UTC).
// @Tags         logs
// @Produce      json
// @Param        from   query  string    false  "Start of range"  example(2025-08-01)
// @Param        to     query  string    false  "End of range"    example(2025-08-31)
// @Param        type   query  []string  false  "Event types, repeated or comma-separated"  collectionFormat(multi)  Enums(SEARCH_START,SEARCH_TIMEOUT,CUBE_FOUND,MOTION_START,MOTION_DONE,ERROR)
// @Param        limit  query  int       false  "Newest events to return, 1 to 1000 (default 200)"
// @Success      200    {object}  map[string]interface{}  "count, events"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	var q logsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}
	f, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	switch {
	case errors.Is(err, service.ErrUnknownEventType),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load logs", "logs_list_failed", err,
			"from", f.From, "to", f.To, "types", f.Types)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseQueryTime accepts RFC3339, a datetime or a date, normalized to UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
