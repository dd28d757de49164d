// Package handler holds the gin handlers for the kiosk API. Handlers depend
// on narrow service interfaces so tests can run against in-memory fakes.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"facetrack/internal/attendance"
	"facetrack/internal/metrics"
	"facetrack/internal/person"
	"facetrack/internal/photostore"
	"facetrack/internal/queue"
	"facetrack/internal/stats"
)

// AttendanceService is the ledger surface the handlers use.
type AttendanceService interface {
	CheckIn(ctx context.Context, name string) (*attendance.Record, bool, error)
	List(ctx context.Context, f attendance.Filter) ([]attendance.Record, error)
}

// PersonService is the directory surface the handlers use.
type PersonService interface {
	Register(ctx context.Context, name string, images [][]byte) (person.Person, error)
	Delete(ctx context.Context, id int64) (string, error)
	List(ctx context.Context) ([]person.Person, error)
}

// StatsService computes the dashboard summary.
type StatsService interface {
	Summary(ctx context.Context) (stats.Summary, error)
}

// Handler bundles the API endpoints.
type Handler struct {
	Attendance AttendanceService
	People     PersonService
	Stats      StatsService
	Events     queue.Queue // nil disables event publishing
}

// New creates a handler set.
func New(att AttendanceService, people PersonService, st StatsService, events queue.Queue) *Handler {
	return &Handler{Attendance: att, People: people, Stats: st, Events: events}
}

// CheckIn handles POST /check-in.
func (h *Handler) CheckIn(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	rec, created, err := h.Attendance.CheckIn(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, attendance.ErrEmptyName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}
		metrics.CheckIns.WithLabelValues("error").Inc()
		logrus.WithError(err).WithField("name", req.Name).Error("check-in failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if !created {
		metrics.CheckIns.WithLabelValues("skipped").Inc()
		c.JSON(http.StatusOK, gin.H{"message": "Already checked in recently", "status": "skipped"})
		return
	}

	metrics.CheckIns.WithLabelValues("success").Inc()
	h.publishCheckIn(c.Request.Context(), *rec)
	c.JSON(http.StatusOK, gin.H{"message": "Check-in successful", "status": "success", "data": rec})
}

func (h *Handler) publishCheckIn(ctx context.Context, rec attendance.Record) {
	if h.Events == nil {
		return
	}
	msg, err := queue.NewCheckInMessage(queue.CheckInEvent{
		ID:        rec.ID,
		Name:      rec.Name,
		Timestamp: rec.Timestamp,
		Status:    rec.Status,
	})
	if err == nil {
		err = h.Events.Publish(ctx, msg)
	}
	if err != nil {
		logrus.WithError(err).Warn("check-in event publish failed")
	}
}

// ListAttendance handles GET /attendance with search and date-range filters.
func (h *Handler) ListAttendance(c *gin.Context) {
	var f attendance.Filter
	f.Search = c.Query("search")

	if v := c.Query("startDate"); v != "" {
		day, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid startDate"})
			return
		}
		f.Start = &day
	}
	if v := c.Query("endDate"); v != "" {
		day, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid endDate"})
			return
		}
		end := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.End = &end
	}

	records, err := h.Attendance.List(c.Request.Context(), f)
	if err != nil {
		logrus.WithError(err).Error("attendance list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch attendance records"})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(records), "data": records})
}

// ListPeople handles GET /people.
func (h *Handler) ListPeople(c *gin.Context) {
	people, err := h.People.List(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("people list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch people"})
		return
	}
	if people == nil {
		people = []person.Person{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": people})
}

// RegisterPerson handles POST /register with base64 reference images.
func (h *Handler) RegisterPerson(c *gin.Context) {
	var req struct {
		Name   string   `json:"name"`
		Images []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || len(req.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Name and at least one image are required"})
		return
	}

	images := make([][]byte, 0, len(req.Images))
	for _, img := range req.Images {
		decoded, err := photostore.DecodeImage(img)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid image data"})
			return
		}
		images = append(images, decoded)
	}

	p, err := h.People.Register(c.Request.Context(), req.Name, images)
	switch {
	case errors.Is(err, person.ErrDuplicateName):
		metrics.Registrations.WithLabelValues("conflict").Inc()
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Person with this name already exists"})
		return
	case errors.Is(err, person.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Name and at least one image are required"})
		return
	case err != nil:
		metrics.Registrations.WithLabelValues("error").Inc()
		logrus.WithError(err).WithField("name", req.Name).Error("registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register person"})
		return
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Person registered successfully", "data": p})
}

// DeletePerson handles DELETE /people/:id.
func (h *Handler) DeletePerson(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid person ID"})
		return
	}

	name, err := h.People.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, person.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Person not found"})
		return
	case err != nil:
		logrus.WithError(err).WithField("id", id).Error("person delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete person"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Person " + name + " deleted successfully"})
}

// GetStats handles GET /stats.
func (h *Handler) GetStats(c *gin.Context) {
	sum, err := h.Stats.Summary(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sum})
}
