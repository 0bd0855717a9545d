package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/neo-comb/app/auth"
	"github.com/lysyi3m/neo-comb/app/dashboard"
	"github.com/lysyi3m/neo-comb/app/neo"
	"github.com/lysyi3m/neo-comb/app/tasks"
)

func NewHandler(registry *dashboard.Registry, authenticator auth.Authenticator, sessions *auth.Sessions,
	presets *neo.PresetCache, scheduler tasks.TaskSchedulerInterface, baseURL, version string) *Handler {
	return &Handler{
		registry:  registry,
		auth:      authenticator,
		sessions:  sessions,
		presets:   presets,
		scheduler: scheduler,
		generator: neo.NewGenerator(version),
		baseURL:   baseURL,
		version:   version,
	}
}

func (h *Handler) SignIn(c *gin.Context) {
	var creds auth.Credentials
	if !bind(c, &creds) {
		return
	}

	user, err := h.auth.SignIn(h.deviceContext(c, true), creds.Email, creds.Password)
	if err != nil {
		slog.Warn("Sign in failed", "email", creds.Email, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.startSession(user))
}

func (h *Handler) SignUp(c *gin.Context) {
	var creds auth.SignUpCredentials
	if !bind(c, &creds) {
		return
	}

	user, err := h.auth.SignUp(h.deviceContext(c, true), creds.Email, creds.Password)
	if err != nil {
		slog.Warn("Sign up failed", "email", creds.Email, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.startSession(user))
}

// Session returns the caller's session, restoring the sign-in persisted for
// the caller's device when no valid token is presented.
func (h *Handler) Session(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if user, ok := h.sessions.Get(token); ok {
			c.JSON(http.StatusOK, signInResponse{Token: token, User: user})
			return
		}
	}

	user, err := h.auth.Restore(h.deviceContext(c, false))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}

	c.JSON(http.StatusOK, h.startSession(user))
}

func (h *Handler) startSession(user *auth.User) signInResponse {
	token := h.sessions.Create(user)
	h.openDashboard(user)
	slog.Info("User signed in", "user_id", user.ID)
	return signInResponse{Token: token, User: user}
}

func (h *Handler) SignOut(c *gin.Context) {
	user := currentUser(c)

	if err := h.auth.SignOut(h.deviceContext(c, false), user); err != nil {
		slog.Error("Sign out failed", "user_id", user.ID, "error", err)
	}

	h.sessions.Delete(c.GetString(ctxToken))
	if !h.sessions.Active(user.ID) {
		h.registry.Drop(user.ID)
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListNEOs(c *gin.Context) {
	view := currentDashboard(c).View()

	c.Header("X-Generation", strconv.FormatUint(view.Generation, 10))
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetNEO(c *gin.Context) {
	d := currentDashboard(c)

	item, err := d.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	detail := neoDetail{
		Summary:      item,
		DisplayName:  neo.DisplayName(item.Name),
		SizeCategory: neo.SizeCategory(item.AverageDiameterKm()),
		Diameter:     neo.FormatDiameter(item.AverageDiameterKm()),
		Selected:     d.Selection().Contains(item.ID),
	}
	detail.DistanceCategory = "Distant"
	if approach, ok := item.FirstApproach(); ok {
		detail.DistanceCategory = neo.DistanceCategory(approach.MissDistance.Lunar)
		detail.Distance = neo.FormatDistance(approach.MissDistance.Km)
		detail.Velocity = neo.FormatVelocity(approach.RelativeVelocity.KmPerHour)
	}

	c.JSON(http.StatusOK, detail)
}

func (h *Handler) GetNEOsRSS(c *gin.Context) {
	view := currentDashboard(c).View()

	title := fmt.Sprintf("Near-Earth Objects %s to %s", view.Range.Start, view.Range.End)
	rss, err := h.generator.Run(title, h.baseURL+"/api/neos.rss", view.Items)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(view.Items)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) SetFilters(c *gin.Context) {
	var spec neo.FilterSpec
	if !bind(c, &spec) {
		return
	}

	d := currentDashboard(c)
	if err := d.SetFilters(spec); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"filters": d.Filters()})
}

func (h *Handler) ClearFilters(c *gin.Context) {
	d := currentDashboard(c)
	d.ClearFilters()
	c.JSON(http.StatusOK, gin.H{"filters": d.Filters()})
}

func (h *Handler) ListPresets(c *gin.Context) {
	presets := h.presets.GetPresets()
	c.JSON(http.StatusOK, gin.H{
		"presets": presets,
		"total":   len(presets),
	})
}

func (h *Handler) ApplyPreset(c *gin.Context) {
	name := c.Param("name")

	preset, err := h.presets.GetPreset(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preset not found"})
		return
	}

	d := currentDashboard(c)
	if err := d.SetFilters(preset.Filters); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preset": preset.Name, "filters": d.Filters()})
}

func (h *Handler) RefreshFeed(c *gin.Context) {
	h.enqueue(c, tasks.NewLoadFeedTask(tasks.TaskTypeRefresh, currentDashboard(c)))
}

func (h *Handler) LoadMore(c *gin.Context) {
	h.enqueue(c, tasks.NewLoadFeedTask(tasks.TaskTypeLoadMore, currentDashboard(c)))
}

func (h *Handler) LoadRange(c *gin.Context) {
	var req dashboard.RangeRequest
	if !bind(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	h.enqueue(c, tasks.NewLoadRangeTask(currentDashboard(c), req.StartDate, req.EndDate))
}

func (h *Handler) enqueue(c *gin.Context, task tasks.TaskInterface) {
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing task", "type", string(task.GetType()), "owner", task.GetOwner(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": task.GetID(),
		"type":    task.GetType(),
	})
}

func (h *Handler) GetSelection(c *gin.Context) {
	sel := currentDashboard(c).Selection()
	c.JSON(http.StatusOK, gin.H{
		"ids":   sel.IDs(),
		"items": sel.Items(),
		"count": sel.Len(),
	})
}

func (h *Handler) ToggleSelection(c *gin.Context) {
	d := currentDashboard(c)

	selected, err := d.Toggle(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       c.Param("id"),
		"selected": selected,
		"ids":      d.Selection().IDs(),
	})
}

func (h *Handler) ClearSelection(c *gin.Context) {
	currentDashboard(c).ClearSelection()
	c.Status(http.StatusNoContent)
}

func (h *Handler) Compare(c *gin.Context) {
	report, err := currentDashboard(c).Compare()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) DismissError(c *gin.Context) {
	currentDashboard(c).DismissError()
	c.Status(http.StatusNoContent)
}

// Events streams dashboard change notifications as server-sent events. The
// headers go out immediately so clients see the stream open before the first
// change.
func (h *Handler) Events(c *gin.Context) {
	events, unsubscribe := currentDashboard(c).Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"timestamp":      time.Now().In(time.Local).Format(time.RFC3339),
		"version":        h.version,
		"dashboards":     h.registry.Count(),
		"loaded_presets": h.presets.GetPresetCount(),
	})
}

func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "not_found",
		"message": "The page you are looking for does not exist",
		"path":    c.Request.URL.Path,
	})
}
