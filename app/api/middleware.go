package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lysyi3m/neo-comb/app/auth"
	"github.com/lysyi3m/neo-comb/app/dashboard"
	"github.com/lysyi3m/neo-comb/app/tasks"
)

const (
	ctxUser      = "user"
	ctxToken     = "token"
	ctxDashboard = "dashboard"

	deviceCookie       = "neo_device"
	deviceCookieMaxAge = 365 * 24 * 60 * 60
)

func sessionToken(c *gin.Context) string {
	if token := c.GetHeader("X-Session-Token"); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// deviceContext scopes the request context to the caller's device cookie.
// With create set, a missing or malformed cookie is replaced by a new device
// id.
func (h *Handler) deviceContext(c *gin.Context, create bool) context.Context {
	ctx := c.Request.Context()

	if device, err := c.Cookie(deviceCookie); err == nil {
		if _, err := uuid.Parse(device); err == nil {
			return auth.WithDevice(ctx, device)
		}
	}
	if !create {
		return ctx
	}

	device := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(deviceCookie, device, deviceCookieMaxAge, "/", "", strings.HasPrefix(h.baseURL, "https://"), true)
	return auth.WithDevice(ctx, device)
}

// requireSession resolves the session token to a user and their dashboard.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Session token required",
				"message": "Provide the token in X-Session-Token or Authorization: Bearer <token>",
			})
			c.Abort()
			return
		}

		user, ok := h.sessions.Get(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid session",
				"message": "The provided session token is not valid",
			})
			c.Abort()
			return
		}

		c.Set(ctxUser, user)
		c.Set(ctxToken, token)
		c.Set(ctxDashboard, h.openDashboard(user))

		c.Next()
	}
}

// openDashboard returns the user's dashboard and schedules its first load
// when it was just created.
func (h *Handler) openDashboard(user *auth.User) *dashboard.Dashboard {
	d, created := h.registry.Get(user.ID)
	if created {
		if err := h.scheduler.EnqueueTask(tasks.NewLoadFeedTask(tasks.TaskTypeInitialLoad, d)); err != nil {
			slog.Warn("Failed to enqueue initial load", "owner", user.ID, "error", err)
		}
	}
	return d
}

func currentUser(c *gin.Context) *auth.User {
	return c.MustGet(ctxUser).(*auth.User)
}

func currentDashboard(c *gin.Context) *dashboard.Dashboard {
	return c.MustGet(ctxDashboard).(*dashboard.Dashboard)
}
