package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dangelesl03/frontwedding/pkg/httputil"
	"github.com/dangelesl03/frontwedding/pkg/logger"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// guestIDKey is the context key for the guest session ID.
const guestIDKey contextKey = "guest_id"

// guestCookieName is the cookie that carries the guest session between
// requests from the same browser.
const guestCookieName = "guest_session"

// guestCookieMaxAge keeps the session stable for the length of a typical
// registry's lifetime.
const guestCookieMaxAge = 90 * 24 * time.Hour

// GuestSession identifies the guest making the request. The X-Guest-ID
// header wins when present (set by clients that manage their own session);
// otherwise the guest_session cookie is used, and a new session is issued
// when neither exists. The resolved ID is stored in the request context.
func GuestSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		guestID := r.Header.Get("X-Guest-ID")

		if guestID == "" {
			if cookie, err := r.Cookie(guestCookieName); err == nil && cookie.Value != "" {
				guestID = cookie.Value
			}
		}

		if guestID == "" {
			guestID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     guestCookieName,
				Value:    guestID,
				Path:     "/",
				MaxAge:   int(guestCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), guestIDKey, guestID)
		ctx = logger.WithGuestID(ctx, guestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// guestIDFromContext extracts the guest session ID from the request context.
func guestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(guestIDKey).(string)
	return id, ok && id != ""
}

// ContentTypeJSON enforces that requests with a body are JSON. Multipart
// form data is also accepted so receipt uploads pass through.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") && !strings.HasPrefix(ct, "multipart/form-data") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
