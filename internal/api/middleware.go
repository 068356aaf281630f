package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"fileport/internal/auth"
	"fileport/internal/models"
	"fileport/internal/storage"
)

type contextKey string

const (
	sessionContextKey = contextKey("session")
	userContextKey    = contextKey("user")
)

const protectedPrefix = "/users"

// SessionMiddleware resolves the session cookie into a session and its user.
// It never rejects: a missing or invalid cookie just means anonymous.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, user := s.lookupSession(r)
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		if user != nil {
			ctx = context.WithValue(ctx, userContextKey, user)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) lookupSession(r *http.Request) (*models.Session, *models.User) {
	cookie, err := r.Cookie(s.config.Session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := auth.VerifyJWT(cookie.Value, s.config.Session.Secret)
	if err != nil {
		return nil, nil
	}

	sess, ok := s.sessions.Get(claims.SessionID)
	if !ok {
		return nil, nil
	}

	return sess, s.users.Get(sess.AccessToken)
}

// RequireUser rejects anonymous requests with 401.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccessFilter guards /users/<id>/...: only the session whose user ID equals
// <id> gets through. Every other path is passed on unchecked.
func (s *Server) AccessFilter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !canAccess(GetUserFromContext(r.Context()), r.URL.Path) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// pathOwner reports whether p lies under the protected prefix and, if so,
// the user ID segment that follows it. The path is normalized first so that
// dot segments cannot step around the check.
func pathOwner(p string) (string, bool) {
	p = storage.NormalizePath(p)
	if p != protectedPrefix && !strings.HasPrefix(p, protectedPrefix+"/") {
		return "", false
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(p, protectedPrefix), "/")
	id, _, _ := strings.Cut(rest, "/")
	return id, true
}

func canAccess(user *models.User, p string) bool {
	owner, protected := pathOwner(p)
	if !protected {
		return true
	}
	return user != nil && owner != "" && user.UserID == owner
}

// canList applies canAccess to directory listings, except that the bare
// protected directory itself may be listed. Its children are still checked
// one by one.
func canList(user *models.User, dir string) bool {
	if storage.NormalizePath(dir) == protectedPrefix {
		return true
	}
	return canAccess(user, dir)
}

// AdminBasicAuth checks HTTP basic credentials against the configured bcrypt
// hash. With no admin user configured the endpoint is open.
func (s *Server) AdminBasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin := s.config.Admin
		if admin.Username == "" {
			next.ServeHTTP(w, r)
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) != 1 ||
			!auth.CheckPasswordHash(password, admin.PasswordHash) {
			w.Header().Set("WWW-Authenticate", `Basic realm="fileport"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}

func GetSessionFromContext(ctx context.Context) *models.Session {
	if sess, ok := ctx.Value(sessionContextKey).(*models.Session); ok {
		return sess
	}
	return nil
}
