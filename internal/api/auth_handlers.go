package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"fileport/internal/auth"
)

type CurrentUserResponse struct {
	UserID       string `json:"userId" example:"10001"`
	Username     string `json:"username" example:"kloping"`
	AccessToken  string `json:"accessToken" example:"6d1c0f2a"`
	StorageLimit int64  `json:"storageLimit" example:"524288000"`
	UsedSpace    int64  `json:"usedSpace" example:"1048576"`
}

// @Summary      Start login
// @Description  Redirects the browser to the authorization server's login page.
// @Tags         auth
// @Success      302  {string}  string "Redirect to the authorization server"
// @Router       /auth/login [get]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.auth.AuthorizeURL(), http.StatusFound)
}

// @Summary      Login callback
// @Description  Exchanges the one-time code for the user's identity and opens a session.
// @Tags         auth
// @Param        code  query     string  true  "One-time code from the authorization server"
// @Success      302   {string}  string "Redirect after login"
// @Failure      401   {string}  string "Login failed"
// @Failure      500   {string}  string "Internal Server Error"
// @Router       /auth/callback [get]
func (s *Server) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	user, err := s.auth.HandleCallback(r.Context(), code)
	if err != nil {
		if errors.Is(err, auth.ErrAuthFailed) {
			log.Printf("WARN: Login failed: %v", err)
			http.Error(w, "Login failed", http.StatusUnauthorized)
			return
		}
		respondError(w, "login callback", err)
		return
	}

	if old := GetSessionFromContext(r.Context()); old != nil {
		s.sessions.Invalidate(old.ID)
	}

	sess := s.sessions.Create(user, r)
	token, err := auth.GenerateJWT(sess, s.config.Session.Secret)
	if err != nil {
		s.sessions.Invalidate(sess.ID)
		respondError(w, "sign session", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.config.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Printf("User %s (%s) logged in from %s", user.UserID, user.Username, sess.ClientIP)
	http.Redirect(w, r, s.config.Auth.PostLoginRedirect, http.StatusFound)
}

// @Summary      Current session user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  CurrentUserResponse
// @Failure      401  {string}  string "Unauthorized"
// @Router       /auth/user [get]
func (s *Server) CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CurrentUserResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		AccessToken:  user.AccessToken,
		StorageLimit: user.StorageLimit,
		UsedSpace:    user.UsedStorage,
	})
}

// @Summary      Log out
// @Description  Invalidates the current session, if any, and clears the cookie.
// @Tags         auth
// @Success      200  {string}  string "Logged out"
// @Router       /auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		s.sessions.Invalidate(sess.ID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Write([]byte("Logged out"))
}
