package api

import (
	"time"

	"fileport/internal/auth"
	"fileport/internal/config"
	"fileport/internal/database"
	"fileport/internal/quota"
	"fileport/internal/session"
	"fileport/internal/storage"
	"fileport/internal/websocket"
)

type Server struct {
	config     *config.Config
	users      *database.UserStore
	storage    *storage.LocalStorage
	accountant *quota.Accountant
	auth       *auth.Service
	sessions   *session.Manager
	wsHub      *websocket.Hub
	now        func() time.Time
}

func NewServer(
	cfg *config.Config,
	users *database.UserStore,
	localStorage *storage.LocalStorage,
	authService *auth.Service,
	sessions *session.Manager,
	wsHub *websocket.Hub,
) *Server {
	return &Server{
		config:     cfg,
		users:      users,
		storage:    localStorage,
		accountant: quota.NewAccountant(localStorage),
		auth:       authService,
		sessions:   sessions,
		wsHub:      wsHub,
		now:        time.Now,
	}
}

func (s *Server) publish(userID string, event websocket.Event) {
	if s.wsHub != nil {
		s.wsHub.PublishEvent(userID, event)
	}
}
