package api

import (
	"archiwum-zwojow/internal/config"
	"archiwum-zwojow/internal/database"
	"archiwum-zwojow/internal/services"
	"archiwum-zwojow/internal/websocket"
)

type Server struct {
	config  *config.Config
	store   *database.Store
	scrolls *services.ScrollService
	users   *services.UserService
	wsHub   *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.Store, wsHub *websocket.Hub) *Server {
	return &Server{
		config:  cfg,
		store:   store,
		scrolls: services.NewScrollService(store),
		users:   services.NewUserService(store),
		wsHub:   wsHub,
	}
}
