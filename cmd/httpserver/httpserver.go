// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ceobank/ceo-bank/internal/accountdelivery"
	"github.com/ceobank/ceo-bank/internal/accountrepo"
	"github.com/ceobank/ceo-bank/internal/accountservice"
	"github.com/ceobank/ceo-bank/internal/admindelivery"
	"github.com/ceobank/ceo-bank/internal/entryrepo"
	"github.com/ceobank/ceo-bank/internal/itemrepo"
	"github.com/ceobank/ceo-bank/internal/itemservice"
	"github.com/ceobank/ceo-bank/internal/ledgerdelivery"
	"github.com/ceobank/ceo-bank/internal/ledgerrepo"
	"github.com/ceobank/ceo-bank/internal/ledgerservice"
	"github.com/ceobank/ceo-bank/internal/middleware"
	"github.com/ceobank/ceo-bank/internal/notifier"
	"github.com/ceobank/ceo-bank/internal/sessiondelivery"
	"github.com/ceobank/ceo-bank/internal/sessionservice"
	"github.com/ceobank/ceo-bank/internal/teamrepo"
	"github.com/ceobank/ceo-bank/internal/teamservice"
	"github.com/ceobank/ceo-bank/internal/wsdelivery"
	"github.com/ceobank/ceo-bank/pkg/configpkg"
	"github.com/ceobank/ceo-bank/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Hub    *notifier.Hub
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	entryRepo := entryrepo.NewRepoPGS(conn)
	itemRepo := itemrepo.NewRepoPGS(conn)
	teamRepo := teamrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	sessionService := sessionservice.New(accountRepo, config, tokenMaker)
	accountService := accountservice.New(accountRepo, entryRepo, itemRepo)
	teamService := teamservice.New(teamRepo, accountRepo)
	itemService := itemservice.New(itemRepo)
	ledgerService := ledgerservice.New(ledgerRepo, accountRepo)

	hub := notifier.NewHub()

	sessionHandler := sessiondelivery.NewHandler(sessionService)
	accountHandler := accountdelivery.NewHandler(accountService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService, hub)
	adminHandler := admindelivery.NewHandler(accountService, teamService, itemService, ledgerService, hub)
	wsHandler := wsdelivery.NewHandler(hub, tokenMaker)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/login", sessionHandler.Login)
	engine.GET("/ws", wsHandler.Serve)

	authRoutes := engine.Group("/api", middleware.Auth(sessionService.TokenMaker))

	authRoutes.GET("/app-data", accountHandler.GetAppData)
	authRoutes.POST("/transfer", ledgerHandler.Transfer)
	authRoutes.POST("/purchase", ledgerHandler.Purchase)

	// A valid credential is all the admin surface asks for. The flag in
	// the token only drives the client's routing.
	admin := authRoutes.Group("/admin")

	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.POST("/users/:id/adjust-balance", adminHandler.AdjustBalance)

	admin.GET("/teams", adminHandler.ListTeams)
	admin.POST("/teams", adminHandler.CreateTeam)
	admin.DELETE("/teams/:id", adminHandler.DeleteTeam)
	admin.POST("/teams/:id/bulk-adjust", adminHandler.BulkAdjust)

	admin.GET("/shop-items", adminHandler.ListItems)
	admin.POST("/shop-items", adminHandler.CreateItem)
	admin.PUT("/shop-items/:id", adminHandler.UpdateItem)
	admin.DELETE("/shop-items/:id", adminHandler.DeleteItem)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Hub:    hub,
		Config: config,
	}

	return server, nil
}
