// Package httpserver exposes the chat, cart, order and payment operations
// over HTTP for the web client.
package httpserver

import (
	"time"

	"github.com/errandboy/server/internal/chat"
	"github.com/errandboy/server/internal/conversation"
	"github.com/errandboy/server/internal/order"
	"github.com/errandboy/server/internal/payment"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Config holds the HTTP server settings.
type Config struct {
	Port         string   `envconfig:"PORT" default:"8080"`
	AllowOrigins []string `envconfig:"ALLOW_ORIGINS" default:"*"`
}

// Server wires the domain services into gin handlers.
type Server struct {
	cfg           Config
	engine        *chat.Engine
	conversations *conversation.Store
	checkout      *order.CheckoutService
	orders        order.Store
	gateway       payment.Gateway
}

func New(cfg Config, engine *chat.Engine, conversations *conversation.Store, checkout *order.CheckoutService, orders order.Store, gateway payment.Gateway) *Server {
	return &Server{
		cfg:           cfg,
		engine:        engine,
		conversations: conversations,
		checkout:      checkout,
		orders:        orders,
		gateway:       gateway,
	}
}

// Router builds the gin engine with CORS and every API route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.POST("/chat", s.handleChat)

		api.POST("/conversations", s.handleCreateConversation)
		api.GET("/conversations", s.handleListConversations)
		api.GET("/conversations/:id", s.handleGetConversation)
		api.DELETE("/conversations/:id", s.handleDeleteConversation)
		api.DELETE("/conversations", s.handleDeleteAllConversations)
		api.GET("/conversations/:id/cart", s.handleGetCart)

		api.POST("/checkout", s.handleCheckout)
		api.GET("/orders", s.handleListOrders)
		api.POST("/verify", s.handleVerifyPayment)
	}

	return r
}

// Run starts the server on the configured port.
func (s *Server) Run() error {
	return s.Router().Run(":" + s.cfg.Port)
}
