package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/errandboy/server/internal/cart"
	"github.com/errandboy/server/internal/conversation"
	errx "github.com/errandboy/server/internal/core/error"
	"github.com/errandboy/server/internal/order"
	logx "github.com/errandboy/server/pkg/logger"
	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query" binding:"required"`
}

type cartView struct {
	Items  []cart.ItemGroup `json:"items"`
	Totals cart.Totals      `json:"totals"`
}

type conversationSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Preview     string    `json:"preview"`
	LastUpdated time.Time `json:"last_updated"`
}

func summarize(conv *conversation.Conversation) conversationSummary {
	return conversationSummary{
		ID:          conv.ID,
		Title:       conv.Title,
		Preview:     conv.Preview,
		LastUpdated: conv.LastUpdated,
	}
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = s.conversations.ActiveID()
	}

	msg, err := s.engine.HandleTurn(c.Request.Context(), conversationID, req.Query)
	if err != nil {
		s.respondError(c, err)
		return
	}

	conv, err := s.conversations.Get(conversationID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"message":         msg,
		"conversation":    summarize(conv),
		"cart":            cartView{Items: conv.Cart.Group(), Totals: conv.Cart.Totals()},
	})
}

func (s *Server) handleCreateConversation(c *gin.Context) {
	conv := s.conversations.Create()
	c.JSON(http.StatusCreated, gin.H{
		"conversation": summarize(conv),
		"messages":     s.conversations.Messages(conv.ID),
	})
}

func (s *Server) handleListConversations(c *gin.Context) {
	convs := s.conversations.List()
	summaries := make([]conversationSummary, 0, len(convs))
	for _, conv := range convs {
		summaries = append(summaries, summarize(conv))
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

func (s *Server) handleGetConversation(c *gin.Context) {
	id := c.Param("id")
	conv, err := s.conversations.Get(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation": summarize(conv),
		"messages":     s.conversations.Messages(id),
	})
}

func (s *Server) handleDeleteConversation(c *gin.Context) {
	active := s.conversations.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"active": summarize(active)})
}

func (s *Server) handleDeleteAllConversations(c *gin.Context) {
	active := s.conversations.DeleteAll()
	c.JSON(http.StatusOK, gin.H{"active": summarize(active)})
}

func (s *Server) handleGetCart(c *gin.Context) {
	conv, err := s.conversations.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView{Items: conv.Cart.Group(), Totals: conv.Cart.Totals()})
}

type checkoutRequest struct {
	ConversationID string         `json:"conversation_id" binding:"required"`
	Customer       order.Customer `json:"customer"`
}

func (s *Server) handleCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id is required"})
		return
	}

	placed, err := s.checkout.Checkout(c.Request.Context(), req.ConversationID, req.Customer)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": placed})
}

func (s *Server) handleListOrders(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id is required"})
		return
	}

	orders, err := s.orders.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type verifyRequest struct {
	Reference string `json:"reference" binding:"required"`
}

func (s *Server) handleVerifyPayment(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference is required"})
		return
	}

	verification, err := s.gateway.Verify(c.Request.Context(), req.Reference)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verification)
}

func (s *Server) respondError(c *gin.Context, err error) {
	var appErr *errx.AppError
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, conversation.ErrTurnInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "a message is already being processed"})
	case errors.Is(err, order.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.As(err, &appErr):
		c.JSON(appErr.Status, gin.H{"error": appErr.Message})
	default:
		logx.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled request error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
