package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradinglab/marketsim/internal/model"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// setStatus transitions the session state machine.
func (s *Server) setStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.channel.SetStatus(model.SessionStatus(req.Status)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

type lagRequest struct {
	Ticks *int64 `json:"ticks" binding:"required"`
}

// setLag updates the reaction lag setting.
func (s *Server) setLag(c *gin.Context) {
	var req lagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.channel.SetLag(*req.Ticks); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticks": *req.Ticks})
}

type newsRequest struct {
	Headline    string  `json:"headline" binding:"required"`
	Description string  `json:"description"`
	Sentiment   float64 `json:"sentiment"`
	Visual      string  `json:"visual" binding:"required"`
	Channel     string  `json:"channel" binding:"required"`
	TargetKind  string  `json:"target_kind" binding:"required"`
	TargetID    string  `json:"target_id"`
}

// injectNews validates and injects one news event.
func (s *Server) injectNews(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target model.Target
	switch model.TargetKind(req.TargetKind) {
	case model.TargetKindMarket:
		target = model.MarketTarget()
	case model.TargetKindIndustry:
		target = model.IndustryTarget(model.Industry(req.TargetID))
	case model.TargetKindSymbol:
		target = model.SymbolTarget(req.TargetID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown target kind"})
		return
	}

	event, err := s.channel.InjectNews(model.NewsEvent{
		Headline:    req.Headline,
		Description: req.Description,
		Sentiment:   req.Sentiment,
		Visual:      model.Visual(req.Visual),
		Channel:     model.Channel(req.Channel),
		Target:      target,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

type overrideRequest struct {
	Symbol string  `json:"symbol" binding:"required"`
	Price  float64 `json:"price" binding:"required"`
}

// overridePrice manually sets one instrument's price.
func (s *Server) overridePrice(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.channel.OverridePrice(req.Symbol, req.Price); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": req.Symbol, "price": req.Price})
}

// resetSession reinitializes the market, all accounts, and the event list.
func (s *Server) resetSession(c *gin.Context) {
	s.channel.Reset(s.seed)
	s.ledger.Reset()
	c.JSON(http.StatusOK, gin.H{"status": string(model.StatusWaiting)})
}
