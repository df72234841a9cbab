package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradinglab/marketsim/internal/model"
	"github.com/tradinglab/marketsim/internal/ranking"
)

type loginRequest struct {
	ParticipantID  string `json:"participant_id" binding:"required"`
	DisplayName    string `json:"display_name"`
	RegistrationID string `json:"registration_id"`
}

// login creates the account on first call and returns it on every call.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.ParticipantID
	}

	acct := s.ledger.Register(req.ParticipantID, req.DisplayName, req.RegistrationID)
	c.JSON(http.StatusOK, acct)
}

// snapshot returns the full current market state.
func (s *Server) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.channel.Snapshot())
}

type orderRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	Symbol        string `json:"symbol" binding:"required"`
	Kind          string `json:"kind" binding:"required"`
	Quantity      int64  `json:"quantity" binding:"required"`
}

// placeOrder validates and executes one order.
func (s *Server) placeOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := s.ledger.ExecuteOrder(c.Request.Context(), req.ParticipantID, req.Symbol, model.OrderKind(req.Kind), req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// leaderboard recomputes and returns the ranking.
func (s *Server) leaderboard(c *gin.Context) {
	rows := ranking.Compute(s.ledger.Accounts(), s.channel.Snapshot(), s.ledger.InitialCash())
	c.JSON(http.StatusOK, rows)
}

// account returns one participant's account.
func (s *Server) account(c *gin.Context) {
	acct, ok := s.ledger.Account(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown participant"})
		return
	}
	c.JSON(http.StatusOK, acct)
}

// transactions returns the transaction log, optionally filtered by
// participant.
func (s *Server) transactions(c *gin.Context) {
	txs := s.ledger.Transactions(c.Query("participant"))
	c.JSON(http.StatusOK, txs)
}
