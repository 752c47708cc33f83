package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradelingo/chart"
	"tradelingo/journal"
	"tradelingo/sim"
)

// GetAssets lists the tradable instrument catalog.
func (s *Server) GetAssets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":  0,
		"count": len(sim.Assets),
		"data":  sim.Assets,
	})
}

type createSessionRequest struct {
	Asset string `json:"asset" binding:"required"`
}

// CreateSession starts a replay session for an asset.
func (s *Server) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inst, ok := sim.AssetByID(req.Asset)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown asset", "asset": req.Asset})
		return
	}

	hub := newStreamHub(s.log)
	sess := sim.NewSession(inst, sim.SessionConfig{
		CandleCount:   s.defaults.Candles,
		InitialOffset: s.defaults.InitialOffset,
		Window:        s.defaults.Window,
		Balance:       s.defaults.Balance,
		OnTick:        hub.BroadcastStatus,
		OnClose: func(inst sim.Instrument, ct sim.ClosedTrade) {
			s.journal.LogTrade(journal.RecordFor(inst, ct))
		},
	})

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.streams[sess.ID] = hub
	s.mu.Unlock()

	s.log.Info("session created", zap.String("session", sess.ID), zap.String("asset", inst.ID))
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": sess.Status()})
}

// GetSession returns a full state snapshot: status, pending orders, open
// positions, drawings, and realized trades.
func (s *Server) GetSession(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"status":    sess.Status(),
			"pending":   sess.PendingOrders(),
			"positions": sess.OpenPositions(),
			"drawings":  sess.Drawings(),
			"closed":    sess.ClosedTrades(),
		},
	})
}

// DeleteSession stops playback and discards the session.
func (s *Server) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	hub := s.streams[id]
	delete(s.sessions, id)
	delete(s.streams, id)
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	sess.Pause()
	if hub != nil {
		hub.Close()
	}
	c.JSON(http.StatusOK, gin.H{"code": 0})
}

type selectInstrumentRequest struct {
	Asset string `json:"asset" binding:"required"`
}

// SelectInstrument regenerates the series and resets book and drawings.
func (s *Server) SelectInstrument(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	var req selectInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inst, found := sim.AssetByID(req.Asset)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown asset", "asset": req.Asset})
		return
	}
	sess.SelectInstrument(inst)
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": sess.Status()})
}

type stepRequest struct {
	Direction string `json:"direction"` // "forward" (default) or "backward"
}

// Step advances or rewinds the replay cursor by one candle.
func (s *Server) Step(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	var req stepRequest
	_ = c.ShouldBindJSON(&req)

	if req.Direction == "backward" {
		sess.StepBackward()
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": sess.Status()})
		return
	}

	ev, _ := sess.StepForward()
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"status": sess.Status(),
			"filled": ev.Filled,
			"opened": ev.Opened,
			"closed": ev.Closed,
		},
	})
}

type playRequest struct {
	Speed float64 `json:"speed"` // 0.5, 1, 2, 4
}

// Play starts auto-advance at a speed preset.
func (s *Server) Play(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	var req playRequest
	_ = c.ShouldBindJSON(&req)
	speed := sim.Speed(req.Speed)
	if req.Speed == 0 {
		speed = sim.Speed1x
	}
	sess.Play(speed)
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": sess.Status()})
}

// Pause stops auto-advance immediately.
func (s *Server) Pause(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	sess.Pause()
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": sess.Status()})
}

type jumpRequest struct {
	To string `json:"to" binding:"required"` // "start" or "end"
}

// Jump relocates the cursor. Jumping to the end evaluates every skipped
// candle in order.
func (s *Server) Jump(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	var req jumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.To {
	case "start":
		sess.JumpToStart()
	case "end":
		sess.JumpToEnd()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "jump target must be \"start\" or \"end\""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": sess.Status()})
}

// PlaceOrder validates and submits an order.
func (s *Server) PlaceOrder(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	var req sim.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := sess.PlaceOrder(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": order})
}

// CancelOrder cancels a pending order.
func (s *Server) CancelOrder(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	if err := sess.CancelOrder(c.Param("orderId")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0})
}

// ClosePosition closes an open position at the current visible close.
func (s *Server) ClosePosition(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	ct, err := sess.ClosePosition(c.Param("positionId"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, sim.ErrNoSuchPosition) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": ct})
}

// AddDrawing stores a finalized annotation.
func (s *Server) AddDrawing(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	var d sim.Drawing
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch d.Kind {
	case sim.DrawLine, sim.DrawHorizontal, sim.DrawRectangle, sim.DrawFibonacci:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown drawing kind"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": sess.AddDrawing(d)})
}

// ClearDrawings removes every annotation.
func (s *Server) ClearDrawings(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	sess.ClearDrawings()
	c.JSON(http.StatusOK, gin.H{"code": 0})
}

// RenderChart returns an SVG snapshot of the current window, book, and
// drawings.
func (s *Server) RenderChart(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	view := chart.View{
		Asset:     sess.Instrument().ID,
		Candles:   sess.VisibleCandles(),
		Pending:   sess.PendingOrders(),
		Positions: sess.OpenPositions(),
		Drawings:  sess.Drawings(),
	}
	scene, err := chart.BuildScene(view, 980, 520)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", chart.RenderSVG(scene))
}

type validateExerciseRequest struct {
	Exercise     sim.Exercise `json:"exercise" binding:"required"`
	ClickedPrice float64      `json:"clicked_price,omitempty"`
	ZoneHigh     float64      `json:"zone_high,omitempty"`
	ZoneLow      float64      `json:"zone_low,omitempty"`
}

// ValidateExercise scores a lesson answer: a clicked price or a drawn zone.
func (s *Server) ValidateExercise(c *gin.Context) {
	var req validateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var result sim.AnswerResult
	if req.ZoneHigh != 0 || req.ZoneLow != 0 {
		result = req.Exercise.ValidateZone(req.ZoneHigh, req.ZoneLow)
	} else {
		result = req.Exercise.ValidateClick(req.ClickedPrice)
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": result})
}

type disciplineRequest struct {
	Trades []sim.TradeResult `json:"trades"`
}

// DisciplineScore computes the discipline summary over a trade history.
func (s *Server) DisciplineScore(c *gin.Context) {
	var req disciplineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": sim.Discipline(req.Trades)})
}
