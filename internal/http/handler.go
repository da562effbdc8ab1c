package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/proposal-builder/internal/currency"
	"github.com/nurpe/proposal-builder/internal/http/middleware"
	"github.com/nurpe/proposal-builder/internal/service"
	"github.com/nurpe/proposal-builder/internal/wizard"
)

type Handler struct {
	proposals *service.ProposalService
	log       zerolog.Logger
}

func NewHandler(proposals *service.ProposalService, log zerolog.Logger) *Handler {
	return &Handler{proposals: proposals, log: log}
}

func (h *Handler) Register(router *gin.Engine, sessionMiddleware gin.HandlerFunc) {
	router.GET("/currencies", h.listCurrencies)

	scoped := router.Group("/")
	scoped.Use(sessionMiddleware)
	scoped.GET("/proposal", h.getProposal)
	scoped.GET("/proposal/document", h.getDocument)
	scoped.GET("/wizard", h.getWizard)
	scoped.POST("/wizard/advance", h.advance)
	scoped.POST("/wizard/back", h.back)
	scoped.POST("/wizard/currency", h.setCurrency)
	scoped.POST("/wizard/items", h.addItem)
	scoped.PATCH("/wizard/items/:id", h.editItem)
	scoped.DELETE("/wizard/items/:id", h.removeItem)
	scoped.POST("/wizard/reset", h.requestReset)
	scoped.POST("/wizard/reset/confirm", h.confirmReset)
	scoped.POST("/wizard/reset/cancel", h.cancelReset)
}

func (h *Handler) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": currency.List()})
}

func (h *Handler) getProposal(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.proposals.Overview(c.Request.Context(), sess.ID))
}

func (h *Handler) getWizard(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, wizardState(sess))
}

type advanceRequest struct {
	Proposer *wizard.ProposerForm `json:"proposer"`
	Client   *wizard.ClientForm   `json:"client"`
	Currency string               `json:"currency"`
}

func (h *Handler) advance(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	// An empty body is a legal advance attempt; a malformed one is not.
	var req advanceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result := sess.Wizard.Advance(c.Request.Context(), wizard.AdvanceInput{
		Proposer: req.Proposer,
		Client:   req.Client,
		Currency: req.Currency,
	})

	status := http.StatusOK
	if !result.OK {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"ok":              result.OK,
		"step":            int(result.Step),
		"stepLabel":       result.Step.Label(),
		"readyForPreview": result.ReadyForPreview,
		"fieldErrors":     result.FieldErrors,
		"stepError":       result.StepError,
	})
}

func (h *Handler) back(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	step := sess.Wizard.Retreat()
	c.JSON(http.StatusOK, gin.H{"step": int(step), "stepLabel": step.Label()})
}

type currencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

func (h *Handler) setCurrency(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req currencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, known := currency.Lookup(req.Currency); !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown currency code"})
		return
	}
	sess.Wizard.SetCurrency(c.Request.Context(), req.Currency)
	c.JSON(http.StatusOK, wizardState(sess))
}

func (h *Handler) addItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	item, added := sess.Wizard.AddLineItem(c.Request.Context())
	if !added {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       "complete the previous billing component first",
			"fieldErrors": sess.Wizard.FieldErrors(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "items": sess.Wizard.Items()})
}

type editItemRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

func (h *Handler) editItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req editItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = sess.Wizard.EditLineItemField(c.Request.Context(), id, wizard.ItemField(req.Field), req.Value)
	switch {
	case errors.Is(err, wizard.ErrUnknownItem):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, wizard.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":       sess.Wizard.Items(),
		"fieldErrors": sess.Wizard.FieldErrors(),
	})
}

func (h *Handler) removeItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	if err := sess.Wizard.RemoveLineItem(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) requestReset(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	token := sess.Wizard.RequestReset()
	c.JSON(http.StatusOK, gin.H{
		"token":       token.String(),
		"title":       "Are you sure?",
		"description": "This will clear all form data and cannot be undone.",
	})
}

type confirmResetRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *Handler) confirmReset(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req confirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := uuid.Parse(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
		return
	}
	if err := sess.Wizard.ConfirmReset(c.Request.Context(), token, h.proposals.DefaultCurrency()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) cancelReset(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Wizard.CancelReset()
	c.Status(http.StatusNoContent)
}

func (h *Handler) getDocument(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	format, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.proposals.GenerateDocument(c.Request.Context(), sess.ID, format)
	if err != nil {
		if errors.Is(err, service.ErrIncomplete) {
			// Not a failure page: the client goes back to the wizard.
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": "/create"})
			return
		}
		h.handleError(c, err)
		return
	}

	disposition := "attachment"
	if c.Query("disposition") == "inline" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", disposition+"; filename=\""+doc.FileName+"\"")
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func (h *Handler) session(c *gin.Context) (*service.Session, bool) {
	id, ok := middleware.MustSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
		return nil, false
	}
	return h.proposals.Session(c.Request.Context(), id), true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func wizardState(sess *service.Session) gin.H {
	step := sess.Wizard.Step()
	return gin.H{
		"step":        int(step),
		"stepLabel":   step.Label(),
		"items":       sess.Wizard.Items(),
		"currency":    sess.Wizard.Currency(),
		"fieldErrors": sess.Wizard.FieldErrors(),
		"stepError":   sess.Wizard.StepError(),
	}
}
