package handlers

import (
	"net/http"

	"tutorlink/middleware"
	"tutorlink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateCheckoutSessionHandler handles POST /api/tuitions/payments/create-checkout-session.
// Only the poster of the tuition may pay for it.
func (h *TuitionHandler) CreateCheckoutSessionHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		TuitionID string `json:"tuitionId" binding:"required"`
		TutorID   string `json:"tutorId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	url, err := h.Service.CreateCheckout(c.Request.Context(), req.TuitionID, req.TutorID, p.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// StripeWebhookHandler handles POST /webhook. Stripe signs the raw body,
// so the payload must be read before any JSON binding touches it. Replayed
// deliveries of an already-settled session acknowledge with 200 so Stripe
// stops retrying.
func (h *TuitionHandler) StripeWebhookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	payload, err := c.GetRawData()
	if err != nil {
		logger.Warn("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	if err := h.Service.ReconcilePaymentEvent(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
