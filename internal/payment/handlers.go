// Package payment serves the premium-upgrade checkout flow backed by
// Stripe.
package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/launchlens/startup-meter/internal/auth"
	"github.com/launchlens/startup-meter/internal/config"
	"github.com/launchlens/startup-meter/internal/database"
)

// Handler serves the payment endpoints. A nil Stripe client means the
// payment system is unconfigured and every route answers 503.
type Handler struct {
	stripe        *client.API
	webhookSecret string
	premiumPrice  string
	repo          *database.Repository
}

// NewHandler creates the payment handler. The Stripe client is only
// initialized when a secret key is configured.
func NewHandler(cfg config.Config, repo *database.Repository) *Handler {
	var api *client.API
	if cfg.StripeSecretKey != "" {
		api = &client.API{}
		api.Init(cfg.StripeSecretKey, nil)
	}

	return &Handler{
		stripe:        api,
		webhookSecret: cfg.StripeWebhookSecret,
		premiumPrice:  cfg.StripePremiumPrice,
		repo:          repo,
	}
}

// RegisterRoutes mounts the payment endpoints on the given group. The
// webhook stays unauthenticated; Stripe signs it instead.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, mw *auth.Middleware) {
	group.POST("/create-session", mw.Authenticate(), h.CreateSession)
	group.POST("/webhook", h.Webhook)
}

// CreateSession starts a premium-subscription checkout for the
// authenticated user.
func (h *Handler) CreateSession(c *gin.Context) {
	if h.stripe == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Payment system not configured"})
		return
	}

	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
		return
	}

	if user.SubscriptionType == "premium" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Already subscribed to premium"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(h.premiumPrice),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String("https://your-domain.com/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String("https://your-domain.com/payment/cancelled"),
		ClientReferenceID: stripe.String(user.ID),
		Metadata: map[string]string{
			"user_id": user.ID,
			"type":    "premium_subscription",
		},
	}

	session, err := h.stripe.CheckoutSessions.New(params)
	if err != nil {
		slog.Error("Failed to create checkout session", "error", err, "user_id", user.ID)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": session.ID,
		"url":        session.URL,
	})
}

// Webhook receives Stripe events. A completed checkout session upgrades
// the referenced user to premium.
func (h *Handler) Webhook(c *gin.Context) {
	if h.stripe == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Payment system not configured"})
		return
	}

	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read request body"})
		return
	}

	event, err := webhook.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to parse webhook"})
		return
	}

	if event.Type == "checkout.session.completed" {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to parse session"})
			return
		}

		userID := session.ClientReferenceID
		if userID == "" {
			slog.Error("Checkout session missing client reference ID", "session_id", session.ID)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user ID"})
			return
		}

		if session.Metadata["type"] == "premium_subscription" {
			if err := h.repo.SetSubscription(userID, "premium"); err != nil {
				// Stripe retries failed webhooks, so surface the error.
				slog.Error("Failed to upgrade user to premium", "error", err, "user_id", userID)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to apply upgrade"})
				return
			}
			slog.Info("User upgraded to premium", "user_id", userID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
