package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	auditDelivery "governance-backend/internal/audit/delivery"
	authUsecase "governance-backend/internal/auth/usecase"
	conversationDelivery "governance-backend/internal/conversation/delivery"
	filterRuleDelivery "governance-backend/internal/filterrule/delivery"
	notifyDelivery "governance-backend/internal/notify/delivery"
	outreachDelivery "governance-backend/internal/outreach/delivery"
	"governance-backend/internal/policy"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Handler owns the HTTP surface of the governance core
type Handler struct {
	tokenUsecase authUsecase.TokenUsecase
	features     policy.FeatureSet

	outreachHandler     *outreachDelivery.OutreachHandler
	conversationHandler *conversationDelivery.ConversationHandler
	filterRuleHandler   *filterRuleDelivery.FilterRuleHandler
	auditHandler        *auditDelivery.AuditHandler
	deviceHandler       *notifyDelivery.DeviceHandler
}

// Handlers groups the per-feature HTTP handlers
type Handlers struct {
	Outreach     *outreachDelivery.OutreachHandler
	Conversation *conversationDelivery.ConversationHandler
	FilterRule   *filterRuleDelivery.FilterRuleHandler
	Audit        *auditDelivery.AuditHandler
	Device       *notifyDelivery.DeviceHandler
}

func NewHandler(tokenUc authUsecase.TokenUsecase, features policy.FeatureSet, handlers Handlers) *Handler {
	return &Handler{
		tokenUsecase:        tokenUc,
		features:            features,
		outreachHandler:     handlers.Outreach,
		conversationHandler: handlers.Conversation,
		filterRuleHandler:   handlers.FilterRule,
		auditHandler:        handlers.Audit,
		deviceHandler:       handlers.Device,
	}
}

// Engine builds the gin engine with CORS and every route registered.
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), corsMiddleware())

	SetupRoutes(r, h)
	return r
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("[HTTP] - Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("[HTTP] - Server stopped")
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
