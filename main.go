package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	api "governance-backend/cmd/api"
	auditDelivery "governance-backend/internal/audit/delivery"
	auditdomain "governance-backend/internal/audit/domain"
	auditRepo "governance-backend/internal/audit/repository"
	auditUsecase "governance-backend/internal/audit/usecase"
	authUsecase "governance-backend/internal/auth/usecase"
	"governance-backend/internal/conversation/classifier"
	conversationDelivery "governance-backend/internal/conversation/delivery"
	conversationdomain "governance-backend/internal/conversation/domain"
	conversationRepo "governance-backend/internal/conversation/repository"
	conversationUsecase "governance-backend/internal/conversation/usecase"
	filterRuleDelivery "governance-backend/internal/filterrule/delivery"
	filterruledomain "governance-backend/internal/filterrule/domain"
	filterRuleRepo "governance-backend/internal/filterrule/repository"
	filterRuleUsecase "governance-backend/internal/filterrule/usecase"
	leadRepo "governance-backend/internal/lead/repository"
	notifyDelivery "governance-backend/internal/notify/delivery"
	notifydomain "governance-backend/internal/notify/domain"
	notifyRepo "governance-backend/internal/notify/repository"
	notifyUsecase "governance-backend/internal/notify/usecase"
	outreachDelivery "governance-backend/internal/outreach/delivery"
	"governance-backend/internal/outreach/dispatch"
	outreachdomain "governance-backend/internal/outreach/domain"
	outreachRepo "governance-backend/internal/outreach/repository"
	outreachUsecase "governance-backend/internal/outreach/usecase"
	"governance-backend/internal/policy"
	"governance-backend/pkg/config"
	"governance-backend/pkg/database"
	"governance-backend/pkg/fcm"
	"governance-backend/pkg/pubsub"
	"governance-backend/pkg/queue"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource so its deferred cleanup always executes.
func run() error {
	// Load configuration
	cfg := config.Load()

	mode, err := policy.ParseMode(cfg.EnvironmentMode)
	if err != nil {
		return fmt.Errorf("invalid environment mode: %w", err)
	}
	features := policy.Resolve(mode, cfg.LaunchEnabled)
	log.Printf("[POLICY] - mode=%s requiresApproval=%t liveIntegrations=%t launchSwitch=%t",
		features.Mode, features.RequiresApproval, features.LiveIntegrations, features.LaunchSwitch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	// Leads are owned by the lead-sourcing service and only read here
	if err := db.AutoMigrate(
		&auditdomain.AuditEntry{},
		&conversationdomain.Conversation{},
		&filterruledomain.FilterRule{},
		&outreachdomain.QueuedOutreachItem{},
		&notifydomain.DeviceToken{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories (dependency injection)
	auditRepository := auditRepo.NewGormAuditRepository(db)
	conversationRepository := conversationRepo.NewGormConversationRepository(db)
	filterRuleRepository := filterRuleRepo.NewGormFilterRuleRepository(db)
	queueRepository := outreachRepo.NewGormOutreachQueueRepository(db)
	deviceTokenRepository := notifyRepo.NewDeviceTokenRepository(db)
	leadProvider := leadRepo.NewLeadRepository(db)

	// Audit trail with background reconciliation of failed writes
	reconciler := auditUsecase.NewReconciler(auditRepository, cfg.AuditRetryInterval)
	reconciler.Start()
	defer reconciler.Stop()
	trail := auditUsecase.NewTrail(auditRepository, reconciler)

	adapter, closeAdapter, err := newDeliveryAdapter(ctx, cfg, features)
	if err != nil {
		return err
	}
	defer closeAdapter()

	// Reviewer push notifications (optional)
	var notifier *notifyUsecase.ReviewerNotifier
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			notifier = notifyUsecase.NewReviewerNotifier(deviceTokenRepository, fcmClient)
			defer notifier.Wait()
		}
	} else {
		log.Printf("[WARN] No Firebase credentials configured, reviewer push disabled")
	}

	// Initialize use cases (dependency injection)
	var gateNotifier outreachUsecase.ReviewerNotifier
	if notifier != nil {
		gateNotifier = notifier
	}
	gateUc := outreachUsecase.NewGateUsecase(features, queueRepository, trail, adapter, gateNotifier)
	queueUc := outreachUsecase.NewQueueUsecase(features, queueRepository, leadProvider, trail, adapter)
	conversationUc := conversationUsecase.NewConversationUsecase(
		conversationRepository, filterRuleRepository, leadProvider, trail,
		classifier.Options{MinConfidence: cfg.ClassifierMinConfidence},
	)
	filterRuleUc := filterRuleUsecase.NewFilterRuleUsecase(filterRuleRepository, trail)
	auditUc := auditUsecase.NewAuditUsecase(auditRepository)
	deviceUc := notifyUsecase.NewDeviceUsecase(deviceTokenRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecase.NewTokenUsecase(cfg.JWTSecret), features, api.Handlers{
		Outreach:     outreachDelivery.NewOutreachHandler(gateUc, queueUc),
		Conversation: conversationDelivery.NewConversationHandler(conversationUc),
		FilterRule:   filterRuleDelivery.NewFilterRuleHandler(filterRuleUc),
		Audit:        auditDelivery.NewAuditHandler(auditUc),
		Device:       notifyDelivery.NewDeviceHandler(deviceUc),
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- handler.Start(ctx, ":"+cfg.Port)
	}()

	if err := waitForShutdown(cancel, errChan); err != nil {
		log.Printf("[SHUTDOWN] - Server error: %v", err)
	}

	reconciler.RetryPending(context.Background())
	if n := reconciler.Pending(); n > 0 {
		log.Printf("[AUDIT-GAP] %d audit entries still unwritten at shutdown", n)
	}
	return nil
}

// newDeliveryAdapter connects the configured hand-off backend. Without live
// integrations nothing is ever transmitted, so no connection is opened.
func newDeliveryAdapter(ctx context.Context, cfg *config.Config, features policy.FeatureSet) (dispatch.Adapter, func(), error) {
	noop := func() {}
	if !features.LiveIntegrations {
		log.Printf("[DELIVERY] - Live integrations off, delivery backend %q not connected", cfg.DeliveryBackend)
		return nil, noop, nil
	}

	switch cfg.DeliveryBackend {
	case config.DeliveryRabbitMQ:
		rabbit := queue.NewRabbitMQ(queue.Options{
			URL:        cfg.RabbitMQURL,
			Exchange:   cfg.RabbitMQExchange,
			Queue:      cfg.RabbitMQQueue,
			RoutingKey: cfg.RabbitMQRoutingKey,
		})
		if err := rabbit.Dial(); err != nil {
			return nil, noop, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		return dispatch.NewPublisherAdapter(config.DeliveryRabbitMQ, rabbit), func() {
			if err := rabbit.Close(); err != nil {
				log.Printf("[SHUTDOWN] - Error closing RabbitMQ: %v", err)
			}
		}, nil

	case config.DeliveryPubSub:
		// Accept either the short topic name or the full resource name
		topicName := cfg.GooglePubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}
		publisher, err := pubsub.NewPublisher(ctx, cfg.GoogleProjectID, topicName, cfg.GoogleCredentials)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize Pub/Sub publisher: %w", err)
		}
		return dispatch.NewPublisherAdapter(config.DeliveryPubSub, publisher), func() {
			if err := publisher.Close(); err != nil {
				log.Printf("[SHUTDOWN] - Error closing Pub/Sub client: %v", err)
			}
		}, nil

	default:
		log.Printf("[WARN] Live integrations on but DELIVERY_BACKEND=%q, approved outreach cannot be sent", cfg.DeliveryBackend)
		return nil, noop, nil
	}
}

func waitForShutdown(cancel context.CancelFunc, errChan <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("[SHUTDOWN] - Received shutdown signal")
	case err := <-errChan:
		cancel()
		return err
	}

	cancel()
	// Start returns once in-flight requests have drained
	return <-errChan
}
