package config

import (
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", " Production ")
	t.Setenv("OUTREACH_LAUNCH_ENABLED", "true")
	t.Setenv("DELIVERY_BACKEND", "RabbitMQ")
	t.Setenv("AUDIT_RETRY_INTERVAL", "5s")
	t.Setenv("CLASSIFIER_MIN_CONFIDENCE", "0.65")

	cfg := Load()

	if cfg.EnvironmentMode != "production" {
		t.Errorf("expected normalized mode production, got %q", cfg.EnvironmentMode)
	}
	if !cfg.LaunchEnabled {
		t.Errorf("expected launch switch on")
	}
	if cfg.DeliveryBackend != DeliveryRabbitMQ {
		t.Errorf("expected rabbitmq backend, got %q", cfg.DeliveryBackend)
	}
	if cfg.AuditRetryInterval != 5*time.Second {
		t.Errorf("expected 5s retry interval, got %v", cfg.AuditRetryInterval)
	}
	if cfg.ClassifierMinConfidence != 0.65 {
		t.Errorf("expected 0.65 min confidence, got %v", cfg.ClassifierMinConfidence)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("OUTREACH_LAUNCH_ENABLED", "")
	t.Setenv("PORT", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LaunchEnabled {
		t.Errorf("launch switch must default to off")
	}
	if cfg.AuditRetryInterval != 30*time.Second {
		t.Errorf("expected default retry interval 30s, got %v", cfg.AuditRetryInterval)
	}
}
