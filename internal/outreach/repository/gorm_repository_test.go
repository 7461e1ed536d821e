package repository_test

import (
	"context"
	"testing"
	"time"

	"governance-backend/internal/outreach/domain"
	"governance-backend/internal/outreach/repository"
	"governance-backend/pkg/database/databasetest"
)

func TestTransitionGuardsOnCurrentStatus(t *testing.T) {
	rec := databasetest.NewRecorder(t)
	repo := repository.NewGormOutreachQueueRepository(rec.DB)

	now := time.Now().UTC()
	if _, err := repo.Transition(context.Background(), "u1", "q1", domain.StatusPendingApproval, domain.StatusCancelled, repository.Changes{ReviewedAt: &now}); err != nil {
		t.Fatalf("transition: %v", err)
	}

	stmt := rec.Last(t)
	if !stmt.Contains(`UPDATE "outreach_queue"`, "WHERE id = $", "AND user_id = $", "AND status = $") {
		t.Fatalf("missing conditional guard in %s", stmt.SQL)
	}
	for _, v := range []interface{}{"q1", "u1", domain.StatusPendingApproval, domain.StatusCancelled} {
		if !stmt.HasVar(v) {
			t.Errorf("expected %v bound in %s (vars %v)", v, stmt.SQL, stmt.Vars)
		}
	}
}

func TestTransitionClearsSendError(t *testing.T) {
	rec := databasetest.NewRecorder(t)
	repo := repository.NewGormOutreachQueueRepository(rec.DB)

	if _, err := repo.Transition(context.Background(), "u1", "q1", domain.StatusApproved, domain.StatusSent, repository.Changes{ClearSendError: true}); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if stmt := rec.Last(t); !stmt.Contains(`"send_error"=NULL`, "AND status = $") {
		t.Errorf("unexpected SQL %s", stmt.SQL)
	}
}

func TestListScopesByUserAndStatus(t *testing.T) {
	rec := databasetest.NewRecorder(t)
	repo := repository.NewGormOutreachQueueRepository(rec.DB)

	if _, _, err := repo.List(context.Background(), "u1", domain.StatusApproved, 10, 5); err != nil {
		t.Fatalf("list: %v", err)
	}

	stmt := rec.Last(t)
	if !stmt.Contains("user_id = $", "status = $", "ORDER BY created_at DESC, id DESC", "LIMIT", "OFFSET") {
		t.Fatalf("unexpected SQL %s", stmt.SQL)
	}
	if !stmt.HasVar("u1") || !stmt.HasVar(domain.StatusApproved) {
		t.Errorf("expected user and status bound, got %v", stmt.Vars)
	}
}

func TestListKeepsOffsetWithoutLimit(t *testing.T) {
	rec := databasetest.NewRecorder(t)
	repo := repository.NewGormOutreachQueueRepository(rec.DB)

	if _, _, err := repo.List(context.Background(), "u1", "", 0, 20); err != nil {
		t.Fatalf("list: %v", err)
	}

	stmt := rec.Last(t)
	if stmt.Contains("LIMIT") {
		t.Errorf("expected no LIMIT, got %s", stmt.SQL)
	}
	if !stmt.Contains("OFFSET") {
		t.Fatalf("offset dropped: %s", stmt.SQL)
	}
	if !stmt.Contains("OFFSET 20") && !stmt.HasVar(20) {
		t.Errorf("expected offset 20 in %s (vars %v)", stmt.SQL, stmt.Vars)
	}
}
