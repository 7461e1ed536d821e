package repository_test

import (
	"context"
	"testing"

	"governance-backend/internal/filterrule/repository"
	"governance-backend/pkg/database/databasetest"
)

func TestSetActiveGuardsOnCurrentState(t *testing.T) {
	rec := databasetest.NewRecorder(t)
	repo := repository.NewGormFilterRuleRepository(rec.DB)

	if _, err := repo.SetActive(context.Background(), "u1", "r1", true, false); err != nil {
		t.Fatalf("set active: %v", err)
	}

	stmt := rec.Last(t)
	if !stmt.Contains(`UPDATE "conversation_filter_rules"`, "WHERE id = $", "AND user_id = $", "AND is_active = $") {
		t.Fatalf("missing conditional guard in %s", stmt.SQL)
	}
	if !stmt.HasVar("r1") || !stmt.HasVar("u1") || !stmt.HasVar(true) || !stmt.HasVar(false) {
		t.Errorf("unexpected vars %v", stmt.Vars)
	}
}

func TestDeleteScopesByUser(t *testing.T) {
	rec := databasetest.NewRecorder(t)
	repo := repository.NewGormFilterRuleRepository(rec.DB)

	if _, err := repo.Delete(context.Background(), "u1", "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if stmt := rec.Last(t); !stmt.Contains(`DELETE FROM "conversation_filter_rules"`, "id = $", "AND user_id = $") {
		t.Errorf("unexpected SQL %s", stmt.SQL)
	}
}

func TestFindActiveOrdersOldestFirst(t *testing.T) {
	rec := databasetest.NewRecorder(t)
	repo := repository.NewGormFilterRuleRepository(rec.DB)

	if _, err := repo.FindActiveByUserID(context.Background(), "u1"); err != nil {
		t.Fatalf("find: %v", err)
	}
	if stmt := rec.Last(t); !stmt.Contains("user_id = $", "is_active = $", "ORDER BY created_at ASC, id ASC") {
		t.Errorf("unexpected SQL %s", stmt.SQL)
	}
}
