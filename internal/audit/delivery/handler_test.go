package delivery_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"governance-backend/internal/audit/delivery"
	"governance-backend/internal/audit/domain"
	"governance-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type stubUsecase struct {
	page *domain.Page
	err  error

	gotLimit, gotOffset int
	gotConversation     string
}

func (s *stubUsecase) List(_ context.Context, _, conversationID string, limit, offset int) (*domain.Page, error) {
	s.gotConversation, s.gotLimit, s.gotOffset = conversationID, limit, offset
	return s.page, s.err
}

func serve(uc *stubUsecase, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Next()
	})
	r.GET("/audit", delivery.NewAuditHandler(uc).GetEntries)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetEntriesPassesPaging(t *testing.T) {
	uc := &stubUsecase{page: &domain.Page{Entries: []*domain.AuditEntry{}, Total: 3, Limit: 2, Offset: 1, HasMore: false}}

	w := serve(uc, "/audit?limit=2&offset=1&conversationId=conv-9")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if uc.gotLimit != 2 || uc.gotOffset != 1 || uc.gotConversation != "conv-9" {
		t.Errorf("unexpected paging passed: limit=%d offset=%d conv=%q", uc.gotLimit, uc.gotOffset, uc.gotConversation)
	}
}

func TestGetEntriesMapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"persistence", apperror.NewPersistence("list audit entries", errors.New("db down")), http.StatusInternalServerError},
		{"validation", apperror.NewValidation("limit", "must be positive"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&stubUsecase{err: tt.err}, "/audit")
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("expected error %q, got %v", tt.err.Error(), body["error"])
			}
		})
	}
}
