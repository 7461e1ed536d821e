package delivery_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"governance-backend/internal/audit/audittest"
	auditusecase "governance-backend/internal/audit/usecase"
	"governance-backend/internal/conversation/classifier"
	"governance-backend/internal/conversation/conversationtest"
	"governance-backend/internal/conversation/delivery"
	"governance-backend/internal/conversation/usecase"
	"governance-backend/internal/filterrule/filterruletest"
	"governance-backend/internal/lead/leadtest"

	"github.com/gin-gonic/gin"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	uc := usecase.NewConversationUsecase(
		conversationtest.NewMemoryRepository(),
		filterruletest.NewMemoryRepository(),
		leadtest.NewStaticProvider(),
		auditusecase.NewTrail(audittest.NewMemoryRepository(), nil),
		classifier.Options{},
	)
	h := delivery.NewConversationHandler(uc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Next()
	})
	r.GET("/conversations", h.GetConversations)
	r.POST("/conversations", h.ImportConversation)
	r.PATCH("/conversations", h.UpdateConversation)
	return r
}

func send(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportThenReclassify(t *testing.T) {
	r := setupRouter()

	w := send(r, http.MethodPost, "/conversations", `{"linkedinThreadId":"t-1","participantName":"Tom","lastMessagePreview":"haha birthday party"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("import: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var imported struct {
		Conversation struct {
			ID             string `json:"id"`
			Classification string `json:"classification"`
		} `json:"conversation"`
		Created bool `json:"created"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &imported); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !imported.Created || imported.Conversation.Classification != "personal" {
		t.Fatalf("unexpected import: %+v", imported)
	}

	w = send(r, http.MethodPost, "/conversations", `{"linkedinThreadId":"t-1","participantName":"Tom"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"created":false`) {
		t.Fatalf("reimport: unexpected %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPatch, "/conversations", `{"conversationId":"`+imported.Conversation.ID+`","action":"reclassify","classification":"professional","reason":"client"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("reclassify: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodGet, "/conversations?classification=professional", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":1`) {
		t.Fatalf("list: unexpected %d %s", w.Code, w.Body.String())
	}
}

func TestUpdateConversationErrors(t *testing.T) {
	r := setupRouter()

	if w := send(r, http.MethodPatch, "/conversations", `{"conversationId":"x","action":"archive"}`); w.Code != http.StatusBadRequest {
		t.Errorf("unknown action: expected 400, got %d", w.Code)
	}
	if w := send(r, http.MethodPatch, "/conversations", `{"conversationId":"missing","action":"exclude"}`); w.Code != http.StatusNotFound {
		t.Errorf("missing conversation: expected 404, got %d", w.Code)
	}
	if w := send(r, http.MethodGet, "/conversations?excluded=maybe", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad excluded flag: expected 400, got %d", w.Code)
	}
}
