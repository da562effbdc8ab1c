package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/proposal-builder/internal/excel"
	httphandler "github.com/nurpe/proposal-builder/internal/http"
	"github.com/nurpe/proposal-builder/internal/http/middleware"
	"github.com/nurpe/proposal-builder/internal/pdf"
	"github.com/nurpe/proposal-builder/internal/repository"
	"github.com/nurpe/proposal-builder/internal/service"
)

type client struct {
	t      *testing.T
	router *gin.Engine
	cookie string
}

func newClient(t *testing.T) *client {
	t.Helper()
	svc := service.NewProposalService(
		repository.NewMemorySnapshotRepository(),
		pdf.NewGenerator(),
		excel.NewGenerator(),
		"USD",
		zerolog.Nop(),
	)
	handler := httphandler.NewHandler(svc, zerolog.Nop())
	router := httphandler.NewRouter(handler, middleware.Session(), "test", []string{"*"})
	return &client{t: t, router: router}
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	if c.cookie == "" {
		if raw := rec.Header().Get("Set-Cookie"); raw != "" {
			c.cookie = strings.SplitN(raw, ";", 2)[0]
		}
	}

	var decoded map[string]any
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func validProposerPayload() map[string]any {
	return map[string]any{"proposer": map[string]any{
		"companyName":    "Cipher Labs",
		"companyAddress": "Cipher Labs, MG Road, Kochi",
		"companyEmail":   "hello@cipherlabs.dev",
		"companyPhone":   "+91 484 555 0199",
	}}
}

func validClientPayload() map[string]any {
	return map[string]any{"client": map[string]any{
		"clientName":    "CEO",
		"clientCompany": "Sunrise Inc.",
		"clientAddress": "MG Road, Kochi",
		"projectName":   "Product Landing Website",
	}}
}

func TestAdvanceRejectsInvalidEmail(t *testing.T) {
	c := newClient(t)
	payload := validProposerPayload()
	payload["proposer"].(map[string]any)["companyEmail"] = "not-an-email"

	rec, body := c.do(http.MethodPost, "/wizard/advance", payload)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["ok"] != false {
		t.Errorf("expected ok=false, got %v", body["ok"])
	}
}

func TestDocumentRedirectsWhenIncomplete(t *testing.T) {
	c := newClient(t)
	rec, body := c.do(http.MethodGet, "/proposal/document", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body["redirect"] != "/create" {
		t.Errorf("expected redirect to /create, got %v", body["redirect"])
	}
}

func TestFullWizardFlow(t *testing.T) {
	c := newClient(t)

	rec, body := c.do(http.MethodPost, "/wizard/advance", validProposerPayload())
	if rec.Code != http.StatusOK || body["step"] != float64(1) {
		t.Fatalf("proposer advance: %d %s", rec.Code, rec.Body.String())
	}

	rec, body = c.do(http.MethodPost, "/wizard/advance", validClientPayload())
	if rec.Code != http.StatusOK || body["step"] != float64(2) {
		t.Fatalf("client advance: %d %s", rec.Code, rec.Body.String())
	}

	// Empty sequence gates the terminal advance.
	rec, body = c.do(http.MethodPost, "/wizard/advance", nil)
	if rec.Code != http.StatusUnprocessableEntity || body["stepError"] == "" {
		t.Fatalf("expected step error: %d %s", rec.Code, rec.Body.String())
	}

	rec, body = c.do(http.MethodPost, "/wizard/items", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item: %d %s", rec.Code, rec.Body.String())
	}
	itemID := body["item"].(map[string]any)["id"].(string)

	edits := []map[string]any{
		{"field": "serviceName", "value": "Frontend Design"},
		{"field": "description", "value": "Mockup designs using Figma and React frontend"},
		{"field": "rate", "value": 50},
		{"field": "hours", "value": 3},
	}
	for _, edit := range edits {
		rec, _ = c.do(http.MethodPatch, "/wizard/items/"+itemID, edit)
		if rec.Code != http.StatusOK {
			t.Fatalf("edit %v: %d %s", edit, rec.Code, rec.Body.String())
		}
	}

	rec, body = c.do(http.MethodPost, "/wizard/advance", map[string]any{"currency": "USD"})
	if rec.Code != http.StatusOK || body["readyForPreview"] != true {
		t.Fatalf("terminal advance: %d %s", rec.Code, rec.Body.String())
	}

	rec, body = c.do(http.MethodGet, "/proposal", nil)
	if rec.Code != http.StatusOK || body["complete"] != true {
		t.Fatalf("overview: %d %s", rec.Code, rec.Body.String())
	}
	if body["total"] != float64(150) {
		t.Errorf("expected total 150, got %v", body["total"])
	}

	rec, _ = c.do(http.MethodGet, "/proposal/document?format=pdf", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("document: %d %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "Product-Landing-Website-proposal.pdf") {
		t.Errorf("unexpected disposition: %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected PDF payload")
	}
}

func TestResetFlow(t *testing.T) {
	c := newClient(t)
	if rec, _ := c.do(http.MethodPost, "/wizard/advance", validProposerPayload()); rec.Code != http.StatusOK {
		t.Fatalf("advance failed: %d", rec.Code)
	}

	rec, body := c.do(http.MethodPost, "/wizard/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("request reset: %d", rec.Code)
	}
	token := body["token"].(string)

	// A stale token must be rejected.
	rec, _ = c.do(http.MethodPost, "/wizard/reset/confirm", map[string]any{"token": "00000000-0000-0000-0000-000000000000"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for bad token, got %d", rec.Code)
	}

	rec, _ = c.do(http.MethodPost, "/wizard/reset/confirm", map[string]any{"token": token})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("confirm reset: %d %s", rec.Code, rec.Body.String())
	}

	rec, body = c.do(http.MethodGet, "/proposal", nil)
	proposal := body["proposal"].(map[string]any)
	if proposal["companyName"] != "" {
		t.Errorf("expected cleared draft, got %v", proposal["companyName"])
	}
	_, body = c.do(http.MethodGet, "/wizard", nil)
	if body["step"] != float64(0) {
		t.Errorf("expected step 0 after reset, got %v", body["step"])
	}
}

func TestCurrenciesEndpoint(t *testing.T) {
	c := newClient(t)
	rec, body := c.do(http.MethodGet, "/currencies", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("currencies: %d", rec.Code)
	}
	list, ok := body["currencies"].([]any)
	if !ok || len(list) == 0 {
		t.Errorf("expected currency list, got %v", body)
	}
}
