package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/api"
	"github.com/rentora/rentora/internal/models"
)

func TestAuditQuery_Filters(t *testing.T) {
	t.Parallel()

	actor := uuid.MustParse("00000000-0000-0000-0000-000000000003")

	svc := &mockAuditSvc{
		queryFn: func(_ context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
			if opts.PropertyID != 7 {
				t.Errorf("expected property_id 7, got %d", opts.PropertyID)
			}

			if opts.Action != "lease.paid" {
				t.Errorf("expected action 'lease.paid', got %q", opts.Action)
			}

			if opts.Actor != actor {
				t.Errorf("expected actor %s, got %s", actor, opts.Actor)
			}

			if opts.Since == nil {
				t.Error("expected since filter to be set")
			}

			return []models.AuditEntry{
				{ID: 2, PropertyID: 7, Action: "lease.paid", Actor: actor, CreatedAt: time.Now()},
			}, false, nil
		},
	}

	r := newTestRouter()
	h := api.NewAuditHandler(svc, testLogger())
	r.GET("/audit", h.Query)

	path := "/audit?property_id=7&action=lease.paid&actor=" + actor.String() + "&since=2026-01-01T00:00:00Z"
	w := doRequest(r, http.MethodGet, path, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data    []models.AuditEntry `json:"data"`
		HasMore bool                `json:"has_more"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp.Data))
	}
}

func TestAuditQuery_BadPropertyID(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewAuditHandler(&mockAuditSvc{}, testLogger())
	r.GET("/audit", h.Query)

	w := doRequest(r, http.MethodGet, "/audit?property_id=abc", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuditQuery_BadActor(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewAuditHandler(&mockAuditSvc{}, testLogger())
	r.GET("/audit", h.Query)

	w := doRequest(r, http.MethodGet, "/audit?actor=not-a-uuid", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuditQuery_BadSince(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewAuditHandler(&mockAuditSvc{}, testLogger())
	r.GET("/audit", h.Query)

	w := doRequest(r, http.MethodGet, "/audit?since=yesterday", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
