package fraudcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderplus/orderplus-backend/pkg/config"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
)

func TestCheckPassesThroughUpstreamJSON(t *testing.T) {
	var gotPhone string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotPhone = r.URL.Query().Get("phone")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_parcels":12,"success_ratio":0.83}`))
	}))
	defer srv.Close()

	client := NewClient(config.FraudCheckConfig{}, WithBaseURL(srv.URL))

	raw, err := client.Check(context.Background(), "01712345678")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if gotPhone != "01712345678" {
		t.Errorf("upstream received phone %q", gotPhone)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal passthrough: %v", err)
	}
	if decoded["total_parcels"] != float64(12) {
		t.Errorf("unexpected passthrough payload: %v", decoded)
	}
}

func TestCheckRequiresPhone(t *testing.T) {
	client := NewClient(config.FraudCheckConfig{}, WithBaseURL("http://localhost:0"))

	_, err := client.Check(context.Background(), "   ")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCheckWrapsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(config.FraudCheckConfig{}, WithBaseURL(srv.URL))

	_, err := client.Check(context.Background(), "01712345678")
	if err == nil {
		t.Fatalf("expected dependency error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestCheckRejectsNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(config.FraudCheckConfig{}, WithBaseURL(srv.URL))

	if _, err := client.Check(context.Background(), "01712345678"); err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
}
