package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avennor/unleash-mcp/internal/unleash"
)

func TestUpdateStrategyTool_Definition(t *testing.T) {
	tool := NewUpdateStrategyTool(nil, nil, "development")
	def := tool.Definition()

	if def.Name != "update_flag_strategy" {
		t.Errorf("expected tool name 'update_flag_strategy', got %q", def.Name)
	}
}

func TestUpdateStrategyTool_Handle_AddStrategy(t *testing.T) {
	var gotPath, gotMethod string
	var got unleash.Strategy
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		got.ID = "st-123"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(got)
	})
	journal := &memJournal{}
	tool := NewUpdateStrategyTool(client, journal, "development")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"project_id":  "default",
		"flag_name":   "new-checkout",
		"environment": "production",
		"rollout":     float64(25),
	}
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}

	wantPath := "/api/admin/projects/default/features/new-checkout/environments/production/strategies"
	if gotPath != wantPath || gotMethod != http.MethodPost {
		t.Errorf("expected POST %s, got %s %s", wantPath, gotMethod, gotPath)
	}
	if got.Name != "flexibleRollout" {
		t.Errorf("expected flexibleRollout strategy, got %q", got.Name)
	}
	if got.Parameters["rollout"] != "25" {
		t.Errorf("rollout must be serialized as a string, got %+v", got.Parameters)
	}
	if got.Parameters["stickiness"] != "default" {
		t.Errorf("expected default stickiness, got %+v", got.Parameters)
	}
	if _, ok := got.Parameters["groupId"]; ok {
		t.Error("groupId must stay out of the payload when not supplied")
	}

	text := getResultText(result)
	if !strings.Contains(text, "# Strategy Added") {
		t.Errorf("expected added header, got: %s", text)
	}
	if !strings.Contains(text, "st-123") {
		t.Errorf("expected server-assigned strategy id in response: %s", text)
	}
	if !strings.Contains(text, "25%") {
		t.Errorf("expected rollout percentage in response: %s", text)
	}

	if len(journal.entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(journal.entries))
	}
	if journal.entries[0].Detail != "environment=production rollout=25%" {
		t.Errorf("unexpected detail: %q", journal.entries[0].Detail)
	}
}

func TestUpdateStrategyTool_Handle_UpdateExisting(t *testing.T) {
	var gotPath, gotMethod string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		var s unleash.Strategy
		json.NewDecoder(r.Body).Decode(&s)
		s.ID = "st-123"
		json.NewEncoder(w).Encode(s)
	})
	tool := NewUpdateStrategyTool(client, nil, "development")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"project_id":  "default",
		"flag_name":   "new-checkout",
		"environment": "production",
		"strategy_id": "st-123",
		"rollout":     float64(50),
		"group_id":    "checkout",
	}
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	wantPath := "/api/admin/projects/default/features/new-checkout/environments/production/strategies/st-123"
	if gotPath != wantPath || gotMethod != http.MethodPut {
		t.Errorf("expected PUT %s, got %s %s", wantPath, gotMethod, gotPath)
	}
	if !strings.Contains(getResultText(result), "# Strategy Updated") {
		t.Errorf("expected updated header, got: %s", getResultText(result))
	}
}

func TestUpdateStrategyTool_Handle_DefaultsTo100Percent(t *testing.T) {
	var got unleash.Strategy
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(got)
	})
	tool := NewUpdateStrategyTool(client, nil, "development")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"project_id": "default",
		"flag_name":  "new-checkout",
	}
	if _, err := tool.Handle(context.Background(), req); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if got.Parameters["rollout"] != "100" {
		t.Errorf("expected rollout to default to 100, got %+v", got.Parameters)
	}
}

func TestUpdateStrategyTool_Handle_RolloutOutOfRange(t *testing.T) {
	called := false
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	tool := NewUpdateStrategyTool(client, nil, "development")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"project_id": "default",
		"flag_name":  "new-checkout",
		"rollout":    float64(150),
	}
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "between 0 and 100") {
		t.Errorf("expected range error, got: %s", getResultText(result))
	}
	if called {
		t.Error("invalid rollout must be rejected before any API call")
	}
}

func TestUpdateStrategyTool_Handle_NotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	})
	tool := NewUpdateStrategyTool(client, nil, "development")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"project_id":  "default",
		"flag_name":   "new-checkout",
		"strategy_id": "st-gone",
	}
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result for a missing strategy")
	}
	if !strings.Contains(getResultText(result), "st-gone") {
		t.Errorf("error should name the strategy id: %s", getResultText(result))
	}

	// No strategy_id: the message points at the flag or environment instead.
	req.Params.Arguments = map[string]interface{}{
		"project_id": "default",
		"flag_name":  "ghost-flag",
	}
	result, err = tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "ghost-flag") {
		t.Errorf("error should name the flag: %s", getResultText(result))
	}
	if strings.Contains(getResultText(result), `strategy ""`) {
		t.Errorf("error must not mention an empty strategy id: %s", getResultText(result))
	}
}
