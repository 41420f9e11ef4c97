package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Extract_ParsesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if req.Text != "会議メモ" {
			t.Errorf("text = %q", req.Text)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]string{
				{"title": "資料を送付する", "assignee": "佐藤", "due_date": "2026-09-01"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client(), testLogger(), server.URL)

	items, err := client.Extract(context.Background(), "会議メモ")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	if items[0].Title != "資料を送付する" || items[0].Assignee != "佐藤" || items[0].DueDate != "2026-09-01" {
		t.Errorf("unexpected item: %+v", items[0])
	}
}

func TestClient_Extract_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.Client(), testLogger(), server.URL)

	if _, err := client.Extract(context.Background(), "memo"); err == nil {
		t.Error("non-200 status should be an error")
	}
}

func TestClient_Extract_InvalidJSONIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), testLogger(), server.URL)

	if _, err := client.Extract(context.Background(), "memo"); err == nil {
		t.Error("unparseable response should be an error")
	}
}
