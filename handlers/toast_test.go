package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func readToast(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	trigger := rec.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("expected HX-Trigger header to be set")
	}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trigger), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	var toast map[string]string
	if err := json.Unmarshal(parsed["showToast"], &toast); err != nil {
		t.Fatalf("showToast value is not valid JSON: %v", err)
	}
	return toast
}

func TestSetToast_Types(t *testing.T) {
	tests := []struct {
		toastType string
		message   string
	}{
		{"success", "Sent to 3 subscribers"},
		{"error", "Something went wrong"},
		{"warning", "Sent 2 of 3, 1 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.toastType, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := &core.RequestEvent{}
			e.Response = rec

			SetToast(e, tt.toastType, tt.message)

			toast := readToast(t, rec)
			if toast["type"] != tt.toastType {
				t.Errorf("type = %q, want %q", toast["type"], tt.toastType)
			}
			if toast["message"] != tt.message {
				t.Errorf("message = %q, want %q", toast["message"], tt.message)
			}
		})
	}
}

func TestSetToast_MergesExistingTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", `{"refreshList":true}`)

	SetToast(e, "success", "Contact updated")

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	if _, ok := parsed["refreshList"]; !ok {
		t.Error("existing refreshList event was dropped")
	}
	if toast := readToast(t, rec); toast["message"] != "Contact updated" {
		t.Errorf("message = %q", toast["message"])
	}
}

func TestSetToast_InvalidExistingTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", "not-json")

	SetToast(e, "error", "Oops")

	if toast := readToast(t, rec); toast["type"] != "error" {
		t.Errorf("type = %q, want error", toast["type"])
	}
}
