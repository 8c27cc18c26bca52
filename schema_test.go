package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSchemaEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	handleSchema(rec, httptest.NewRequest(http.MethodGet, SchemaPath, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Arena Protocol", "gameData", "roomSize", "targetId", "radius"} {
		if !strings.Contains(body, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
