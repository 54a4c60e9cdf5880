// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, map[string]any{"id": 3, "variables": []string{"a"}})

	if rr.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"id":3,"variables":["a"]}` {
		t.Errorf("body: got %s", got)
	}
}

func TestError(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, http.StatusNotFound, "prompt not found")

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Error != "prompt not found" {
		t.Errorf("error: got %q", body.Error)
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Template string `json:"template"`
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "valid", body: `{"template":"Hi {{name}}"}`, want: "Hi {{name}}"},
		{name: "empty body", body: "", want: "keep"},
		{name: "unknown fields ignored", body: `{"template":"x","other":1}`, want: "x"},
		{name: "malformed", body: `{"template":`, wantErr: true},
		{name: "wrong type", body: `{"template":5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			p := payload{Template: "keep"}
			err := Decode(req, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p.Template != tt.want {
				t.Errorf("Template = %q, want %q", p.Template, tt.want)
			}
		})
	}
}
