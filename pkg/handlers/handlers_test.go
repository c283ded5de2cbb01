package handlers_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/content-lab/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	handlers.RespondJSON(rec, http.StatusCreated, map[string]string{"title": "x"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["title"] != "x" {
		t.Errorf("body = %v, %v", body, err)
	}
}

func TestRespondAlertError(t *testing.T) {
	rec := httptest.NewRecorder()

	handlers.RespondAlertError(rec, slog.New(slog.DiscardHandler), http.StatusBadRequest, "task", "idexists", errors.New("a new task cannot already have an id"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := rec.Header().Get(handlers.HeaderAlertError); got != "task.idexists" {
		t.Errorf("%s = %q, want task.idexists", handlers.HeaderAlertError, got)
	}

	var body handlers.ErrorBody
	json.NewDecoder(rec.Body).Decode(&body)
	want := handlers.ErrorBody{Error: "a new task cannot already have an id", Entity: "task", Key: "idexists"}
	if body != want {
		t.Errorf("body = %+v, want %+v", body, want)
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, slog.New(slog.DiscardHandler), http.StatusInternalServerError, errors.New("boom"))

	var body handlers.ErrorBody
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Error != "boom" || body.Entity != "" {
		t.Errorf("body = %+v, want error only", body)
	}
	if rec.Header().Get(handlers.HeaderAlertError) != "" {
		t.Error("RespondError() set an alert header")
	}
}

func TestSetAlert(t *testing.T) {
	tests := []struct {
		name       string
		param      string
		wantParams bool
	}{
		{"with param", "42", true},
		{"without param", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.SetAlert(rec, "article", "deleted", tt.param)

			if got := rec.Header().Get(handlers.HeaderAlert); got != "article.deleted" {
				t.Errorf("%s = %q, want article.deleted", handlers.HeaderAlert, got)
			}
			_, ok := rec.Header()[handlers.HeaderAlertParams]
			if ok != tt.wantParams {
				t.Errorf("params header present = %v, want %v", ok, tt.wantParams)
			}
		})
	}
}
