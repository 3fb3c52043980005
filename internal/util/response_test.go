package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestJSONFieldName(t *testing.T) {
	tests := map[string]string{
		"UpperLimit": "upperLimit",
		"APIKey":     "apiKey",
		"ID":         "id",
		"pair":       "pair",
	}
	for in, want := range tests {
		if got := jsonFieldName(in); got != want {
			t.Fatalf("jsonFieldName(%q) got %q want %q", in, got, want)
		}
	}
}

func TestSendErrorHidesUnknownErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendError(c, errors.New("redis: connection refused"))

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusInternalServerError || resp.Error == nil || resp.Error.Code != ErrCodeInternal {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}
	if resp.Error.Message != "Internal server error" {
		t.Fatalf("got message %q", resp.Error.Message)
	}
}
