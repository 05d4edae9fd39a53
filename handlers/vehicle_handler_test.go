package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"
)

func TestWriteGuardError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not ready", fmt.Errorf("%w: score 83", ErrNotReady), http.StatusConflict},
		{"incomplete documents", ErrIncompleteDocuments, http.StatusConflict},
		{"illegal transition", fmt.Errorf("%w: new -> approved", ErrIllegalTransition), http.StatusConflict},
		{"terminal status", ErrTerminalStatus, http.StatusConflict},
		{"invalid status", fmt.Errorf("%w: %q", ErrInvalidStatus, "parked"), http.StatusBadRequest},
		{"invalid role", ErrInvalidRole, http.StatusForbidden},
		{"record not found", fmt.Errorf("vehicle not found: %w", gorm.ErrRecordNotFound), http.StatusNotFound},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeGuardError(rec, tt.err)
			if rec.Code != tt.status {
				t.Errorf("writeGuardError(%v) wrote %d, expected %d", tt.err, rec.Code, tt.status)
			}
		})
	}
}
