package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ko-stant/melody-dungeon/internal/game"
)

// APIError is the JSON body of a failed HTTP request
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, &APIError{Code: code, Message: message})
}

// asGameError reports whether err is a rejected player action
func asGameError(err error) (*game.Error, bool) {
	var ge *game.Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
