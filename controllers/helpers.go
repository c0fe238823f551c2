package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/d3vsino/myfittrackbackend/config"
	"github.com/d3vsino/myfittrackbackend/foodsearch"
	"github.com/d3vsino/myfittrackbackend/llm"
	"github.com/d3vsino/myfittrackbackend/middleware"
)

var (
	cfg        *config.Config
	llmClient  *llm.Client
	foodClient *foodsearch.Client
)

// Init wires the controllers to the loaded configuration and the external
// API clients. Must be called before the router starts serving.
func Init(c *config.Config) {
	cfg = c
	llmClient = llm.NewClient(c.LLM)
	foodClient = foodsearch.NewClient(c.Food)
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func getUserID(r *http.Request) (uint, error) {
	if id, ok := middleware.UserIDFromContext(r.Context()); ok {
		return id, nil
	}
	return 0, http.ErrNoCookie
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
