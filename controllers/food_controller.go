package controllers

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/d3vsino/myfittrackbackend/logger"
)

// FoodSearch proxies a free-text product query to the food database.
func FoodSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing search query (q)")
		return
	}

	results, err := foodClient.Search(r.Context(), query)
	if err != nil {
		logger.Error("Food search failed", "error", err, "query", query)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Food search failed", Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// maxMealImageBytes caps uploads at 10 MiB.
const maxMealImageBytes = 10 << 20

// AnalyzeMeal estimates macros from an uploaded meal photo. The model answers
// in free text; the response passes that text through without parsing.
func AnalyzeMeal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMealImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	// Read one byte past the cap so an oversized upload is rejected rather
	// than silently truncated.
	imageBytes, err := io.ReadAll(io.LimitReader(file, maxMealImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return
	}
	if len(imageBytes) > maxMealImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "Image exceeds the 10 MiB limit")
		return
	}

	macros, err := llmClient.AnalyzeMealImage(r.Context(), base64.StdEncoding.EncodeToString(imageBytes))
	if err != nil {
		logger.Error("Meal image analysis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to analyze meal image", Detail: err.Error()})
		return
	}

	logger.Info("Meal image analyzed", "image_bytes", len(imageBytes))
	writeJSON(w, http.StatusOK, map[string]string{"macros": macros})
}
