package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/d3vsino/myfittrackbackend/database"
	"github.com/d3vsino/myfittrackbackend/logger"
	"github.com/d3vsino/myfittrackbackend/models"
)

type CalorieLogRequest struct {
	Date     string   `json:"date"`
	Calories uint     `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Carbs    *float64 `json:"carbs"`
	Notes    string   `json:"notes"`
}

// ListCalorieLogs returns the caller's daily logs, newest date first.
func ListCalorieLogs(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var logs []models.CalorieLog
	if err := database.DB.Where("user_id = ?", userID).Order("date desc").Find(&logs).Error; err != nil {
		logger.Error("Failed to fetch calorie logs", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch calorie logs")
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

// CreateCalorieLog records one day's intake. A second log for the same day
// violates the (user, date) uniqueness and is rejected, never overwritten.
func CreateCalorieLog(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CalorieLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Date must be formatted YYYY-MM-DD")
		return
	}

	entry := models.CalorieLog{
		UserID:   userID,
		Date:     models.LogDate(date),
		Calories: req.Calories,
		Protein:  req.Protein,
		Fat:      req.Fat,
		Carbs:    req.Carbs,
		Notes:    req.Notes,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "A log already exists for this date")
			return
		}
		logger.Error("Failed to create calorie log", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create calorie log")
		return
	}

	logger.Info("Calorie log created", "user_id", userID, "date", req.Date, "calories", req.Calories)
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateCalorieLog patches an owned log entry.
func UpdateCalorieLog(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	logID, err := strconv.ParseUint(chi.URLParam(r, "log_id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid log ID")
		return
	}

	var entry models.CalorieLog
	if err := database.DB.Where("id = ? AND user_id = ?", logID, userID).First(&entry).Error; err != nil {
		writeError(w, http.StatusNotFound, "Log not found")
		return
	}

	var req struct {
		Calories *uint    `json:"calories"`
		Protein  *float64 `json:"protein"`
		Fat      *float64 `json:"fat"`
		Carbs    *float64 `json:"carbs"`
		Notes    *string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Calories != nil {
		entry.Calories = *req.Calories
	}
	if req.Protein != nil {
		entry.Protein = req.Protein
	}
	if req.Fat != nil {
		entry.Fat = req.Fat
	}
	if req.Carbs != nil {
		entry.Carbs = req.Carbs
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}

	if err := database.DB.Save(&entry).Error; err != nil {
		logger.Error("Failed to update calorie log", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update calorie log")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// DeleteCalorieLog removes an owned log entry.
func DeleteCalorieLog(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	logID, err := strconv.ParseUint(chi.URLParam(r, "log_id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid log ID")
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", logID, userID).Delete(&models.CalorieLog{})
	if result.Error != nil {
		logger.Error("Failed to delete calorie log", "error", result.Error)
		writeError(w, http.StatusInternalServerError, "Failed to delete calorie log")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Log not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
