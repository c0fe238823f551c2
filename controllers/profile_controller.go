package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/d3vsino/myfittrackbackend/database"
	"github.com/d3vsino/myfittrackbackend/logger"
	"github.com/d3vsino/myfittrackbackend/models"
	"github.com/d3vsino/myfittrackbackend/nutrition"
)

// GetProfile returns the full profile including derived targets.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type PatchProfileRequest struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Age             *uint    `json:"age"`
	Gender          *string  `json:"gender"`
	HeightCm        *float64 `json:"height_cm"`
	WeightKg        *float64 `json:"weight_kg"`
	ActivityLevel   *string  `json:"activity_level"`
	CalorieGoalType *string  `json:"calorie_goal_type"`
}

// PatchProfile applies a partial update. A calorie_goal_type change routes
// through the goal selector so the current_* projection stays consistent
// with the per-goal tables; unknown goal values are ignored. Biometric edits
// update the stored inputs only — derived targets are not recomputed, which
// matches the registration-time-only derivation.
func PatchProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var req PatchProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if req.Gender != nil {
		if _, ok := nutrition.ParseGender(*req.Gender); !ok {
			errs["gender"] = "Gender must be male or female"
		}
	}
	if req.ActivityLevel != nil {
		if _, ok := nutrition.ParseActivityLevel(*req.ActivityLevel); !ok {
			errs["activity_level"] = "Activity level must be one of sedentary, light, moderate, active, super"
		}
	}
	if req.Age != nil && *req.Age == 0 {
		errs["age"] = "Age must be a positive integer"
	}
	if req.HeightCm != nil && *req.HeightCm <= 0 {
		errs["height_cm"] = "Height must be positive"
	}
	if req.WeightKg != nil && *req.WeightKg <= 0 {
		errs["weight_kg"] = "Weight must be positive"
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.HeightCm != nil {
		user.HeightCm = *req.HeightCm
	}
	if req.WeightKg != nil {
		user.WeightKg = *req.WeightKg
	}
	if req.ActivityLevel != nil {
		user.ActivityLevel = *req.ActivityLevel
	}
	if req.CalorieGoalType != nil {
		if goal, ok := nutrition.ParseGoal(*req.CalorieGoalType); ok {
			nutrition.ApplyGoal(&user, goal)
		}
	}

	if err := database.DB.Save(&user).Error; err != nil {
		logger.Error("Failed to update profile", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	logger.Info("Profile updated", "user_id", userID)
	writeJSON(w, http.StatusOK, user)
}

// GetCalorieGoals returns the derived-targets snapshot on its own.
func GetCalorieGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{
		"bmr":                  user.BMR,
		"maintenance_calories": user.MaintenanceCalories,
		"gain_calories":        user.GainCalories,
		"loss_calories":        user.LossCalories,
		"current_calorie_goal": user.CurrentCalorieGoal,
		"maintenance_protein":  user.MaintenanceProtein,
		"maintenance_fat":      user.MaintenanceFat,
		"maintenance_carbs":    user.MaintenanceCarbs,
		"gain_protein":         user.GainProtein,
		"gain_fat":             user.GainFat,
		"gain_carbs":           user.GainCarbs,
		"loss_protein":         user.LossProtein,
		"loss_fat":             user.LossFat,
		"loss_carbs":           user.LossCarbs,
	})
}
