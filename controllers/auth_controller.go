package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d3vsino/myfittrackbackend/database"
	"github.com/d3vsino/myfittrackbackend/logger"
	"github.com/d3vsino/myfittrackbackend/middleware"
	"github.com/d3vsino/myfittrackbackend/models"
	"github.com/d3vsino/myfittrackbackend/nutrition"
)

type RegisterRequest struct {
	Email           string  `json:"email"`
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Age             uint    `json:"age"`
	Gender          string  `json:"gender"`
	HeightCm        float64 `json:"height_cm"`
	WeightKg        float64 `json:"weight_kg"`
	ActivityLevel   string  `json:"activity_level"`
	CalorieGoalType string  `json:"calorie_goal_type"`
}

func (req *RegisterRequest) validate() map[string]string {
	errs := map[string]string{}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		errs["email"] = "A valid email is required"
	}
	if req.Username == "" {
		errs["username"] = "Username is required"
	}
	if len(req.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}
	if req.Age == 0 {
		errs["age"] = "Age must be a positive integer"
	}
	if req.HeightCm <= 0 {
		errs["height_cm"] = "Height must be positive"
	}
	if req.WeightKg <= 0 {
		errs["weight_kg"] = "Weight must be positive"
	}
	if _, ok := nutrition.ParseGender(req.Gender); req.Gender != "" && !ok {
		errs["gender"] = "Gender must be male or female"
	}
	if _, ok := nutrition.ParseActivityLevel(req.ActivityLevel); req.ActivityLevel != "" && !ok {
		errs["activity_level"] = "Activity level must be one of sedentary, light, moderate, active, super"
	}
	if _, ok := nutrition.ParseGoal(req.CalorieGoalType); !ok {
		errs["calorie_goal_type"] = "Goal must be one of maintain, gain, lose"
	}
	return errs
}

// Register creates a user and derives their metabolic targets. The derived
// fields are computed once here; nothing is persisted when validation or the
// derivation fails.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	targets, err := nutrition.DeriveTargets(nutrition.Biometrics{
		Age:           req.Age,
		Gender:        nutrition.Gender(req.Gender),
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		ActivityLevel: nutrition.ActivityLevel(req.ActivityLevel),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		Email:         req.Email,
		Username:      req.Username,
		Password:      string(hash),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		Gender:        req.Gender,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		ActivityLevel: req.ActivityLevel,
	}
	nutrition.SetTargets(&user, targets)

	goal, _ := nutrition.ParseGoal(req.CalorieGoalType)
	nutrition.ApplyGoal(&user, goal)

	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "Email or username already registered")
			return
		}
		logger.Error("Failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	logger.Info("User registered", "user_id", user.ID, "goal", user.CalorieGoalType)
	writeJSON(w, http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login checks credentials and issues a signed token.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, []byte(cfg.JWT.Secret))
	if err != nil {
		logger.Error("Failed to sign token", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}
