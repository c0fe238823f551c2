package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/d3vsino/myfittrackbackend/config"
	"github.com/d3vsino/myfittrackbackend/controllers"
	auth "github.com/d3vsino/myfittrackbackend/middleware"
)

// SetupRouter wires all endpoints.
func SetupRouter(cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public
	r.Post("/register", controllers.Register)
	r.Post("/auth/login", controllers.Login)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateJWT([]byte(cfg.JWT.Secret)))

		r.Get("/profile", controllers.GetProfile)
		r.Patch("/profile", controllers.PatchProfile)
		r.Get("/calorie-goals", controllers.GetCalorieGoals)

		r.Get("/calorie-logs", controllers.ListCalorieLogs)
		r.Post("/calorie-logs", controllers.CreateCalorieLog)
		r.Patch("/calorie-logs/{log_id}", controllers.UpdateCalorieLog)
		r.Delete("/calorie-logs/{log_id}", controllers.DeleteCalorieLog)

		r.Post("/ai", controllers.ChatTurn)
		r.Get("/ai/chat-history", controllers.ChatHistoryList)
		r.Post("/analyze-meal", controllers.AnalyzeMeal)
		r.Get("/food/search", controllers.FoodSearch)
	})

	return r
}
