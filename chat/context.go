package chat

import (
	"fmt"

	"github.com/d3vsino/myfittrackbackend/llm"
	"github.com/d3vsino/myfittrackbackend/models"
)

// FullHistory includes every prior message in the prompt. Sessions grow
// without bound under this policy, which is the original behavior; deployers
// can cap it with a positive window instead.
const FullHistory = 0

// BuildContext assembles the ordered prompt for one chat turn: a system
// entry carrying the user's nutrition profile, the windowed history in
// chronological order with roles preserved, then the new input as the final
// user entry. window keeps the last N history messages; FullHistory keeps
// them all.
func BuildContext(user models.User, history []models.ChatMessage, input string, window int) []llm.Message {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: fmt.Sprintf("You are a helpful nutritionist. %s Respond concisely and personally.", profileSummary(user)),
	})

	for _, msg := range history {
		role := "assistant"
		if msg.IsUser {
			role = "user"
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Message})
	}

	return append(messages, llm.Message{Role: "user", Content: input})
}

func profileSummary(u models.User) string {
	return fmt.Sprintf(
		"User details: Name: %s %s, Age: %d, Gender: %s, Height: %g cm, Weight: %g kg, "+
			"Activity Level: %s, Current Calorie Goal: %g, BMR: %g, "+
			"Macros (protein/fat/carbs): %g/%g/%g grams.",
		u.FirstName, u.LastName, u.Age, u.Gender, u.HeightCm, u.WeightKg,
		u.ActivityLevel, u.CurrentCalorieGoal, u.BMR,
		u.CurrentProteinGoal, u.CurrentFatGoal, u.CurrentCarbsGoal,
	)
}
