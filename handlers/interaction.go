package handlers

import (
	"net/http"
	"strconv"

	"github.com/learnedge/learnedge/services"
)

// CheckAnswerHandler evaluates a free-text quiz or practice answer. The form
// carries the user's input and the expected answer exactly as the rendered
// markup discloses it in its data-answer attribute.
func CheckAnswerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	check := services.CheckTextAnswer(r.FormValue("answer"), r.FormValue("expected"))
	writeJSON(w, http.StatusOK, check)
}

// CheckChoiceHandler evaluates a clicked quiz option by the correctness flag
// the option itself carries. The response always disables the whole option
// group and reveals the correct one: a choice answer is terminal.
func CheckChoiceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	isCorrect, err := strconv.ParseBool(r.FormValue("correct"))
	if err != nil {
		http.Error(w, "correct must be true or false", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, services.CheckChoice(isCorrect))
}
