// Package chefbot is the session-scoped cooking assistant. Each session
// carries the recipe the user is currently viewing, flattened to a text
// context, plus the last few chat turns; replies come from an external
// inference API.
package chefbot

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"tasteknowledge/middleware"
	"tasteknowledge/utils"
)

const defaultContext = "No specific recipe provided. Assist with general cooking advice."

const sidCookie = "sid"

type Handlers struct {
	client   *Client
	sessions SessionStore
}

func NewHandlers(client *Client, sessions SessionStore) *Handlers {
	return &Handlers{client: client, sessions: sessions}
}

// sessionID keys assistant state by the authenticated user when there is
// one, and otherwise by an anonymous sid cookie minted on first contact.
func (h *Handlers) sessionID(w http.ResponseWriter, r *http.Request) string {
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		return p.UserID
	}
	if cookie, err := r.Cookie(sidCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sidCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

type recipePayload struct {
	Title       string              `json:"title"`
	Ingredients []ingredientPayload `json:"ingredients"`
	Steps       []stepPayload       `json:"steps"`
}

// ingredientPayload tolerates both the enriched object shape and a bare
// string.
type ingredientPayload struct {
	Name     string
	Quantity json.Number
	Unit     string
}

func (p *ingredientPayload) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Name = s
		return nil
	}
	var obj struct {
		Name     string      `json:"name"`
		Quantity json.Number `json:"quantity"`
		Unit     string      `json:"unit"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	p.Name = obj.Name
	p.Quantity = obj.Quantity
	p.Unit = obj.Unit
	return nil
}

type stepPayload string

func (p *stepPayload) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = stepPayload(s)
		return nil
	}
	var obj struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	*p = stepPayload(obj.Description)
	return nil
}

// SetRecipe flattens the posted recipe into the session's grounding
// context. The transcript is left alone.
func (h *Handlers) SetRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var recipe recipePayload
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil || recipe.Title == "" && len(recipe.Ingredients) == 0 && len(recipe.Steps) == 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"status": "error"})
		return
	}

	sid := h.sessionID(w, r)
	st, err := h.sessions.Load(r.Context(), sid)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Session store unavailable")
		return
	}

	st.RecipeContext = flattenRecipe(recipe)
	if err := h.sessions.Save(r.Context(), sid, st); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Session store unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success"})
}

func flattenRecipe(recipe recipePayload) string {
	title := recipe.Title
	if title == "" {
		title = "Unknown"
	}
	parts := []string{fmt.Sprintf("Recipe: %s", title)}

	if len(recipe.Ingredients) > 0 {
		parts = append(parts, "\nINGREDIENTS:")
		for _, ing := range recipe.Ingredients {
			parts = append(parts, fmt.Sprintf("- %s %s %s", ing.Name, ing.Quantity, ing.Unit))
		}
	}

	if len(recipe.Steps) > 0 {
		parts = append(parts, "\nSTEPS:")
		for i, step := range recipe.Steps {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, step))
		}
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// Chat sends the user's message to the inference API grounded in the
// session context, then appends both turns to the transcript. On
// inference failure the transcript is left untouched.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.client == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Bot not configured")
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Message) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Empty message")
		return
	}

	sid := h.sessionID(w, r)
	st, err := h.sessions.Load(r.Context(), sid)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Session store unavailable")
		return
	}

	reply, err := h.client.ChatCompletion(r.Context(), buildMessages(st, body.Message))
	if err != nil {
		log.Printf("chefbot: inference failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "AI Communication Error")
		return
	}

	st.History = append(st.History,
		Message{Role: "user", Content: body.Message},
		Message{Role: "assistant", Content: reply},
	)
	if len(st.History) > historyLimit {
		st.History = st.History[len(st.History)-historyLimit:]
	}
	if err := h.sessions.Save(r.Context(), sid, st); err != nil {
		log.Printf("chefbot: session save failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":   "success",
		"response": reply,
	})
}

// buildMessages assembles the inference payload: persona grounded in the
// session's recipe context, the trailing transcript, and the new message.
func buildMessages(st State, userMessage string) []Message {
	context := st.RecipeContext
	if context == "" {
		context = defaultContext
	}

	history := st.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role: "system",
		Content: "You are Chef Bot Assistant. " +
			"Reference this recipe:\n" + context + "\n" +
			"Guidelines: Only answer cooking-related questions. Be friendly. " +
			"Use max 2 emojis. Respond in the user's language.",
	})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userMessage})
	return messages
}
