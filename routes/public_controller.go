package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-brief/app"
	"github.com/mbolis/quick-brief/httpx"
	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/model"
)

type formResponse struct {
	Form      model.Form       `json:"form"`
	Questions []model.Question `json:"questions"`
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := app.FormBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			httpx.WriteError(w, r, "get_form", err)
			return
		}

		questions, err := app.ActiveQuestions(r.Context(), form.ID)
		if err != nil {
			httpx.WriteError(w, r, "get_form.questions", err)
			return
		}

		render.JSON(w, r, formResponse{Form: form, Questions: questions})
	}
}

func CreateDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FormSlug string `json:"formSlug"`
		}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid JSON body")
			return
		}

		sub, err := app.Store.CreateDraft(r.Context(), body.FormSlug)
		if err != nil {
			httpx.WriteError(w, r, "create_draft", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, render.M{"submission": sub})
	}
}

func GetSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, saved, err := app.Submission(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "get_submission", err)
			return
		}

		render.JSON(w, r, render.M{"submission": sub, "answers": saved})
	}
}

func PatchSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Answers json.RawMessage `json:"answers"`
		}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid JSON body")
			return
		}

		var batch []model.AnswerInput
		if len(body.Answers) == 0 || body.Answers[0] != '[' {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.answers", "answers must be an array")
			return
		}
		if err := json.Unmarshal(body.Answers, &batch); err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.answers", "malformed answers: %s", err)
			return
		}

		if err := app.PatchAnswers(r.Context(), chi.URLParam(r, "id"), batch); err != nil {
			httpx.WriteError(w, r, "patch_answers", err)
			return
		}

		render.JSON(w, r, render.M{"ok": true})
	}
}

func SubmitSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := app.Finalize(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "finalize", err)
			return
		}

		render.JSON(w, r, render.M{"ok": true, "submission": sub})
	}
}

func Health(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := app.Store.Ping(r.Context()); err != nil {
			log.Errorf("health.ping: %s", err)
			httpx.LogStatus(w, r, http.StatusServiceUnavailable, log.DebugLevel, "health")
			return
		}
		render.JSON(w, r, render.M{"ok": true})
	}
}
