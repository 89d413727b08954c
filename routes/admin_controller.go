package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-brief/app"
	"github.com/mbolis/quick-brief/httpx"
	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/model"
)

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			httpx.WriteError(w, r, "request.query", err)
			return
		}

		items, err := app.Store.ListSubmissions(r.Context(), filter)
		if err != nil {
			httpx.WriteError(w, r, "list_submissions", err)
			return
		}

		render.JSON(w, r, render.M{"items": items})
	}
}

func parseFilter(r *http.Request) (filter model.SubmissionFilter, err error) {
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status, err := model.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if raw := query.Get("reviewed"); raw != "" {
		var reviewed bool
		switch raw {
		case "1", "true":
			reviewed = true
		case "0", "false":
			reviewed = false
		default:
			return filter, &model.ValidationError{Message: "invalid reviewed flag: " + raw}
		}
		filter.Reviewed = &reviewed
	}

	return filter, nil
}

func GetSubmissionDetails(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, qa, err := app.SubmissionDetails(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "submission_details", err)
			return
		}

		render.JSON(w, r, render.M{"submission": sub, "qa": qa})
	}
}

func ToggleReview(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)
		reviewerID, err := strconv.ParseInt(claims[httpx.ClaimUserID], 10, 64)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusUnauthorized, log.DebugLevel, "toggle_review.uid_claim")
			return
		}

		sub, err := app.Store.ToggleReview(r.Context(), chi.URLParam(r, "id"), reviewerID)
		if err != nil {
			httpx.WriteError(w, r, "toggle_review", err)
			return
		}

		render.JSON(w, r, render.M{
			"ok":         true,
			"reviewedAt": sub.ReviewedAt,
			"reviewedBy": sub.ReviewedBy,
		})
	}
}

func DeleteSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := app.Store.DeleteSubmission(r.Context(), chi.URLParam(r, "id")); err != nil {
			httpx.WriteError(w, r, "delete_submission", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
