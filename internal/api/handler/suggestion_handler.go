package handler

import (
	"encoding/json"
	"net/http"

	"codecoach/internal/app/service"
	"codecoach/internal/common"
)

type SuggestionHandler struct {
	suggestionService *service.SuggestionService
}

func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

type suggestRequest struct {
	Code        string          `json:"code"`
	ProblemData json.RawMessage `json:"problem_data"`
}

type suggestResponse struct {
	Suggestions string `json:"suggestions"`
}

func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	suggestions, err := h.suggestionService.Suggest(r.Context(), req.Code, req.ProblemData)
	if err != nil {
		status := common.HTTPStatusFromError(err)
		if status == http.StatusBadRequest && len(req.ProblemData) > 0 {
			// Echo the offending problem data back to the caller.
			common.RespondWithJSON(w, status, common.ErrorResponse{
				Message:     err.Error(),
				ProblemData: json.RawMessage(req.ProblemData),
			})
			return
		}
		common.RespondWithError(w, status, err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}
