package handler

import (
	"encoding/json"
	"net/http"

	"codecoach/internal/app/service"
	"codecoach/internal/common"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(problemService *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: problemService}
}

func (h *ProblemHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	record, err := h.problemService.Generate(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, record)
}

func (h *ProblemHandler) Recent(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	difficulty := r.URL.Query().Get("difficulty")

	problems, err := h.problemService.Recent(r.Context(), language, difficulty)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}
