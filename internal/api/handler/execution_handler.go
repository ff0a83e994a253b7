package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"codecoach/internal/app/service"
	"codecoach/internal/common"
	"codecoach/internal/platform/piston"
)

type ExecutionHandler struct {
	executionService *service.ExecutionService
}

func NewExecutionHandler(executionService *service.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{executionService: executionService}
}

func (h *ExecutionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req service.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.executionService.Execute(r.Context(), req)
	if err != nil {
		// Sandbox rejections mirror the remote status and carry its detail
		// verbatim.
		var statusErr *piston.StatusError
		if errors.As(err, &statusErr) {
			common.RespondWithJSON(w, statusErr.StatusCode, common.ErrorResponse{
				Message: "Code execution failed",
				Details: rawOrString(statusErr.Detail),
			})
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

// rawOrString embeds JSON details as-is and anything else as a plain string.
func rawOrString(detail string) interface{} {
	if json.Valid([]byte(detail)) {
		return json.RawMessage(detail)
	}
	return detail
}
