package http

import (
	"fmt"
	"net/http"
	"strconv"

	"hoteldesk-panel/internal/service"

	"github.com/gorilla/mux"
)

type SubmissionHandler struct {
	submissions service.SubmissionService
}

func NewSubmissionHandler(submissions service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["submissionId"], 10, 32)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid submission id", errBadRequest))
		return
	}

	sub, err := h.submissions.Get(r.Context(), int32(id))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
