package handlers

import (
	"net/http"

	"railmap/pkg/common"
	apperrors "railmap/pkg/errors"
)

// maxBodyBytes caps request bodies; route documents are small.
const maxBodyBytes = 1 << 20

// respondError maps an error onto the wire format, using the taxonomy's
// HTTP status when the error carries one.
func respondError(w http.ResponseWriter, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
		return
	}
	common.RespondError(w, http.StatusInternalServerError, string(apperrors.ErrorTypeInternal), "internal error")
}

// respondValidation rejects a request with a VALIDATION error
func respondValidation(w http.ResponseWriter, message string) {
	common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), message)
}
