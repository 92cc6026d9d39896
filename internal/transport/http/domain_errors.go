package http

import (
	"errors"
	"net/http"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
)

// writeServiceError maps domain sentinels onto the error catalog. Anything
// unrecognized is an infrastructure failure and reports 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case errors.Is(err, domain.ErrCartNotFound):
		writeError(w, http.StatusNotFound, codeCartNotFound, err.Error())
	case errors.Is(err, domain.ErrProductNotInCart):
		writeError(w, http.StatusNotFound, codeProductNotInCart, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case errors.Is(err, domain.ErrCodeRequired):
		writeError(w, http.StatusBadRequest, codeCodeRequired, err.Error())
	case errors.Is(err, domain.ErrCategoryRequired):
		writeError(w, http.StatusBadRequest, codeCategoryRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrInvalidStock):
		writeError(w, http.StatusBadRequest, codeInvalidStock, err.Error())
	case errors.Is(err, domain.ErrPurchaserRequired):
		writeError(w, http.StatusBadRequest, codePurchaserRequired, err.Error())
	case errors.Is(err, domain.ErrCodeAlreadyExists):
		writeError(w, http.StatusConflict, codeCodeAlreadyExists, err.Error())
	case errors.Is(err, domain.ErrNotProductOwner):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
