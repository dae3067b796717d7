package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer   = http.StatusInternalServerError
	ErrStatusClient           = http.StatusBadRequest
	ErrStatusUnauthorized     = http.StatusUnauthorized
	ErrStatusNoPermission     = http.StatusForbidden
	ErrStatusNotFound         = http.StatusNotFound
	ErrStatusEmailAlreadyUsed = http.StatusBadRequest
	ErrStatusConflict         = http.StatusConflict
)

var (
	ErrInternalServer          = errors.New("Internal server error")
	ErrClient                  = errors.New("Bad request")
	ErrNotLoggedIn             = errors.New("Unauthorized access")
	ErrInvalidCredentialsEmail = errors.New("Email or password is incorrect")
	ErrUnauthorized            = errors.New("Forbidden access")
	ErrNotFound                = errors.New("Resource not found")
	ErrProductNotFound         = errors.New("Product not found")
	ErrAccountNotFound         = errors.New("Account not found")
	ErrEmailAlreadyUsed        = errors.New("Email has already been used")
	ErrDuplicateReview         = errors.New("Product already reviewed")
	ErrConflict                = errors.New("Conflicting record found")
)

var errorMap = map[error]int{
	ErrInternalServer:          ErrStatusInternalServer,
	ErrClient:                  ErrStatusClient,
	ErrNotLoggedIn:             ErrStatusUnauthorized,
	ErrInvalidCredentialsEmail: ErrStatusUnauthorized,
	ErrUnauthorized:            ErrStatusNoPermission,
	ErrNotFound:                ErrStatusNotFound,
	ErrProductNotFound:         ErrStatusNotFound,
	ErrAccountNotFound:         ErrStatusNotFound,
	ErrEmailAlreadyUsed:        ErrStatusEmailAlreadyUsed,
	ErrDuplicateReview:         ErrStatusClient,
	ErrConflict:                ErrStatusConflict,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
