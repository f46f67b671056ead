package models

import (
	"errors"
)

var (
	ErrServiceNotFound   = errors.New("service not found")
	ErrProviderNotFound  = errors.New("provider not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDraftNotFound     = errors.New("sign-up draft not found")
	ErrWrongStep         = errors.New("sign-up draft is not on this step")
	ErrPageNotFound      = errors.New("page not found")
	ErrCatalogIntegrity  = errors.New("catalog integrity check failed")
	ErrUnknownSourceKind = errors.New("unknown catalog source")
)
