package negotiation

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrRequestNotOpen    = errors.New("request is not open")
	ErrDuplicateOffer    = errors.New("duplicate offer")
	ErrArtistNotEligible = errors.New("artist is not eligible")
)
