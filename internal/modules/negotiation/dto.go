package negotiation

import (
	"time"

	"github.com/Mrhb33/Artivty/internal/domain"
	"github.com/Mrhb33/Artivty/internal/repository"
)

type CreateRequestRequest struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description" binding:"required"`
	DimensionsWidth  float64    `json:"dimensions_width"`
	DimensionsHeight float64    `json:"dimensions_height"`
	DimensionsUnit   string     `json:"dimensions_unit"`
	Style            string     `json:"style"`
	Deadline         *time.Time `json:"deadline"`
	ReferenceImages  []string   `json:"reference_images"`
}

type CreateOfferRequest struct {
	Price        float64 `json:"price" binding:"required,gt=0"`
	DeliveryDays int     `json:"delivery_days" binding:"required,gt=0"`
	Message      string  `json:"message"`
}

// RequestDetails is a request plus the derived fields clients render:
// reference image URLs and the number of offers received.
type RequestDetails struct {
	domain.Request
	ReferenceImageURLs []string `json:"reference_images"`
	OffersCount        int64    `json:"offers_count"`
}

type OfferList struct {
	Offers []repository.OfferWithArtist `json:"offers"`
}
