package domain

import "time"

type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestSelected  RequestStatus = "selected"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

// Request is a customer's commission posting. Status only ever moves through
// open -> selected -> completed, or open -> cancelled. SelectedArtistID is
// set exactly when status is selected or completed.
type Request struct {
	ID               int64         `json:"id"`
	CustomerID       int64         `json:"customer_id"`
	SelectedArtistID *int64        `json:"selected_artist_id,omitempty"`
	Title            string        `json:"title" validate:"required"`
	Description      string        `json:"description" gorm:"type:text"`
	DimensionsWidth  float64       `json:"dimensions_width,omitempty"`
	DimensionsHeight float64       `json:"dimensions_height,omitempty"`
	DimensionsUnit   string        `json:"dimensions_unit,omitempty"`
	Style            string        `json:"style,omitempty"`
	Deadline         *time.Time    `json:"deadline,omitempty"`
	Status           RequestStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	ReferenceImages []ReferenceImage `json:"reference_images,omitempty" gorm:"foreignKey:RequestID"`
}

type ReferenceImage struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
