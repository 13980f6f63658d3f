package model

// Furniture is a catalog item as exchanged with the data API.
type Furniture struct {
	ID          string  `json:"_id,omitempty"`
	OwnerID     string  `json:"_ownerId,omitempty"`
	Make        string  `json:"make" validate:"required,min=4"`
	Model       string  `json:"model" validate:"required,min=4"`
	Year        int     `json:"year" validate:"gte=1950,lte=2050"`
	Description string  `json:"description" validate:"required,min=10"`
	Price       float64 `json:"price" validate:"gte=0"`
	Img         string  `json:"img" validate:"required"`
	Material    string  `json:"material"`
}

// User carries registration credentials on the way out and the API issued
// identity on the way back.
type User struct {
	ID          string `json:"_id,omitempty"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}
