package domain

import "time"

// Property is the server-shaped listing record. The gateway never mutates
// these locally; it only requests state transitions upstream and re-fetches.
type Property struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       *float64  `json:"price"`
	Currency    string    `json:"currency,omitempty"`
	City        string    `json:"city,omitempty"`
	Area        string    `json:"area,omitempty"`
	Address     string    `json:"address,omitempty"`
	Bedrooms    int       `json:"bedrooms,omitempty"`
	Bathrooms   int       `json:"bathrooms,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Status      string    `json:"status,omitempty"` // moderation: pending|approved|rejected
	CategoryID  int64     `json:"category_id,omitempty"`
	OwnerID     int64     `json:"owner_id,omitempty"`
	AgentID     *int64    `json:"agent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PropertyDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	City        string   `json:"city,omitempty"`
	Area        string   `json:"area,omitempty"`
	Address     string   `json:"address,omitempty"`
	Bedrooms    int      `json:"bedrooms,omitempty"`
	Bathrooms   int      `json:"bathrooms,omitempty"`
	CategoryID  int64    `json:"category_id,omitempty"`
}

// PropertyQuery carries browse filters. Tags are go-querystring encoding for
// the upstream list endpoint.
type PropertyQuery struct {
	Q          string   `url:"q,omitempty"`
	City       string   `url:"city,omitempty"`
	CategoryID int64    `url:"category_id,omitempty"`
	MinPrice   *float64 `url:"min_price,omitempty"`
	MaxPrice   *float64 `url:"max_price,omitempty"`
	Bedrooms   *int     `url:"bedrooms,omitempty"`
	Sort       string   `url:"sort,omitempty"`
	Page       int      `url:"page,omitempty"`
	Limit      int      `url:"limit,omitempty"`
}

type PropertyPage struct {
	Items []Property `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type Review struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	UserID     int64     `json:"user_id"`
	Author     string    `json:"author,omitempty"`
	Rating     float64   `json:"rating"`
	Text       string    `json:"text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewDraft struct {
	PropertyID int64   `json:"property_id"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text,omitempty"`
}

type Favorite struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	Property   *Property `json:"property,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Inquiry is a buyer-to-lister message about a property.
type Inquiry struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

type InquiryDraft struct {
	PropertyID int64  `json:"property_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Message    string `json:"message"`
}
