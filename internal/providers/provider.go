package providers

import "time"

// Provider is a business listed on the marketplace.
type Provider struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AdminUserID *int64    `json:"admin_user_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
	Services    []Service `json:"services,omitempty"`
}

// Service is an offering listed by a provider.
type Service struct {
	ID          int64     `json:"id"`
	ProviderID  int64     `json:"provider_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
