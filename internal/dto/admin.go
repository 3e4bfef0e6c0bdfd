package dto

import "time"

// AdminLoginRequest carries administrator credentials.
type AdminLoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// AdminLoginResponse returns the issued access token.
type AdminLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Name        string    `json:"name"`
}

// ProfessorProgressItem is one row of the admin professor listing.
type ProfessorProgressItem struct {
	ID            string     `json:"id"`
	ShortName     string     `json:"short_name"`
	FullName      string     `json:"full_name"`
	MinMaxDays    *bool      `json:"min_max_days,omitempty"`
	LastModified  *time.Time `json:"last_modified,omitempty"`
	PriorityCount int        `json:"priority_count"`
	Submitted     bool       `json:"submitted"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=csv pdf CSV PDF"`
}

// BlockQuery filters schedule blocks by shift.
type BlockQuery struct {
	Shift string `form:"turno"`
}
