package models

import "io"

// Role is the portal role chosen at login.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// Semesters lists the selectable semesters.
var Semesters = []int{1, 2, 3, 4}

// UserProfile is the student's profile as served by /appbar-userdetails.
type UserProfile struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Semester          Number `json:"semester"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// ProfileResponse wraps UserProfile in the backend's data envelope.
type ProfileResponse struct {
	Data UserProfile `json:"data"`
}

// Attachment is a file sent in a multipart body.
type Attachment struct {
	FileName string
	Content  io.Reader
}

// ProfileUpdate is the multipart profile update. Email is sent unchanged.
type ProfileUpdate struct {
	Name     string      `validate:"required"`
	Email    string      `validate:"required,email_shape"`
	Semester int         `validate:"required,min=1,max=4"`
	Image    *Attachment `validate:"-"`
}

// Pagination describes the page of a filtered view being shown.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
