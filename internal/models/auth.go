package models

import "time"

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_shape"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=admin student"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// OTPPurpose distinguishes registration codes from password reset codes.
type OTPPurpose string

const (
	OTPPurposeRegister      OTPPurpose = "register"
	OTPPurposeResetPassword OTPPurpose = "reset-password"
)

// OTPRequest asks the backend to issue a code for an email.
type OTPRequest struct {
	Email string `json:"email" validate:"required,email_shape"`
}

// OTPResponse is returned by the send-otp endpoints. OTP is only populated by legacy backends.
type OTPResponse struct {
	OTP     string `json:"otp,omitempty"`
	Message string `json:"message,omitempty"`
}

// VerifyOTPRequest submits a code for server-side verification.
type VerifyOTPRequest struct {
	Email   string     `json:"email"`
	OTP     string     `json:"otp"`
	Purpose OTPPurpose `json:"purpose"`
}

// VerifyOTPResponse reports the verification result and a short-lived proof token.
type VerifyOTPResponse struct {
	Verified          bool   `json:"verified"`
	VerificationToken string `json:"verificationToken,omitempty"`
	Message           string `json:"message,omitempty"`
}

// RegisterRequest is sent as multipart form data.
type RegisterRequest struct {
	Name              string      `validate:"required"`
	Email             string      `validate:"required,email_shape"`
	Password          string      `validate:"required,password_strength"`
	Semester          int         `validate:"required,min=1,max=4"`
	ProfilePic        *Attachment `validate:"required"`
	VerificationToken string      `validate:"-"`
}

// ResetPasswordRequest completes the forgot-password flow.
type ResetPasswordRequest struct {
	Email             string `json:"email" validate:"required,email_shape"`
	NewPassword       string `json:"newPassword" validate:"required,password_strength"`
	VerificationToken string `json:"verificationToken,omitempty" validate:"-"`
}

// OTPChallenge is an issued code awaiting verification. Code is only held by
// the client when the backend lacks server-side verification.
type OTPChallenge struct {
	Email    string     `json:"email"`
	Purpose  OTPPurpose `json:"purpose"`
	Code     string     `json:"-"`
	IssuedAt time.Time  `json:"issued_at"`
}

// OTPVerification is the outcome of a passed OTP gate.
type OTPVerification struct {
	Verified          bool
	VerificationToken string
}
