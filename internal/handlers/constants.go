package handlers

const (
	ErrInvalidFormData     = "Invalid form data"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests. Please wait a minute and try again."

	MsgSignInFailed     = "Invalid credentials or an unexpected sign-in error occurred."
	MsgRegisterFailed   = "Registration failed: Email address is already in use or server error."
	MsgResetFailed      = "Password reset failed. Please try again later."
	MsgDashboardFailed  = "We couldn't load your dashboard right now. Please try again later."
	MsgListFailed       = "Failed to load your content. Please try again later."
	MsgGenerateFailed   = "Failed to generate content. Please try again."
	MsgCompleteUnsynced = "Marked complete on this device, but the change could not be saved to the server."
	MsgSubmitFailed     = "Failed to submit quiz. Please try again."
	MsgNotFound         = "The requested item could not be found."
	MsgBoosterFailed    = "Failed to create performance booster. Please try again."
)
