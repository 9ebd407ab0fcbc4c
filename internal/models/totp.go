package models

// TOTPSetupResponse returned when initiating 2FA setup
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qrCode"` // data URL of a PNG
	Issuer      string `json:"issuer"`
	AccountName string `json:"accountName"`
}

type TOTPCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// TOTPLoginRequest finishes a login that stopped at the second factor.
type TOTPLoginRequest struct {
	TempToken string `json:"tempToken" validate:"required"`
	Code      string `json:"code" validate:"required,len=6,numeric"`
}

// LoginStep1Response when 2FA is required after password verification
type LoginStep1Response struct {
	Requires2FA bool   `json:"requires2fa"`
	TempToken   string `json:"tempToken,omitempty"`
}
