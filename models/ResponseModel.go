package models

// ErrorResponse is the standard error body returned by the API.
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid session"`
	Details string `json:"details,omitempty" example:"sql: no rows in result set"`
}

// MessageResponse is the standard success body for mutations.
type MessageResponse struct {
	Message string `json:"message" example:"Vendor updated successfully"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Message      string `json:"message" example:"Login successful"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role" example:"Merchandiser"`
	ExpiresIn    int    `json:"expires_in" example:"900"`
}

// ImportResult reports partial-success statistics for spreadsheet imports.
type ImportResult struct {
	Imported int      `json:"imported" example:"118"`
	Skipped  int      `json:"skipped" example:"4"`
	Locked   int      `json:"locked,omitempty" example:"2"`
	BatchID  string   `json:"batch_id,omitempty" example:"b7c1f3e2"`
	Warnings []string `json:"warnings,omitempty"`
}
