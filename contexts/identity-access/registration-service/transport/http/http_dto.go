package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type EligibilityCheckRequest struct {
	DateOfBirth string `json:"date_of_birth"`
	Citizenship string `json:"citizenship"`
	Residency   string `json:"residency"`
}

type EligibilityCheckResponse struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

type RegisterRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"date_of_birth"`
	Citizenship string `json:"citizenship"`
	Residency   string `json:"residency"`
}

type VoterResponse struct {
	VoterID    string `json:"voter_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	Voter VoterResponse `json:"voter"`
}
