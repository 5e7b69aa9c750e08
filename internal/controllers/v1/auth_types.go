package v1

// LoginEditable are the credentials checked on login.
type LoginEditable struct {
	Email    string `json:"email" binding:"required" example:"jane.doe@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
}

// RegisterEditable are the fields users can set when registering an account.
type RegisterEditable struct {
	Email     string `json:"email" example:"jane.doe@example.com"`
	Password  string `json:"password" example:"correct horse battery staple"`
	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName" example:"Doe"`
}

// LoginData is the session opened by a successful login. The token goes into
// the Authorization header as "Bearer <token>".
type LoginData struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  User   `json:"user"`
}

type LoginResponse struct {
	Data  *LoginData `json:"data"`
	Error *string    `json:"error" example:"the email or password is incorrect"`
}

// MeData is the authenticated user together with the sorted permission codes
// it holds through its roles.
type MeData struct {
	User        User     `json:"user"`
	Permissions []string `json:"permissions" example:"schedule.view_own"`
}

type MeResponse struct {
	Data  *MeData `json:"data"`
	Error *string `json:"error" example:"you are not authenticated or your session has expired"`
}
