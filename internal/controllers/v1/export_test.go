package v1

// ResetLoginAttempts clears the failed login attempts recorded for a client
// address so that tests exercising the lockout do not leak into each other.
func ResetLoginAttempts(ip string) {
	loginLimiter.Reset(ip)
}
