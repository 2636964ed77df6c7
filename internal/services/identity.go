package services

// Identity is the authenticated caller, threaded explicitly through every
// operation instead of being read from a request-global "current user".
type Identity struct {
	UserID   string
	Username string
	IsSeller bool
	IsAdmin  bool
}
