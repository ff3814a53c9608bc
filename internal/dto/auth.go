package dto

// DevTokenRequest asks for a token on behalf of an actor. Only served outside production.
type DevTokenRequest struct {
	ActorID string `json:"actorID" binding:"required,max=64"`
}

// TokenResponse carries a signed bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // Seconds
}
