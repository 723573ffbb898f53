package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for the REST admin API
type AdminClaims struct {
	AdminID int64 `json:"adminId"`
	jwt.RegisteredClaims
}

// ChatClaims are JWT claims identifying a chat user on the WebSocket transport
type ChatClaims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// Candidate returns the chat identity carried by the token
func (c *ChatClaims) Candidate() Candidate {
	return Candidate{UserID: c.UserID, Username: c.Username, FullName: c.FullName}
}

// LoginRequest is the request body for admin API login
type LoginRequest struct {
	Secret string `json:"secret"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID int64  `json:"adminId"`
}
