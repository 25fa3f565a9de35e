package types

import uuid "github.com/gofrs/uuid"

// HTTP Header Constants
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "
)

// UserCtxName is the fiber Locals key holding the authenticated UserContext.
const UserCtxName = "user"

// UserContext carries the authenticated actor's identity through a request.
type UserContext struct {
	UserID      uuid.UUID `json:"userId"`
	Username    string    `json:"username"`
	AvatarURL   string    `json:"avatarUrl"`
	ChannelName string    `json:"channelName"`
}
