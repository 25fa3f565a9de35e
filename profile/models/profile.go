// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// UserProfile represents the public identity of a user on the primary
// service. The comment service never stores these fields durably; it only
// receives point-in-time snapshots through the gateway.
type UserProfile struct {
	ID               uuid.UUID `db:"id" json:"objectId"`
	Username         string    `db:"username" json:"username"`
	AvatarURL        string    `db:"avatar_url" json:"avatarUrl"`
	ChannelName      string    `db:"channel_name" json:"channelName"`
	SubscribersCount int64     `db:"subscribers_count" json:"subscribersCount"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// PlaceholderUsername is attached to comments whose author can no longer be
// resolved against the identity store. Comments are never dropped for an
// unresolvable author.
const PlaceholderUsername = "Unknown"

// Placeholder returns the identity used for unresolvable authors.
func Placeholder(id uuid.UUID) UserProfile {
	return UserProfile{
		ID:       id,
		Username: PlaceholderUsername,
	}
}
