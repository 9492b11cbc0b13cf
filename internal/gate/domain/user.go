package domain

import "time"

// User is the stub record written when a signup attempt completes. Profile
// data, credentials, and everything else belong to downstream services; the
// gate only records that the address was verified and which invite admitted
// it.
type User struct {
	ID        string
	Email     string
	InviteID  string // id of the consumed invite, empty for open signups
	CreatedAt time.Time
}
