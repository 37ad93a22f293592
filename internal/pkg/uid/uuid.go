package uid

import "github.com/google/uuid"

// UUID generates time-ordered correlation ids.
type UUID struct {
	newV7 func() (uuid.UUID, error)
}

// NewUUID returns a UUIDv7 generator.
func NewUUID() *UUID {
	return &UUID{newV7: uuid.NewV7}
}

// Generate returns a UUIDv7, or a random UUIDv4 when the v7 clock sequence
// cannot be read.
func (u *UUID) Generate() string {
	if id, err := u.newV7(); err == nil {
		return id.String()
	}
	return uuid.New().String()
}
