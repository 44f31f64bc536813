package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MoodEntry is a single mood record in a user's history.
type MoodEntry struct {
	Mood string    `bson:"mood"`
	Date time.Time `bson:"date"`
}

// User represents a user account. PasswordHash is only populated when a
// credentials read projection is requested; every other read excludes it.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash,omitempty"`
	IsAdmin      bool          `bson:"is_admin"`
	MoodHistory  []MoodEntry   `bson:"mood_history"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}
