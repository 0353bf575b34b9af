// Package queue defines message payloads exchanged over the message broker
// and a small publisher for emitting them.
package queue

// Queue names for the auth events.  Downstream dashboard services (welcome
// mail, activity feed) consume these.
const (
    UserRegisteredQueue = "user.registered"
    UserLoggedInQueue   = "user.logged_in"
)

// UserRegisteredEvent is published after a successful registration.  It
// carries enough for consumers to greet the user without querying the
// primary database.
type UserRegisteredEvent struct {
    UserID       string `json:"user_id"`
    Username     string `json:"username"`
    Email        string `json:"email"`
    RegisteredAt string `json:"registered_at"`
}

// UserLoggedInEvent is published after a successful login.
type UserLoggedInEvent struct {
    UserID   string `json:"user_id"`
    Email    string `json:"email"`
    LoggedAt string `json:"logged_at"`
}
