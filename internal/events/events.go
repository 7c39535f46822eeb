package events

import "context"

// TopicUserRegistered carries a UserRegistered payload for each new account.
// Downstream consumers (e.g. a welcome-mail worker) subscribe out of process;
// this service only publishes.
const TopicUserRegistered = "user.registered"

// UserRegistered is the payload published when an account is created.
type UserRegistered struct {
	UserID   int    `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Backend defines the broker-agnostic publish operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher wraps a backend with a stable API.
type Publisher struct {
	backend Backend
}

// New constructs a Publisher for the provided backend.
func New(backend Backend) *Publisher {
	return &Publisher{backend: backend}
}

// Publish sends a message to the named channel.
func (p *Publisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return p.backend.Publish(ctx, channel, data, attrs)
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}

// Disabled is a backend that drops every message. It is the default when
// no broker is configured.
type Disabled struct{}

func (Disabled) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return "", nil
}

func (Disabled) Close() error {
	return nil
}
