package service

// Publisher pushes events to connected sessions. Implemented by ws.Hub; a
// no-op or recording fake stands in for it in tests.
type Publisher interface {
	PublishToUser(userID, destination, eventType string, payload interface{})
	Broadcast(eventType string, payload interface{})
}

// NopPublisher discards all events. Useful when the push channel is disabled.
type NopPublisher struct{}

// PublishToUser implements Publisher.
func (NopPublisher) PublishToUser(userID, destination, eventType string, payload interface{}) {}

// Broadcast implements Publisher.
func (NopPublisher) Broadcast(eventType string, payload interface{}) {}
