package services

import (
	"foodgram/internal/logging"
)

// EventPublisher hands domain events to a message broker.
// pkg/rabbitmq.Client implements it.
type EventPublisher interface {
	PublishEvent(routingKey string, payload interface{}) error
}

// Routing keys of the published events.
// Membership events are keyed "<kind>.added" and "<kind>.removed".
const (
	EventRecipeCreated    = "recipe.created"
	EventRecipeUpdated    = "recipe.updated"
	EventRecipeDeleted    = "recipe.deleted"
	EventUserSubscribed   = "subscription.created"
	EventUserUnsubscribed = "subscription.deleted"
	EventUserRegistered   = "user.registered"
)

// RecipeEvent is the payload of recipe.* events.
type RecipeEvent struct {
	RecipeID uint   `json:"recipe_id"`
	AuthorID uint   `json:"author_id"`
	Name     string `json:"name,omitempty"`
}

// MembershipEvent is the payload of favorite.* and shopping_cart.* events.
type MembershipEvent struct {
	UserID   uint `json:"user_id"`
	RecipeID uint `json:"recipe_id"`
}

// SubscriptionEvent is the payload of subscription.* events.
type SubscriptionEvent struct {
	FollowerID uint `json:"follower_id"`
	AuthorID   uint `json:"author_id"`
}

// publish sends the event when a publisher is configured. Broker failures
// are logged and never fail the request that produced the event.
func publish(p EventPublisher, routingKey string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(routingKey, payload); err != nil {
		logging.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish event")
	}
}
