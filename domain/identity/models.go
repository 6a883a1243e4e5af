// Package identity models the authenticated operator as reported by the
// identity service: the user, an optional subscription and an optional quota.
package identity

import "time"

// Tier is the subscription level of a user
type Tier string

const (
	TierDemo    Tier = "demo"
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// User is the authenticated operator
type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	Name                  *string    `json:"name,omitempty"`
	AvatarURL             *string    `json:"avatar_url,omitempty"`
	SubscriptionTier      Tier       `json:"subscription_tier"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Subscription is the paid plan attached to a user
type Subscription struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"user_id"`
	Tier                  Tier       `json:"tier"`
	Status                string     `json:"status"`
	PaymentProvider       *string    `json:"payment_provider,omitempty"`
	PaymentSubscriptionID *string    `json:"payment_subscription_id,omitempty"`
	CurrentPeriodStart    *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd      *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd     bool       `json:"cancel_at_period_end"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Quota is the authoritative usage state of a user
type Quota struct {
	MaxTopologies           int       `json:"max_topologies"`
	UsedTopologies          int       `json:"used_topologies"`
	MaxSimulationsPerDay    int       `json:"max_simulations_per_day"`
	UsedSimulationsToday    int       `json:"used_simulations_today"`
	LastSimulationResetDate time.Time `json:"last_simulation_reset_date"`
	CanUse3DRendering       bool      `json:"can_use_3d_rendering"`
	CanUseAIPrediction      bool      `json:"can_use_ai_prediction"`
	CanUseAdvancedSecurity  bool      `json:"can_use_advanced_security"`
	CanAccessAPI            bool      `json:"can_access_api"`
}

// Profile is the identity service's view of the current session
type Profile struct {
	User         User          `json:"user"`
	Subscription *Subscription `json:"subscription,omitempty"`
	Quota        *Quota        `json:"quota,omitempty"`
}

// Payment is one entry of the payment history
type Payment struct {
	ID                string                 `json:"id"`
	UserID            string                 `json:"user_id"`
	SubscriptionID    *string                `json:"subscription_id,omitempty"`
	Amount            float64                `json:"amount"`
	Currency          string                 `json:"currency"`
	PaymentProvider   string                 `json:"payment_provider"`
	PaymentProviderID string                 `json:"payment_provider_id"`
	Status            string                 `json:"status"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// Checkout is the payment provider's answer to a checkout request
type Checkout struct {
	CheckoutURL    string `json:"checkout_url,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	Status         string `json:"status,omitempty"`
}

// Credentials is a bearer token issued by the identity service
type Credentials struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
