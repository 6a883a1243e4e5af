package commands

import "feeder-workbench/pkg/utils"

// LoginCommand completes an OAuth flow
type LoginCommand struct {
	Provider string `json:"provider" validate:"required,oneof=google github"`
	Code     string `json:"code" validate:"required"`
	State    string `json:"state"`
}

func (c LoginCommand) Validate() error { return utils.ValidateStruct(c) }

// RefreshTokenCommand exchanges the current token for a new one
type RefreshTokenCommand struct{}

func (c RefreshTokenCommand) Validate() error { return nil }

// LogoutCommand clears the stored credential
type LogoutCommand struct{}

func (c LogoutCommand) Validate() error { return nil }

// CreateCheckoutCommand starts a premium upgrade
type CreateCheckoutCommand struct {
	Tier     string `json:"tier" validate:"required,oneof=premium"`
	Provider string `json:"provider" validate:"required,oneof=stripe paypal"`
}

func (c CreateCheckoutCommand) Validate() error { return utils.ValidateStruct(c) }
