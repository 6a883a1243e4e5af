// Package handlers binds every command to the workspace, session or payment
// service that carries it out.
package handlers

import (
	"context"

	"feeder-workbench/application/commands"
	"feeder-workbench/application/commands/bus"
	"feeder-workbench/application/ports"
	"feeder-workbench/application/session"
	"feeder-workbench/application/workspace"
	"feeder-workbench/domain/core/valueobjects"
	pkgerrors "feeder-workbench/pkg/errors"
)

// Handlers carries out workbench commands
type Handlers struct {
	workspace *workspace.Workspace
	session   *session.Manager
	payments  ports.PaymentService
}

// NewHandlers creates the command handlers
func NewHandlers(ws *workspace.Workspace, sess *session.Manager, payments ports.PaymentService) *Handlers {
	return &Handlers{
		workspace: ws,
		session:   sess,
		payments:  payments,
	}
}

// Register registers every command on the bus
func (h *Handlers) Register(b *bus.CommandBus) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.AddNodeCommand{}, bus.HandlerFor(h.AddNode)},
		{commands.ConnectEdgeCommand{}, bus.HandlerFor(h.ConnectEdge)},
		{commands.MoveNodeCommand{}, bus.HandlerFor(h.MoveNode)},
		{commands.RenameNodeCommand{}, bus.HandlerFor(h.RenameNode)},
		{commands.UpdateNodePropertiesCommand{}, bus.HandlerFor(h.UpdateNodeProperties)},
		{commands.RemoveNodeCommand{}, bus.HandlerFor(h.RemoveNode)},
		{commands.RemoveEdgeCommand{}, bus.HandlerFor(h.RemoveEdge)},
		{commands.UpdateTopologyCommand{}, bus.HandlerFor(h.UpdateTopology)},
		{commands.NewDraftCommand{}, bus.HandlerFor(h.NewDraft)},
		{commands.ClearOverlayCommand{}, bus.HandlerFor(h.ClearOverlay)},
		{commands.SaveTopologyCommand{}, bus.HandlerFor(h.Save)},
		{commands.LoadTopologyCommand{}, bus.HandlerFor(h.Load)},
		{commands.DeleteTopologyCommand{}, bus.HandlerFor(h.Delete)},
		{commands.RunPowerflowCommand{}, bus.HandlerFor(h.RunPowerflow)},
		{commands.RunESGCommand{}, bus.HandlerFor(h.RunESG)},
		{commands.RunPenetrationCommand{}, bus.HandlerFor(h.RunPenetration)},
		{commands.RunReliabilityCommand{}, bus.HandlerFor(h.RunReliability)},
		{commands.LoginCommand{}, bus.HandlerFor(h.Login)},
		{commands.RefreshTokenCommand{}, bus.HandlerFor(h.RefreshToken)},
		{commands.LogoutCommand{}, bus.HandlerFor(h.Logout)},
		{commands.CreateCheckoutCommand{}, bus.HandlerFor(h.CreateCheckout)},
	}
	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) AddNode(ctx context.Context, cmd commands.AddNodeCommand) (interface{}, error) {
	assetType, err := valueobjects.ParseAssetType(cmd.AssetType)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	position, err := valueobjects.NewPosition(cmd.X, cmd.Y)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	return h.workspace.AddNode(ctx, assetType, position, cmd.Name)
}

func (h *Handlers) ConnectEdge(ctx context.Context, cmd commands.ConnectEdgeCommand) (interface{}, error) {
	return h.workspace.ConnectEdge(ctx,
		valueobjects.NodeID(cmd.FromNodeID),
		valueobjects.NodeID(cmd.ToNodeID),
		cmd.Label,
	)
}

func (h *Handlers) MoveNode(ctx context.Context, cmd commands.MoveNodeCommand) (interface{}, error) {
	position, err := valueobjects.NewPosition(cmd.X, cmd.Y)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	return nil, h.workspace.MoveNode(ctx, valueobjects.NodeID(cmd.NodeID), position)
}

func (h *Handlers) RenameNode(ctx context.Context, cmd commands.RenameNodeCommand) (interface{}, error) {
	return nil, h.workspace.RenameNode(ctx, valueobjects.NodeID(cmd.NodeID), cmd.Name)
}

func (h *Handlers) UpdateNodeProperties(ctx context.Context, cmd commands.UpdateNodePropertiesCommand) (interface{}, error) {
	return nil, h.workspace.UpdateNodeProperties(ctx, valueobjects.NodeID(cmd.NodeID), cmd.Properties)
}

func (h *Handlers) RemoveNode(ctx context.Context, cmd commands.RemoveNodeCommand) (interface{}, error) {
	return nil, h.workspace.RemoveNode(ctx, valueobjects.NodeID(cmd.NodeID))
}

func (h *Handlers) RemoveEdge(ctx context.Context, cmd commands.RemoveEdgeCommand) (interface{}, error) {
	return nil, h.workspace.RemoveEdge(ctx, valueobjects.EdgeID(cmd.EdgeID))
}

func (h *Handlers) UpdateTopology(ctx context.Context, cmd commands.UpdateTopologyCommand) (interface{}, error) {
	if cmd.Name != nil {
		if err := h.workspace.Rename(ctx, *cmd.Name); err != nil {
			return nil, err
		}
	}
	if cmd.Description != nil {
		if err := h.workspace.SetDescription(ctx, *cmd.Description); err != nil {
			return nil, err
		}
	}
	if cmd.ProfileType != nil {
		profile, err := valueobjects.ParseProfileType(*cmd.ProfileType)
		if err != nil {
			return nil, pkgerrors.NewValidationError(err.Error())
		}
		if err := h.workspace.SetProfile(ctx, profile); err != nil {
			return nil, err
		}
	}
	return h.workspace.Canvas(), nil
}

func (h *Handlers) NewDraft(ctx context.Context, cmd commands.NewDraftCommand) (interface{}, error) {
	profile, err := valueobjects.ParseProfileType(cmd.ProfileType)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	return h.workspace.NewDraft(ctx, cmd.Name, profile)
}

func (h *Handlers) ClearOverlay(ctx context.Context, _ commands.ClearOverlayCommand) (interface{}, error) {
	h.workspace.ClearOverlay(ctx)
	return h.workspace.Canvas(), nil
}

func (h *Handlers) Save(ctx context.Context, _ commands.SaveTopologyCommand) (interface{}, error) {
	return h.workspace.Save(ctx)
}

func (h *Handlers) Load(ctx context.Context, cmd commands.LoadTopologyCommand) (interface{}, error) {
	return h.workspace.Load(ctx, cmd.TopologyID)
}

func (h *Handlers) Delete(ctx context.Context, cmd commands.DeleteTopologyCommand) (interface{}, error) {
	return nil, h.workspace.Delete(ctx, cmd.TopologyID)
}

func (h *Handlers) RunPowerflow(ctx context.Context, _ commands.RunPowerflowCommand) (interface{}, error) {
	return h.workspace.RunPowerflow(ctx)
}

func (h *Handlers) RunESG(ctx context.Context, cmd commands.RunESGCommand) (interface{}, error) {
	return h.workspace.RunESG(ctx, cmd.Parameters())
}

func (h *Handlers) RunPenetration(ctx context.Context, cmd commands.RunPenetrationCommand) (interface{}, error) {
	return h.workspace.RunPenetration(ctx, cmd.Scenarios, cmd.Targets)
}

func (h *Handlers) RunReliability(ctx context.Context, cmd commands.RunReliabilityCommand) (interface{}, error) {
	return h.workspace.RunReliability(ctx, cmd.Parameters)
}

func (h *Handlers) Login(ctx context.Context, cmd commands.LoginCommand) (interface{}, error) {
	return h.session.Login(ctx, cmd.Provider, cmd.Code, cmd.State)
}

func (h *Handlers) RefreshToken(ctx context.Context, _ commands.RefreshTokenCommand) (interface{}, error) {
	if err := h.session.RefreshToken(ctx); err != nil {
		return nil, err
	}
	return h.session.View(), nil
}

func (h *Handlers) Logout(_ context.Context, _ commands.LogoutCommand) (interface{}, error) {
	h.session.Logout()
	return h.session.View(), nil
}

func (h *Handlers) CreateCheckout(ctx context.Context, cmd commands.CreateCheckoutCommand) (interface{}, error) {
	if !h.session.IsAuthenticated() {
		return nil, pkgerrors.NewSessionExpired("log in to upgrade")
	}
	checkout, err := h.payments.CreateCheckout(ctx, cmd.Tier, cmd.Provider)
	if err != nil {
		h.session.HandleError(err)
		return nil, err
	}
	return checkout, nil
}
