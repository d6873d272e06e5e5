package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-vendors/core"
)

type MutatingService interface {
	CreateVendorType(ctx context.Context, in core.CreateVendorTypeInput) (core.VendorType, error)
	UpdateVendorType(ctx context.Context, id int64, patch map[string]any) (core.VendorType, error)
	ProvisionForOrganization(ctx context.Context, req core.ProvisionRequest) ([]core.VendorInstance, error)
	SaveCredentials(ctx context.Context, orgID string, vendorTypeID int64, payload core.CredentialPayload) error
	SetSyncStatus(ctx context.Context, orgID string, vendorTypeID int64, state core.OperationalState) error
	DisconnectInstance(ctx context.Context, instanceID string) error
	UpdateInstanceShortCode(ctx context.Context, instanceID string, shortCode string) error
}

type CreateVendorTypeCommand struct {
	service MutatingService
}

func NewCreateVendorTypeCommand(service MutatingService) *CreateVendorTypeCommand {
	return &CreateVendorTypeCommand{service: service}
}

func (c *CreateVendorTypeCommand) Execute(ctx context.Context, msg CreateVendorTypeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: vendor type service is required")
	}
	out, err := c.service.CreateVendorType(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdateVendorTypeCommand struct {
	service MutatingService
}

func NewUpdateVendorTypeCommand(service MutatingService) *UpdateVendorTypeCommand {
	return &UpdateVendorTypeCommand{service: service}
}

func (c *UpdateVendorTypeCommand) Execute(ctx context.Context, msg UpdateVendorTypeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: vendor type service is required")
	}
	out, err := c.service.UpdateVendorType(ctx, msg.VendorTypeID, msg.Patch)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ProvisionOrganizationCommand struct {
	service MutatingService
}

func NewProvisionOrganizationCommand(service MutatingService) *ProvisionOrganizationCommand {
	return &ProvisionOrganizationCommand{service: service}
}

func (c *ProvisionOrganizationCommand) Execute(ctx context.Context, msg ProvisionOrganizationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: provisioning service is required")
	}
	out, err := c.service.ProvisionForOrganization(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SaveCredentialsCommand struct {
	service MutatingService
}

func NewSaveCredentialsCommand(service MutatingService) *SaveCredentialsCommand {
	return &SaveCredentialsCommand{service: service}
}

func (c *SaveCredentialsCommand) Execute(ctx context.Context, msg SaveCredentialsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: credential service is required")
	}
	return c.service.SaveCredentials(ctx, msg.OrgID, msg.VendorTypeID, msg.Payload)
}

type SetSyncStatusCommand struct {
	service MutatingService
}

func NewSetSyncStatusCommand(service MutatingService) *SetSyncStatusCommand {
	return &SetSyncStatusCommand{service: service}
}

func (c *SetSyncStatusCommand) Execute(ctx context.Context, msg SetSyncStatusMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sync status service is required")
	}
	return c.service.SetSyncStatus(ctx, msg.OrgID, msg.VendorTypeID, msg.State)
}

type DisconnectInstanceCommand struct {
	service MutatingService
}

func NewDisconnectInstanceCommand(service MutatingService) *DisconnectInstanceCommand {
	return &DisconnectInstanceCommand{service: service}
}

func (c *DisconnectInstanceCommand) Execute(ctx context.Context, msg DisconnectInstanceMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: instance service is required")
	}
	return c.service.DisconnectInstance(ctx, msg.InstanceID)
}

type UpdateInstanceShortCodeCommand struct {
	service MutatingService
}

func NewUpdateInstanceShortCodeCommand(service MutatingService) *UpdateInstanceShortCodeCommand {
	return &UpdateInstanceShortCodeCommand{service: service}
}

func (c *UpdateInstanceShortCodeCommand) Execute(ctx context.Context, msg UpdateInstanceShortCodeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: instance service is required")
	}
	return c.service.UpdateInstanceShortCode(ctx, msg.InstanceID, msg.ShortCode)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
