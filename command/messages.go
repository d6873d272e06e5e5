package command

import (
	"strings"

	"github.com/goliatone/go-vendors/core"
)

const (
	TypeCreateVendorType        = "vendors.command.vendor_type.create"
	TypeUpdateVendorType        = "vendors.command.vendor_type.update"
	TypeProvisionOrganization   = "vendors.command.provision"
	TypeSaveCredentials         = "vendors.command.credentials.save"
	TypeSetSyncStatus           = "vendors.command.sync_status.set"
	TypeDisconnectInstance      = "vendors.command.instance.disconnect"
	TypeUpdateInstanceShortCode = "vendors.command.instance.update_short_code"
)

type CreateVendorTypeMessage struct {
	Input core.CreateVendorTypeInput
}

func (CreateVendorTypeMessage) Type() string { return TypeCreateVendorType }

func (m CreateVendorTypeMessage) Validate() error {
	if err := m.Input.Validate(); err != nil {
		return commandWrapValidation(err, "command: invalid vendor type input")
	}
	return nil
}

type UpdateVendorTypeMessage struct {
	VendorTypeID int64
	Patch        map[string]any
}

func (UpdateVendorTypeMessage) Type() string { return TypeUpdateVendorType }

func (m UpdateVendorTypeMessage) Validate() error {
	if m.VendorTypeID <= 0 {
		return commandInvalidInputError("command: vendor type id is required")
	}
	if len(m.Patch) == 0 {
		return commandInvalidInputError("command: update patch is required")
	}
	return nil
}

type ProvisionOrganizationMessage struct {
	Request core.ProvisionRequest
}

func (ProvisionOrganizationMessage) Type() string { return TypeProvisionOrganization }

func (m ProvisionOrganizationMessage) Validate() error {
	if err := m.Request.Validate(); err != nil {
		return commandWrapValidation(err, "command: invalid provision request")
	}
	return nil
}

type SaveCredentialsMessage struct {
	OrgID        string
	VendorTypeID int64
	Payload      core.CredentialPayload
}

func (SaveCredentialsMessage) Type() string { return TypeSaveCredentials }

func (m SaveCredentialsMessage) Validate() error {
	if strings.TrimSpace(m.OrgID) == "" {
		return commandInvalidInputError("command: organization id is required")
	}
	if m.VendorTypeID <= 0 {
		return commandInvalidInputError("command: vendor type id is required")
	}
	if len(m.Payload) == 0 {
		return commandInvalidInputError("command: credential payload is required")
	}
	return nil
}

type SetSyncStatusMessage struct {
	OrgID        string
	VendorTypeID int64
	State        core.OperationalState
}

func (SetSyncStatusMessage) Type() string { return TypeSetSyncStatus }

func (m SetSyncStatusMessage) Validate() error {
	if strings.TrimSpace(m.OrgID) == "" {
		return commandInvalidInputError("command: organization id is required")
	}
	if m.VendorTypeID <= 0 {
		return commandInvalidInputError("command: vendor type id is required")
	}
	return nil
}

type DisconnectInstanceMessage struct {
	InstanceID string
}

func (DisconnectInstanceMessage) Type() string { return TypeDisconnectInstance }

func (m DisconnectInstanceMessage) Validate() error {
	if strings.TrimSpace(m.InstanceID) == "" {
		return commandInvalidInputError("command: instance id is required")
	}
	return nil
}

type UpdateInstanceShortCodeMessage struct {
	InstanceID string
	ShortCode  string
}

func (UpdateInstanceShortCodeMessage) Type() string { return TypeUpdateInstanceShortCode }

func (m UpdateInstanceShortCodeMessage) Validate() error {
	if strings.TrimSpace(m.InstanceID) == "" {
		return commandInvalidInputError("command: instance id is required")
	}
	if strings.TrimSpace(m.ShortCode) == "" {
		return commandInvalidInputError("command: short code is required")
	}
	return nil
}
