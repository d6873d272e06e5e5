package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[CreateVendorTypeMessage]        = (*CreateVendorTypeCommand)(nil)
	_ gocmd.Commander[UpdateVendorTypeMessage]        = (*UpdateVendorTypeCommand)(nil)
	_ gocmd.Commander[ProvisionOrganizationMessage]   = (*ProvisionOrganizationCommand)(nil)
	_ gocmd.Commander[SaveCredentialsMessage]         = (*SaveCredentialsCommand)(nil)
	_ gocmd.Commander[SetSyncStatusMessage]           = (*SetSyncStatusCommand)(nil)
	_ gocmd.Commander[DisconnectInstanceMessage]      = (*DisconnectInstanceCommand)(nil)
	_ gocmd.Commander[UpdateInstanceShortCodeMessage] = (*UpdateInstanceShortCodeCommand)(nil)
)
