package vendors

import (
	"fmt"

	vendorscommand "github.com/goliatone/go-vendors/command"
	"github.com/goliatone/go-vendors/identity"
	vendorsquery "github.com/goliatone/go-vendors/query"
)

type CommandQueryService interface {
	vendorscommand.MutatingService
	vendorsquery.VendorTypeReader
	vendorsquery.VendorInstanceReader
	vendorsquery.CredentialReader
}

type Commands struct {
	CreateVendorType        *vendorscommand.CreateVendorTypeCommand
	UpdateVendorType        *vendorscommand.UpdateVendorTypeCommand
	ProvisionOrganization   *vendorscommand.ProvisionOrganizationCommand
	SaveCredentials         *vendorscommand.SaveCredentialsCommand
	SetSyncStatus           *vendorscommand.SetSyncStatusCommand
	DisconnectInstance      *vendorscommand.DisconnectInstanceCommand
	UpdateInstanceShortCode *vendorscommand.UpdateInstanceShortCodeCommand
}

type Queries struct {
	GetVendorType          *vendorsquery.GetVendorTypeQuery
	GetVendorTypeBySlug    *vendorsquery.GetVendorTypeBySlugQuery
	ListEnabledVendorTypes *vendorsquery.ListEnabledVendorTypesQuery
	ListInstances          *vendorsquery.ListInstancesQuery
	LoadCredentials        *vendorsquery.LoadCredentialsQuery
	GetSyncStatus          *vendorsquery.GetSyncStatusQuery
	ResolveIdentifier      *vendorsquery.ResolveIdentifierQuery
	BuildVendorAPIRoute    *vendorsquery.BuildVendorAPIRouteQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	resolver vendorsquery.IdentifierResolver
}

func WithFacadeResolver(resolver vendorsquery.IdentifierResolver) FacadeOption {
	return func(options *facadeOptions) {
		options.resolver = resolver
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("vendors: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	resolver := cfg.resolver
	if resolver == nil {
		resolver = resolveIdentifierResolver(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		CreateVendorType:        vendorscommand.NewCreateVendorTypeCommand(service),
		UpdateVendorType:        vendorscommand.NewUpdateVendorTypeCommand(service),
		ProvisionOrganization:   vendorscommand.NewProvisionOrganizationCommand(service),
		SaveCredentials:         vendorscommand.NewSaveCredentialsCommand(service),
		SetSyncStatus:           vendorscommand.NewSetSyncStatusCommand(service),
		DisconnectInstance:      vendorscommand.NewDisconnectInstanceCommand(service),
		UpdateInstanceShortCode: vendorscommand.NewUpdateInstanceShortCodeCommand(service),
	}
	facade.queries = Queries{
		GetVendorType:          vendorsquery.NewGetVendorTypeQuery(service),
		GetVendorTypeBySlug:    vendorsquery.NewGetVendorTypeBySlugQuery(service),
		ListEnabledVendorTypes: vendorsquery.NewListEnabledVendorTypesQuery(service),
		ListInstances:          vendorsquery.NewListInstancesQuery(service),
		LoadCredentials:        vendorsquery.NewLoadCredentialsQuery(service),
		GetSyncStatus:          vendorsquery.NewGetSyncStatusQuery(service),
		ResolveIdentifier:      vendorsquery.NewResolveIdentifierQuery(resolver),
		BuildVendorAPIRoute:    vendorsquery.NewBuildVendorAPIRouteQuery(resolver),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func resolveIdentifierResolver(service CommandQueryService) vendorsquery.IdentifierResolver {
	if service == nil {
		return nil
	}
	if resolver, ok := service.(vendorsquery.IdentifierResolver); ok {
		return resolver
	}
	provider, ok := service.(interface {
		Resolver() *identity.Resolver
	})
	if !ok {
		return nil
	}
	return provider.Resolver()
}
