package vendors

import "github.com/goliatone/go-vendors/core"

type Config = core.Config

type ProvisioningConfig = core.ProvisioningConfig

type Option = core.Option

type Service = core.Service

type VendorType = core.VendorType
type VendorInstance = core.VendorInstance
type CredentialPayload = core.CredentialPayload
type CredentialSchema = core.CredentialSchema
type OperationalState = core.OperationalState

type VendorTypeStore = core.VendorTypeStore
type VendorInstanceStore = core.VendorInstanceStore
type CredentialStore = core.CredentialStore
type PlanLimiter = core.PlanLimiter
type HandlerRegistry = core.HandlerRegistry
type VendorHandler = core.VendorHandler

type CreateVendorTypeInput = core.CreateVendorTypeInput
type ProvisionRequest = core.ProvisionRequest

var (
	WithLogger              = core.WithLogger
	WithLoggerProvider      = core.WithLoggerProvider
	WithMetricsRecorder     = core.WithMetricsRecorder
	WithErrorFactory        = core.WithErrorFactory
	WithErrorMapper         = core.WithErrorMapper
	WithPersistenceClient   = core.WithPersistenceClient
	WithRepositoryFactory   = core.WithRepositoryFactory
	WithConfigProvider      = core.WithConfigProvider
	WithOptionsResolver     = core.WithOptionsResolver
	WithIdentityResolver    = core.WithIdentityResolver
	WithHandlerRegistry     = core.WithHandlerRegistry
	WithPlanLimiter         = core.WithPlanLimiter
	WithVendorTypeStore     = core.WithVendorTypeStore
	WithVendorInstanceStore = core.WithVendorInstanceStore
	WithCredentialStore     = core.WithCredentialStore
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
