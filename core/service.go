package core

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-vendors/identity"
)

type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	resolver          *identity.Resolver
	registry          *HandlerRegistry
	planLimiter       PlanLimiter
	vendorTypeStore   VendorTypeStore
	instanceStore     VendorInstanceStore
	credentialStore   CredentialStore
}

type ServiceDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorFactory    ErrorFactory
	ErrorMapper     ErrorMapper
	PlanLimiter     PlanLimiter
	VendorTypeStore VendorTypeStore
	InstanceStore   VendorInstanceStore
	CredentialStore CredentialStore
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("vendors", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("vendors"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	service := &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		planLimiter:       builder.planLimiter,
		vendorTypeStore:   builder.vendorTypeStore,
		instanceStore:     builder.instanceStore,
		credentialStore:   builder.credentialStore,
	}

	service.resolver = builder.resolver
	if service.resolver == nil {
		service.resolver = identity.NewResolver(identity.Config{
			Observer: service.identityObserver(),
		})
	}
	service.registry = builder.registry
	if service.registry == nil {
		service.registry = NewHandlerRegistry(service.resolver)
	}

	if missingStores(service) && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			storeProvider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			applyStoreProvider(service, storeProvider)
		} else if storeProvider, ok := builder.repositoryFactory.(StoreProvider); ok {
			applyStoreProvider(service, storeProvider)
		}
	}

	if service.planLimiter == nil {
		if limit := finalConfig.Provisioning.DefaultVendorLimit; limit > 0 {
			service.planLimiter = staticPlanLimiter{limit: limit}
		} else {
			service.planLimiter = UnboundedPlanLimiter{}
		}
	}

	return service, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

// Dependencies exposes resolved collaborators for downstream composition.
func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:          s.logger,
		LoggerProvider:  s.loggerProvider,
		MetricsRecorder: s.metricsRecorder,
		ErrorFactory:    s.errorFactory,
		ErrorMapper:     s.errorMapper,
		PlanLimiter:     s.planLimiter,
		VendorTypeStore: s.vendorTypeStore,
		InstanceStore:   s.instanceStore,
		CredentialStore: s.credentialStore,
	}
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Resolver() *identity.Resolver {
	if s == nil {
		return nil
	}
	return s.resolver
}

func (s *Service) Registry() *HandlerRegistry {
	if s == nil {
		return nil
	}
	return s.registry
}

type staticPlanLimiter struct {
	limit int
}

func (l staticPlanLimiter) GetVendorLimit(context.Context, string) (int, bool, error) {
	return l.limit, true, nil
}

func missingStores(s *Service) bool {
	return s.vendorTypeStore == nil || s.instanceStore == nil || s.credentialStore == nil
}

func applyStoreProvider(s *Service, provider StoreProvider) {
	if provider == nil {
		return
	}
	if s.vendorTypeStore == nil {
		s.vendorTypeStore = provider.VendorTypeStore()
	}
	if s.instanceStore == nil {
		s.instanceStore = provider.VendorInstanceStore()
	}
	if s.credentialStore == nil {
		s.credentialStore = provider.CredentialStore()
	}
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
