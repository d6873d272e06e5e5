package core

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
)

type stubVendorTypeStore struct {
	mu     sync.Mutex
	nextID int64
	types  map[int64]VendorType
}

func newStubVendorTypeStore() *stubVendorTypeStore {
	return &stubVendorTypeStore{types: map[int64]VendorType{}}
}

func (s *stubVendorTypeStore) Create(_ context.Context, in CreateVendorTypeInput) (VendorType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	vendorType := VendorType{
		ID:                s.nextID,
		Name:              in.Name,
		Slug:              in.Slug,
		ShortCode:         in.ShortCode,
		RetailVerticalIDs: append([]int64(nil), in.RetailVerticalIDs...),
		Enabled:           in.Enabled,
		CredentialSchema:  in.CredentialSchema,
	}
	s.types[vendorType.ID] = vendorType
	return vendorType, nil
}

func (s *stubVendorTypeStore) Get(_ context.Context, id int64) (VendorType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vendorType, ok := s.types[id]
	if !ok {
		return VendorType{}, fmt.Errorf("%w: id %d", ErrVendorTypeNotFound, id)
	}
	return vendorType, nil
}

func (s *stubVendorTypeStore) GetBySlug(_ context.Context, slug string) (VendorType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, vendorType := range s.types {
		if vendorType.Slug == slug {
			return vendorType, nil
		}
	}
	return VendorType{}, fmt.Errorf("%w: slug %q", ErrVendorTypeNotFound, slug)
}

func (s *stubVendorTypeStore) ListEnabled(_ context.Context) ([]VendorType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []VendorType{}
	for _, vendorType := range s.types {
		if vendorType.Enabled {
			out = append(out, vendorType)
		}
	}
	return out, nil
}

func (s *stubVendorTypeStore) UpdateFields(_ context.Context, id int64, fields map[string]any) (VendorType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vendorType, ok := s.types[id]
	if !ok {
		return VendorType{}, fmt.Errorf("%w: id %d", ErrVendorTypeNotFound, id)
	}
	for key, value := range fields {
		switch key {
		case "name":
			vendorType.Name = fmt.Sprint(value)
		case "short_code", "vendor_short_code":
			vendorType.ShortCode = fmt.Sprint(value)
		case "enabled", "is_enabled":
			if typed, isBool := value.(bool); isBool {
				vendorType.Enabled = typed
			}
		case "vendor_slug", "slug":
			return VendorType{}, fmt.Errorf("stub: immutable field %q reached storage", key)
		}
	}
	s.types[id] = vendorType
	return vendorType, nil
}

type stubInstanceStore struct {
	mu        sync.Mutex
	nextID    int
	instances []VendorInstance
	// everMinted counts per (org, type) including disconnected instances so
	// instance slugs are never reissued.
	everMinted map[string]int
}

func newStubInstanceStore() *stubInstanceStore {
	return &stubInstanceStore{everMinted: map[string]int{}}
}

func countKey(orgID string, vendorTypeID int64) string {
	return orgID + "/" + strconv.FormatInt(vendorTypeID, 10)
}

func (s *stubInstanceStore) CreateIfAbsent(_ context.Context, in CreateInstanceInput) (VendorInstance, bool, error) {
	if err := in.Validate(); err != nil {
		return VendorInstance{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, instance := range s.instances {
		if instance.OrgID == in.OrgID && instance.VendorTypeID == in.VendorTypeID && instance.InstanceSlug == in.InstanceSlug {
			return instance, false, nil
		}
	}
	s.nextID++
	instance := VendorInstance{
		ID:           "instance-" + strconv.Itoa(s.nextID),
		OrgID:        in.OrgID,
		VendorTypeID: in.VendorTypeID,
		VendorSlug:   in.VendorSlug,
		InstanceSlug: in.InstanceSlug,
		ShortCode:    in.ShortCode,
		Status:       in.Status,
	}
	s.instances = append(s.instances, instance)
	s.everMinted[countKey(in.OrgID, in.VendorTypeID)]++
	return instance, true, nil
}

func (s *stubInstanceStore) Get(_ context.Context, id string) (VendorInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, instance := range s.instances {
		if instance.ID == id {
			return instance, nil
		}
	}
	return VendorInstance{}, fmt.Errorf("%w: id %q", ErrVendorInstanceNotFound, id)
}

func (s *stubInstanceStore) ListByOrg(_ context.Context, orgID string) ([]VendorInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []VendorInstance{}
	for _, instance := range s.instances {
		if instance.OrgID == orgID && instance.Status != InstanceStatusDisconnected {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (s *stubInstanceStore) CountByOrgAndType(_ context.Context, orgID string, vendorTypeID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.everMinted[countKey(orgID, vendorTypeID)], nil
}

func (s *stubInstanceStore) UpdateShortCode(_ context.Context, id string, shortCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, instance := range s.instances {
		if instance.ID == id {
			s.instances[i].ShortCode = shortCode
			return nil
		}
	}
	return fmt.Errorf("%w: id %q", ErrVendorInstanceNotFound, id)
}

func (s *stubInstanceStore) Disconnect(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, instance := range s.instances {
		if instance.ID == id {
			s.instances[i].Status = InstanceStatusDisconnected
			return nil
		}
	}
	return fmt.Errorf("%w: id %q", ErrVendorInstanceNotFound, id)
}

type stubCredentialStore struct {
	mu       sync.Mutex
	payloads map[string]CredentialPayload
	states   map[string]OperationalState
	// dropKeys simulates a write that silently loses keys, for verification
	// warning tests.
	dropKeys map[string]bool
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{
		payloads: map[string]CredentialPayload{},
		states:   map[string]OperationalState{},
		dropKeys: map[string]bool{},
	}
}

func (s *stubCredentialStore) Save(_ context.Context, orgID string, vendorTypeID int64, payload CredentialPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := CredentialPayload{}
	for key, value := range payload {
		if s.dropKeys[key] {
			continue
		}
		stored[key] = value
	}
	s.payloads[countKey(orgID, vendorTypeID)] = stored
	return nil
}

func (s *stubCredentialStore) Load(_ context.Context, orgID string, vendorTypeID int64) (CredentialPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.payloads[countKey(orgID, vendorTypeID)]
	if !ok {
		return nil, fmt.Errorf("%w: org %q type %d", ErrCredentialsNotFound, orgID, vendorTypeID)
	}
	return payload.Clone(), nil
}

func (s *stubCredentialStore) SetOperationalState(_ context.Context, orgID string, vendorTypeID int64, state OperationalState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[countKey(orgID, vendorTypeID)] = state
	return nil
}

func (s *stubCredentialStore) GetOperationalState(_ context.Context, orgID string, vendorTypeID int64) (OperationalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[countKey(orgID, vendorTypeID)], nil
}

type capturingMetrics struct {
	mu       sync.Mutex
	counters []capturedCounter
}

type capturedCounter struct {
	Name string
	Tags map[string]string
}

func (m *capturingMetrics) IncCounter(_ context.Context, name string, _ int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{Name: name, Tags: tags})
}

func (m *capturingMetrics) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func (m *capturingMetrics) warnings(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, counter := range m.counters {
		if counter.Name == "vendors.warnings.total" && counter.Tags["event_type"] == eventType {
			count++
		}
	}
	return count
}

type staticLimiter struct {
	limit int
}

func (l staticLimiter) GetVendorLimit(context.Context, string) (int, bool, error) {
	return l.limit, true, nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *stubVendorTypeStore, *stubInstanceStore, *stubCredentialStore, *capturingMetrics) {
	t.Helper()
	typeStore := newStubVendorTypeStore()
	instanceStore := newStubInstanceStore()
	credentialStore := newStubCredentialStore()
	metrics := &capturingMetrics{}

	options := append([]Option{
		WithVendorTypeStore(typeStore),
		WithVendorInstanceStore(instanceStore),
		WithCredentialStore(credentialStore),
		WithMetricsRecorder(metrics),
	}, opts...)

	service, err := NewService(DefaultConfig(), options...)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return service, typeStore, instanceStore, credentialStore, metrics
}

var _ VendorTypeStore = (*stubVendorTypeStore)(nil)
var _ VendorInstanceStore = (*stubInstanceStore)(nil)
var _ CredentialStore = (*stubCredentialStore)(nil)
var _ MetricsRecorder = (*capturingMetrics)(nil)
