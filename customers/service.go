// Package customers is the domain service behind the Customers and
// CustomerGroups schemas: customer records and named member groups persisted
// as JSON in an external key-value store.
//
// Store layout:
//
//	customer:<id>          → Customer JSON
//	customer_group:<name>  → CustomerGroup JSON
//
// The service holds no in-memory state between calls; the store is the only
// shared resource. Group membership updates are plain read-modify-write with
// no store-level atomicity: two concurrent adds against the same group can
// both read the same prior member list, and the second write wins over the
// whole record. Callers needing stronger guarantees must serialize their own
// writes.
package customers

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sharedbucket/bucket"
	"sharedbucket/keyvalue"
)

const (
	customerKeyPrefix = "customer:"
	groupKeyPrefix    = "customer_group:"
)

func customerKey(id string) string { return customerKeyPrefix + id }
func groupKey(name string) string  { return groupKeyPrefix + name }

// Service implements bucket.Customers and bucket.CustomerGroups over a
// key-value store.
type Service struct {
	kv     keyvalue.Store
	newID  func() string
	logger *zap.Logger
}

var (
	_ bucket.Customers      = (*Service)(nil)
	_ bucket.CustomerGroups = (*Service)(nil)
)

func New(kv keyvalue.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		kv:     kv,
		newID:  uuid.NewString,
		logger: logger,
	}
}

// CreateCustomer assigns a fresh id and persists the customer under it.
// Store failures come back as Success=false with an empty id; the store's
// error never crosses the wire.
func (s *Service) CreateCustomer(ctx context.Context, c *bucket.Customer) (*bucket.CreateCustomerReply, error) {
	id := s.newID()
	stored := *c
	stored.ID = &id

	payload, err := json.Marshal(&stored)
	if err != nil {
		s.logger.Error("marshaling customer", zap.String("id", id), zap.Error(err))
		return &bucket.CreateCustomerReply{}, nil
	}

	err = s.kv.Set(ctx, keyvalue.SetRequest{Key: customerKey(id), Value: string(payload)})
	if err != nil {
		s.logger.Error("persisting customer", zap.String("id", id), zap.Error(err))
		return &bucket.CreateCustomerReply{}, nil
	}

	return &bucket.CreateCustomerReply{ID: id, Success: true}, nil
}

// FindCustomer looks up a customer by id. An unknown id yields a nil
// customer, not an error. A store failure also yields nil — from the
// caller's side the two are indistinguishable, so the failure is logged
// here, the one place that can still tell them apart.
func (s *Service) FindCustomer(ctx context.Context, id string) (*bucket.FindCustomerReply, error) {
	resp, err := s.kv.Get(ctx, customerKey(id))
	if err != nil {
		s.logger.Error("reading customer", zap.String("id", id), zap.Error(err))
		return &bucket.FindCustomerReply{}, nil
	}
	if !resp.Exists {
		return &bucket.FindCustomerReply{}, nil
	}

	var c bucket.Customer
	if err := json.Unmarshal([]byte(resp.Value), &c); err != nil {
		s.logger.Error("corrupt customer record", zap.String("id", id), zap.Error(err))
		return &bucket.FindCustomerReply{}, nil
	}
	return &bucket.FindCustomerReply{Customer: &c}, nil
}

func (s *Service) Healthz(ctx context.Context, _ *bucket.HealthzRequest) (*bucket.HealthzReply, error) {
	return &bucket.HealthzReply{Success: true}, nil
}

// CreateCustomerGroup persists a new group. The name is the storage key, so
// a second create with the same name fails with GroupExistsError and leaves
// the stored group untouched.
func (s *Service) CreateCustomerGroup(ctx context.Context, g *bucket.CustomerGroup) (*bucket.CreateCustomerGroupReply, error) {
	existing, err := s.kv.Get(ctx, groupKey(g.Name))
	if err != nil {
		return nil, fmt.Errorf("checking group %q: %w", g.Name, err)
	}
	if existing.Exists {
		return nil, &GroupExistsError{Name: g.Name}
	}

	stored := *g
	if stored.Customers == nil {
		stored.Customers = []string{}
	}
	payload, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("marshaling group %q: %w", g.Name, err)
	}

	err = s.kv.Set(ctx, keyvalue.SetRequest{Key: groupKey(g.Name), Value: string(payload)})
	if err != nil {
		s.logger.Error("persisting group", zap.String("group", g.Name), zap.Error(err))
		return &bucket.CreateCustomerGroupReply{}, nil
	}

	return &bucket.CreateCustomerGroupReply{Success: true}, nil
}

// AddCustomer appends a customer id to a group's member list, writing the
// whole group back. Adding an id that is already a member is a no-op with
// Success=true (idempotent). The read and the write are not atomic.
func (s *Service) AddCustomer(ctx context.Context, req *bucket.AddCustomerRequest) (*bucket.AddCustomerReply, error) {
	group, err := s.loadGroup(ctx, req.Group)
	if err != nil {
		return nil, err
	}

	if slices.Contains(group.Customers, req.Customer) {
		return &bucket.AddCustomerReply{Success: true}, nil
	}
	group.Customers = append(group.Customers, req.Customer)

	payload, err := json.Marshal(group)
	if err != nil {
		return nil, fmt.Errorf("marshaling group %q: %w", req.Group, err)
	}
	err = s.kv.Set(ctx, keyvalue.SetRequest{Key: groupKey(req.Group), Value: string(payload)})
	if err != nil {
		s.logger.Error("persisting group membership",
			zap.String("group", req.Group),
			zap.String("customer", req.Customer),
			zap.Error(err))
		return &bucket.AddCustomerReply{}, nil
	}

	return &bucket.AddCustomerReply{Success: true}, nil
}

// ListCustomers resolves a group's member ids to customer records. Members
// whose customer record is missing are dropped from the result rather than
// failing the whole list.
func (s *Service) ListCustomers(ctx context.Context, name string) (bucket.ListCustomersReply, error) {
	group, err := s.loadGroup(ctx, name)
	if err != nil {
		return nil, err
	}

	reply := make(bucket.ListCustomersReply, 0, len(group.Customers))
	for _, id := range group.Customers {
		found, err := s.FindCustomer(ctx, id)
		if err != nil {
			return nil, err
		}
		if found.Customer == nil {
			s.logger.Warn("dropping dangling group member",
				zap.String("group", name),
				zap.String("customer", id))
			continue
		}
		reply = append(reply, *found.Customer)
	}
	return reply, nil
}

func (s *Service) loadGroup(ctx context.Context, name string) (*bucket.CustomerGroup, error) {
	resp, err := s.kv.Get(ctx, groupKey(name))
	if err != nil {
		return nil, fmt.Errorf("reading group %q: %w", name, err)
	}
	if !resp.Exists {
		return nil, &GroupNotFoundError{Name: name}
	}
	var group bucket.CustomerGroup
	if err := json.Unmarshal([]byte(resp.Value), &group); err != nil {
		return nil, fmt.Errorf("corrupt group record %q: %w", name, err)
	}
	return &group, nil
}
