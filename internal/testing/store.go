package testing

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/shared"
)

// MemoryStore is an in-memory [models.Store] that records every write and can be told to fail.
//
// Dependent stores only keep a record count per username; the console never reads them.
// WithTx snapshots the state and restores it when fn fails, so a failed cascade leaves
// everything as it was. Recorded calls survive the rollback.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	records  map[string]map[string]int
	failures map[string]error
	calls    []Call
	nextID   int64

	// ReadErr, when set, is returned by FindByUsername and FindAll.
	ReadErr error
}

// Call is one recorded repository write.
type Call struct {
	Entity   string
	Op       string
	Username string
}

const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    map[string]models.User{},
		records:  map[string]map[string]int{},
		failures: map[string]error{},
		nextID:   1,
	}
}

// AddUser seeds a user, assigning an ID when it has none.
func (s *MemoryStore) AddUser(u models.User) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID
	}
	s.nextID = max(s.nextID, u.ID+1)
	s.users[u.Username] = u
	return s
}

// AddRecords seeds n records of entity owned by username.
func (s *MemoryStore) AddRecords(entity, username string, n int) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[entity] == nil {
		s.records[entity] = map[string]int{}
	}
	s.records[entity][username] += n
	return s
}

// Seed adds username with one record in every dependent store.
func (s *MemoryStore) Seed(u models.User) *MemoryStore {
	s.AddUser(u)
	for _, entity := range models.CascadeOrder[:len(models.CascadeOrder)-1] {
		s.AddRecords(entity, u.Username, 1)
	}
	return s
}

// FailOn makes every write to entity return err.
func (s *MemoryStore) FailOn(entity string, err error) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[entity] = err
	return s
}

// User returns a copy of the stored user.
func (s *MemoryStore) User(username string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	return u, ok
}

// UserCount returns the number of stored users.
func (s *MemoryStore) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Records returns how many records of entity username owns. For [models.EntityUsers] it is 0 or 1.
func (s *MemoryStore) Records(entity, username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entity == models.EntityUsers {
		if _, ok := s.users[username]; ok {
			return 1
		}
		return 0
	}
	return s.records[entity][username]
}

// Calls returns the recorded writes in order.
func (s *MemoryStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// DeleteOrder returns the entities of recorded deletes in order.
func (s *MemoryStore) DeleteOrder() []string {
	var order []string
	for _, c := range s.Calls() {
		if c.Op == OpDelete {
			order = append(order, c.Entity)
		}
	}
	return order
}

func (s *MemoryStore) Users() models.UserRepository { return &memUsers{s} }

func (s *MemoryStore) Dependents() []models.DependentRepository {
	entities := models.CascadeOrder[:len(models.CascadeOrder)-1]
	deps := make([]models.DependentRepository, 0, len(entities))
	for _, entity := range entities {
		deps = append(deps, &memDependent{store: s, entity: entity})
	}
	return deps
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(models.Store) error) error {
	s.mu.Lock()
	users := maps.Clone(s.users)
	records := make(map[string]map[string]int, len(s.records))
	for entity, counts := range s.records {
		records[entity] = maps.Clone(counts)
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.users, s.records = users, records
		s.mu.Unlock()
		return err
	}
	return nil
}

// record logs the call and returns the injected failure for entity, if any. Callers hold mu.
func (s *MemoryStore) record(entity, op, username string) error {
	s.calls = append(s.calls, Call{Entity: entity, Op: op, Username: username})
	return s.failures[entity]
}

type memUsers struct {
	s *MemoryStore
}

func (r *memUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ReadErr != nil {
		return nil, r.s.ReadErr
	}
	u, ok := r.s.users[username]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUsers) FindAll(ctx context.Context) ([]models.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ReadErr != nil {
		return nil, r.s.ReadErr
	}
	summaries := make([]models.UserSummary, 0, len(r.s.users))
	for _, u := range r.s.users {
		summaries = append(summaries, u.Summary())
	}
	slices.SortFunc(summaries, func(a, b models.UserSummary) int { return int(a.ID - b.ID) })
	return summaries, nil
}

func (r *memUsers) Insert(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record(models.EntityUsers, OpInsert, user.Username); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return err
	}
	if _, ok := r.s.users[user.Username]; ok {
		return shared.ErrUserExists
	}
	user.ID = r.s.nextID
	r.s.nextID++
	r.s.users[user.Username] = *user
	return nil
}

func (r *memUsers) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record(models.EntityUsers, OpUpdate, user.Username); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return err
	}
	current, ok := r.s.users[user.Username]
	if !ok {
		return shared.ErrUserNotFound
	}
	current.Role, current.Password, current.ExplicitConsent = user.Role, user.Password, user.ExplicitConsent
	r.s.users[user.Username] = current
	return nil
}

func (r *memUsers) DeleteByUsername(ctx context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record(models.EntityUsers, OpDelete, username); err != nil {
		return err
	}
	if _, ok := r.s.users[username]; !ok {
		return shared.ErrUserNotFound
	}
	delete(r.s.users, username)
	return nil
}

type memDependent struct {
	store  *MemoryStore
	entity string
}

func (d *memDependent) Entity() string { return d.entity }

func (d *memDependent) DeleteByUsername(ctx context.Context, username string) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	if err := d.store.record(d.entity, OpDelete, username); err != nil {
		return err
	}
	delete(d.store.records[d.entity], username)
	return nil
}
