package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"youthevents/internal/domain"
)

var errDB = errors.New("connection reset")

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	userRoles map[string][]string
	getErr    error
	createErr error
	assignErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User), userRoles: make(map[string][]string)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.ExternalID == u.ExternalID {
			return domain.ErrDuplicateExternalID
		}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) AssignRole(_ context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignErr != nil {
		return f.assignErr
	}
	for _, r := range f.userRoles[userID] {
		if r == roleID {
			return nil
		}
	}
	f.userRoles[userID] = append(f.userRoles[userID], roleID)
	return nil
}

// fakeRoleRepo is an in-memory RoleRepository sharing assignments with a fakeUserRepo.
type fakeRoleRepo struct {
	byName    map[domain.TeamRole]*domain.Role
	users     *fakeUserRepo
	ensureErr error
}

func newFakeRoleRepo(users *fakeUserRepo) *fakeRoleRepo {
	return &fakeRoleRepo{byName: make(map[domain.TeamRole]*domain.Role), users: users}
}

func (f *fakeRoleRepo) Ensure(_ context.Context, role *domain.Role) (bool, error) {
	if f.ensureErr != nil {
		return false, f.ensureErr
	}
	if _, ok := f.byName[role.Name]; ok {
		return false, nil
	}
	f.byName[role.Name] = role
	return true, nil
}

func (f *fakeRoleRepo) GetByName(_ context.Context, name domain.TeamRole) (*domain.Role, error) {
	if r, ok := f.byName[name]; ok {
		return r, nil
	}
	return nil, domain.ErrRoleNotFound
}

func (f *fakeRoleRepo) ListByUserID(_ context.Context, userID string) ([]*domain.Role, error) {
	var out []*domain.Role
	for _, id := range f.users.userRoles[userID] {
		for _, r := range f.byName {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Event
	err  error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(_ context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	all := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date.Equal(all[j].Date) {
			return all[i].Name < all[j].Name
		}
		return all[i].Date.Before(all[j].Date)
	})
	total := len(all)
	if limit := params.Limit(); limit > 0 {
		start := min(params.Offset(), total)
		end := min(start+limit, total)
		all = all[start:end]
	}
	return all, total, nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeParticipantRepo is an in-memory ParticipantRepository. WithEventLock serialises callers per
// event the same way the row lock does in Postgres.
type fakeParticipantRepo struct {
	events *fakeEventRepo

	mu    sync.Mutex
	byID  map[string]*domain.Participant
	order []string

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	countErr  error
	createErr error
	lockErr   error
	listErr   error
	deleteErr error
}

func newFakeParticipantRepo(events *fakeEventRepo) *fakeParticipantRepo {
	return &fakeParticipantRepo{
		events: events,
		byID:   make(map[string]*domain.Participant),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (f *fakeParticipantRepo) add(p *domain.Participant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[p.ID] = p
	f.order = append(f.order, p.ID)
}

func (f *fakeParticipantRepo) eventLock(eventID string) *sync.Mutex {
	f.lockMu.Lock()
	defer f.lockMu.Unlock()
	l, ok := f.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		f.locks[eventID] = l
	}
	return l
}

func (f *fakeParticipantRepo) WithEventLock(ctx context.Context, eventID string, fn func(*domain.Event, domain.RegistrationTx) error) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	l := f.eventLock(eventID)
	l.Lock()
	defer l.Unlock()

	event, err := f.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	tx := &fakeRegistrationTx{repo: f}
	if err := fn(event, tx); err != nil {
		return err
	}
	for _, p := range tx.pending {
		f.add(p)
	}
	return nil
}

func (f *fakeParticipantRepo) GetByID(_ context.Context, id string) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Participant, 0)
	for _, id := range f.order {
		if p, ok := f.byID[id]; ok && p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) ListByUserID(_ context.Context, userID string) ([]*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Participant, 0)
	for i := len(f.order) - 1; i >= 0; i-- {
		if p, ok := f.byID[f.order[i]]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) UpdateStatus(_ context.Context, id string, status domain.ParticipantStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (f *fakeParticipantRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeParticipantRepo) CountByEvents(_ context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return nil, f.countErr
	}
	counts := make(map[string]int)
	for _, p := range f.byID {
		counts[p.EventID]++
	}
	return counts, nil
}

func (f *fakeParticipantRepo) count(match func(*domain.Participant) bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.byID {
		if match(p) {
			n++
		}
	}
	return n
}

// fakeRegistrationTx buffers inserts until WithEventLock commits.
type fakeRegistrationTx struct {
	repo    *fakeParticipantRepo
	pending []*domain.Participant
}

func (t *fakeRegistrationTx) CountByEventAndUser(_ context.Context, eventID, userID string) (int, error) {
	if t.repo.countErr != nil {
		return 0, t.repo.countErr
	}
	return t.repo.count(func(p *domain.Participant) bool {
		return p.EventID == eventID && p.UserID == userID
	}), nil
}

func (t *fakeRegistrationTx) CountByEvent(_ context.Context, eventID string) (int, error) {
	if t.repo.countErr != nil {
		return 0, t.repo.countErr
	}
	return t.repo.count(func(p *domain.Participant) bool { return p.EventID == eventID }), nil
}

func (t *fakeRegistrationTx) Create(_ context.Context, p *domain.Participant) error {
	if t.repo.createErr != nil {
		return t.repo.createErr
	}
	t.pending = append(t.pending, p)
	return nil
}
