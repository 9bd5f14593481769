package person

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/contacts/internal/storage"
	"github.com/aanand-mishra/contacts/internal/types"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory storage.Storage with switchable failures.
type memStore struct {
	mu     sync.Mutex
	rows   map[int64]types.Person
	nextID int64

	failCreate bool
	failUpdate bool
	failDelete bool
	failList   bool
}

var _ storage.Storage = (*memStore)(nil)

func newMemStore(seed ...types.Person) *memStore {
	s := &memStore{rows: make(map[int64]types.Person)}
	for _, p := range seed {
		_, _ = s.CreatePerson(context.Background(), p)
	}
	return s
}

func (s *memStore) CreatePerson(_ context.Context, p types.Person) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return 0, errStoreDown
	}
	s.nextID++
	p.ID = s.nextID
	s.rows[p.ID] = p
	return p.ID, nil
}

func (s *memStore) GetPersonByID(_ context.Context, id int64) (types.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return types.Person{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *memStore) GetPeople(context.Context) ([]types.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, errStoreDown
	}
	return s.sorted(), nil
}

func (s *memStore) sorted() []types.Person {
	people := make([]types.Person, 0, len(s.rows))
	for _, p := range s.rows {
		people = append(people, p)
	}
	sort.Slice(people, func(i, j int) bool { return people[i].ID < people[j].ID })
	return people
}

func (s *memStore) UpdatePersonByID(_ context.Context, id int64, p types.Person) (types.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate {
		return types.Person{}, errStoreDown
	}
	if _, ok := s.rows[id]; !ok {
		return types.Person{}, storage.ErrNotFound
	}
	p.ID = id
	s.rows[id] = p
	return p, nil
}

func (s *memStore) DeletePersonByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return false, errStoreDown
	}
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *memStore) Close() error { return nil }

// snapshot ignores the failure switches.
func (s *memStore) snapshot() []types.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted()
}

func contextWithRoute(r *http.Request, rctx *chi.Context) context.Context {
	return context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
}
