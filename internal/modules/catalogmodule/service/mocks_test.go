package service

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	catalogerrors "github.com/mantonx/cinelist/internal/modules/catalogmodule/errors"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
)

// MockStore is a testify mock of MovieStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	args := m.Called(ctx, movie)
	if v := args.Get(0); v != nil {
		return v.(*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) FindByID(ctx context.Context, id uint) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) FindByTmdbID(ctx context.Context, tmdbID int) (*models.Movie, error) {
	args := m.Called(ctx, tmdbID)
	if v := args.Get(0); v != nil {
		return v.(*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ExistsByTmdbID(ctx context.Context, tmdbID int) (bool, error) {
	args := m.Called(ctx, tmdbID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) FindAll(ctx context.Context) ([]models.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockStore) FindFavorites(ctx context.Context) ([]models.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockStore) DeleteByID(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockCatalog is a testify mock of ExternalCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) SearchMovies(ctx context.Context, query string) ([]models.RawMovie, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.([]models.RawMovie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalog) GetMovie(ctx context.Context, tmdbID int) (*models.RawMovie, error) {
	args := m.Called(ctx, tmdbID)
	if v := args.Get(0); v != nil {
		return v.(*models.RawMovie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalog) PopularMovies(ctx context.Context) ([]models.RawMovie, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.RawMovie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalog) TopRatedMovies(ctx context.Context) ([]models.RawMovie, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.RawMovie), args.Error(1)
	}
	return nil, args.Error(1)
}

// memStore is an in-memory MovieStore enforcing a unique TMDb id
type memStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Movie
	saves  int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uint]models.Movie)}
}

func (s *memStore) Save(_ context.Context, movie *models.Movie) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, row := range s.rows {
		if row.TmdbID == movie.TmdbID && id != movie.ID {
			return nil, catalogerrors.Conflict("save_movie", movie.TmdbID)
		}
	}
	stored := *movie
	if stored.ID == 0 {
		s.nextID++
		stored.ID = s.nextID
	}
	s.rows[stored.ID] = stored
	s.saves++
	out := stored
	return &out, nil
}

func (s *memStore) FindByID(_ context.Context, id uint) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *memStore) FindByTmdbID(_ context.Context, tmdbID int) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.TmdbID == tmdbID {
			out := row
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memStore) ExistsByTmdbID(ctx context.Context, tmdbID int) (bool, error) {
	m, err := s.FindByTmdbID(ctx, tmdbID)
	return m != nil, err
}

func (s *memStore) FindAll(_ context.Context) ([]models.Movie, error) {
	return s.filter(func(models.Movie) bool { return true }), nil
}

func (s *memStore) FindFavorites(_ context.Context) ([]models.Movie, error) {
	return s.filter(func(m models.Movie) bool { return m.IsFavorite }), nil
}

func (s *memStore) filter(keep func(models.Movie) bool) []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Movie{}
	for _, row := range s.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) DeleteByID(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return catalogerrors.NotFound("delete_movie").WithMovie(id)
	}
	delete(s.rows, id)
	return nil
}
