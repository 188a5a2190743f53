package controller

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/team16/easytracker/internal/tracker/auth"
	"github.com/team16/easytracker/internal/tracker/db"
	e "github.com/team16/easytracker/internal/tracker/errors"
	"github.com/team16/easytracker/internal/tracker/events"
	"github.com/team16/easytracker/internal/tracker/models"
	"go.uber.org/zap/zaptest"
)

// MockRepository implements the Repository interface for testing. Unset
// functions fall back to benign defaults.
type MockRepository struct {
	exists              func(context.Context, db.Kind, int64) (bool, error)
	saveAddress         func(context.Context, *models.Address) (int64, error)
	loadAddress         func(context.Context, int64) (*models.Address, error)
	saveCompany         func(context.Context, *models.Company) (int64, error)
	loadCompany         func(context.Context, int64) (*models.Company, error)
	saveWorker          func(context.Context, *models.Worker) (int64, error)
	loadWorker          func(context.Context, int64) (*models.Worker, error)
	findWorkerByEmail   func(context.Context, string) (*models.Worker, error)
	workerExistsByEmail func(context.Context, string) (bool, error)
	saveTracking        func(context.Context, *models.Tracking) (int64, error)
	loadTracking        func(context.Context, int64) (*models.Tracking, error)
	addWorkerToCompany  func(context.Context, int64, int64, string) (bool, error)
	saveDevice          func(context.Context, *models.BluetoothDevice) (int64, error)
	execScript          func(context.Context, io.Reader) (int, error)
}

func (m *MockRepository) Exists(ctx context.Context, kind db.Kind, id int64) (bool, error) {
	if m.exists == nil {
		return true, nil
	}
	return m.exists(ctx, kind, id)
}

func (m *MockRepository) SaveAddress(ctx context.Context, a *models.Address) (int64, error) {
	return m.saveAddress(ctx, a)
}

func (m *MockRepository) LoadAddress(ctx context.Context, id int64) (*models.Address, error) {
	return m.loadAddress(ctx, id)
}

func (m *MockRepository) SaveCompany(ctx context.Context, c *models.Company) (int64, error) {
	return m.saveCompany(ctx, c)
}

func (m *MockRepository) LoadCompany(ctx context.Context, id int64) (*models.Company, error) {
	return m.loadCompany(ctx, id)
}

func (m *MockRepository) SaveWorker(ctx context.Context, w *models.Worker) (int64, error) {
	return m.saveWorker(ctx, w)
}

func (m *MockRepository) LoadWorker(ctx context.Context, id int64) (*models.Worker, error) {
	return m.loadWorker(ctx, id)
}

func (m *MockRepository) FindWorkerByEmail(ctx context.Context, email string) (*models.Worker, error) {
	return m.findWorkerByEmail(ctx, email)
}

func (m *MockRepository) WorkerExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.workerExistsByEmail == nil {
		return false, nil
	}
	return m.workerExistsByEmail(ctx, email)
}

func (m *MockRepository) SaveTracking(ctx context.Context, t *models.Tracking) (int64, error) {
	return m.saveTracking(ctx, t)
}

func (m *MockRepository) LoadTracking(ctx context.Context, id int64) (*models.Tracking, error) {
	return m.loadTracking(ctx, id)
}

func (m *MockRepository) ListWorkerTrackings(_ context.Context, _ int64) ([]*models.Tracking, error) {
	return nil, nil
}

func (m *MockRepository) AddWorkerToCompany(ctx context.Context, workerID, companyID int64, position string) (bool, error) {
	return m.addWorkerToCompany(ctx, workerID, companyID, position)
}

func (m *MockRepository) ListWorkerCompanies(_ context.Context, _ int64) ([]*models.WorkerCompany, error) {
	return nil, nil
}

func (m *MockRepository) ListCompanyWorkers(_ context.Context, _ int64) ([]*models.WorkerCompany, error) {
	return nil, nil
}

func (m *MockRepository) SaveBluetoothDevice(ctx context.Context, d *models.BluetoothDevice) (int64, error) {
	return m.saveDevice(ctx, d)
}

func (m *MockRepository) ListWorkerBluetoothDevices(_ context.Context, _ int64) ([]*models.BluetoothDevice, error) {
	return nil, nil
}

func (m *MockRepository) ExecScript(ctx context.Context, r io.Reader) (int, error) {
	return m.execScript(ctx, r)
}

func (m *MockRepository) Close() error {
	return nil
}

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	mu             sync.Mutex
	producedEvents []events.Event
	wg             *sync.WaitGroup
}

// Produce records the event and signals the wait group.
func (m *MockProducer) Produce(event events.Event) {
	m.mu.Lock()
	m.producedEvents = append(m.producedEvents, event)
	m.mu.Unlock()
	if m.wg != nil {
		m.wg.Done()
	}
}

func (m *MockProducer) types() []events.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.EventType, 0, len(m.producedEvents))
	for _, ev := range m.producedEvents {
		out = append(out, ev.Type)
	}
	return out
}

// countingHasher counts the calls made to the wrapped hasher.
type countingHasher struct {
	auth.PasswordHasher
	hashes  int
	matches int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes++
	return h.PasswordHasher.Hash(password)
}

func (h *countingHasher) Matches(stored, candidate string) (bool, error) {
	h.matches++
	return h.PasswordHasher.Matches(stored, candidate)
}

func newTestService(t *testing.T, repo Repository, producer EventProducer) *TrackerService {
	return NewTrackerService(repo, producer, auth.PlainHasher{}, time.Minute, zaptest.NewLogger(t))
}

func TestTrackerService_SaveCompany(t *testing.T) {
	tests := []struct {
		name          string
		input         *models.Company
		mockSetup     func(*MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name:  "successful save",
			input: &models.Company{Name: "company 1", AddressID: 1},
			mockSetup: func(mr *MockRepository) {
				mr.saveCompany = func(_ context.Context, c *models.Company) (int64, error) {
					c.ID = 11
					return 11, nil
				}
			},
		},
		{
			name:          "empty name",
			input:         &models.Company{AddressID: 1},
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "name too long",
			input:         &models.Company{Name: strings.Repeat("x", maxCompanyNameLength+1), AddressID: 1},
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "unknown address",
			input: &models.Company{Name: "company 1", AddressID: 69},
			mockSetup: func(mr *MockRepository) {
				mr.exists = func(_ context.Context, kind db.Kind, _ int64) (bool, error) {
					return kind != db.KindAddress, nil
				}
			},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "repository error",
			input: &models.Company{Name: "company 1", AddressID: 1},
			mockSetup: func(mr *MockRepository) {
				mr.saveCompany = func(_ context.Context, _ *models.Company) (int64, error) {
					return 0, errors.New("database error")
				}
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
			tt.mockSetup(mockRepo)
			service := newTestService(t, mockRepo, mockProducer)

			// For successful saves, add one waitgroup counter for the async event.
			if !tt.expectError {
				mockProducer.wg.Add(1)
			}

			id, err := service.SaveCompany(context.Background(), tt.input)

			if tt.expectError {
				require.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				return
			}

			mockProducer.wg.Wait()
			require.NoError(t, err)
			assert.Equal(t, int64(11), id)
			assert.Equal(t, []events.EventType{events.CompanySaved}, mockProducer.types())
		})
	}
}

func TestTrackerService_SaveWorker(t *testing.T) {
	createdAt := time.Date(2021, 11, 3, 14, 5, 9, 987654321, time.FixedZone("CET", 3600))
	dob := time.Date(1998, time.May, 10, 23, 30, 0, 0, time.FixedZone("CET", 3600))

	validWorker := func() *models.Worker {
		return &models.Worker{
			FirstName:   "Max",
			LastName:    "Mustermann",
			DateOfBirth: dob,
			Email:       "test.test@test.at",
			Password:    "securePassword",
			CreatedAt:   createdAt,
			AddressID:   1,
		}
	}

	t.Run("normalises times and stores password via hasher", func(t *testing.T) {
		var saved *models.Worker
		mockRepo := &MockRepository{
			saveWorker: func(_ context.Context, w *models.Worker) (int64, error) {
				saved = w
				return 5, nil
			},
		}
		mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
		mockProducer.wg.Add(1)
		service := newTestService(t, mockRepo, mockProducer)

		id, err := service.SaveWorker(context.Background(), validWorker())
		require.NoError(t, err)
		mockProducer.wg.Wait()

		assert.Equal(t, int64(5), id)
		assert.Equal(t, time.Date(2021, 11, 3, 13, 5, 9, 0, time.UTC), saved.CreatedAt)
		assert.Equal(t, time.Date(1998, time.May, 10, 0, 0, 0, 0, time.UTC), saved.DateOfBirth)
		assert.Equal(t, "securePassword", saved.Password)

		payload, ok := mockProducer.producedEvents[0].Payload.(*models.Worker)
		require.True(t, ok)
		assert.Empty(t, payload.Password, "events must not carry the password")
	})

	t.Run("defaults created at to now", func(t *testing.T) {
		fixed := time.Date(2022, 1, 2, 3, 4, 5, 600, time.UTC)
		var saved *models.Worker
		mockRepo := &MockRepository{
			saveWorker: func(_ context.Context, w *models.Worker) (int64, error) {
				saved = w
				return 1, nil
			},
		}
		mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
		mockProducer.wg.Add(1)
		service := newTestService(t, mockRepo, mockProducer)
		service.now = func() time.Time { return fixed }

		w := validWorker()
		w.CreatedAt = time.Time{}
		_, err := service.SaveWorker(context.Background(), w)
		require.NoError(t, err)
		mockProducer.wg.Wait()
		assert.Equal(t, fixed.Truncate(time.Second), saved.CreatedAt)
	})

	t.Run("bcrypt hasher never stores plaintext", func(t *testing.T) {
		var saved *models.Worker
		mockRepo := &MockRepository{
			saveWorker: func(_ context.Context, w *models.Worker) (int64, error) {
				saved = w
				return 1, nil
			},
		}
		mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
		mockProducer.wg.Add(1)
		service := NewTrackerService(mockRepo, mockProducer, auth.BcryptHasher{Cost: 4}, 0, zaptest.NewLogger(t))

		_, err := service.SaveWorker(context.Background(), validWorker())
		require.NoError(t, err)
		mockProducer.wg.Wait()
		assert.NotEqual(t, "securePassword", saved.Password)
	})

	invalid := []struct {
		name   string
		mutate func(*models.Worker)
		repo   func(*MockRepository)
		want   error
	}{
		{name: "missing first name", mutate: func(w *models.Worker) { w.FirstName = "" }, want: e.ErrInvalidInput},
		{name: "bad email", mutate: func(w *models.Worker) { w.Email = "no-at-sign" }, want: e.ErrInvalidInput},
		{name: "missing password", mutate: func(w *models.Worker) { w.Password = "" }, want: e.ErrInvalidInput},
		{
			name:   "unknown address",
			mutate: func(_ *models.Worker) {},
			repo: func(mr *MockRepository) {
				mr.exists = func(context.Context, db.Kind, int64) (bool, error) { return false, nil }
			},
			want: e.ErrInvalidInput,
		},
		{
			name:   "duplicate email",
			mutate: func(_ *models.Worker) {},
			repo: func(mr *MockRepository) {
				mr.workerExistsByEmail = func(context.Context, string) (bool, error) { return true, nil }
			},
			want: e.ErrDuplicate,
		},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			if tt.repo != nil {
				tt.repo(mockRepo)
			}
			service := newTestService(t, mockRepo, &MockProducer{})

			w := validWorker()
			tt.mutate(w)
			_, err := service.SaveWorker(context.Background(), w)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTrackerService_LoadCaching(t *testing.T) {
	calls := 0
	mockRepo := &MockRepository{
		loadCompany: func(_ context.Context, id int64) (*models.Company, error) {
			calls++
			if id == 1 {
				return &models.Company{ID: 1, Name: "company 1"}, nil
			}
			return nil, e.ErrNotFound
		},
	}
	service := newTestService(t, mockRepo, &MockProducer{})
	ctx := context.Background()

	first, err := service.LoadCompany(ctx, 1)
	require.NoError(t, err)
	first.Name = "mutated by caller"

	second, err := service.LoadCompany(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "company 1", second.Name, "cached entities are handed out as copies")
	assert.Equal(t, 1, calls, "second load should be served from cache")

	missing, err := service.LoadCompany(ctx, 2)
	assert.NoError(t, err, "absence is not an error")
	assert.Nil(t, missing)

	_, _ = service.LoadCompany(ctx, 2)
	assert.Equal(t, 3, calls, "absent rows are not cached")
}

func TestTrackerService_LoadErrors(t *testing.T) {
	mockRepo := &MockRepository{
		loadWorker: func(context.Context, int64) (*models.Worker, error) {
			return nil, errors.New("disk on fire")
		},
		loadAddress: func(context.Context, int64) (*models.Address, error) {
			return nil, e.ErrNotFound
		},
		loadTracking: func(context.Context, int64) (*models.Tracking, error) {
			return &models.Tracking{ID: 3, Name: "TEST"}, nil
		},
	}
	service := NewTrackerService(mockRepo, &MockProducer{}, auth.PlainHasher{}, 0, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := service.LoadWorker(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, e.ErrNotFound)

	address, err := service.LoadAddress(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, address)

	tracking, err := service.LoadTracking(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "TEST", tracking.Name)
}

func TestTrackerService_LoginWorker(t *testing.T) {
	stored := &models.Worker{ID: 8, Email: "test.test@test.at", Password: "securePassword"}
	mockRepo := &MockRepository{
		findWorkerByEmail: func(_ context.Context, email string) (*models.Worker, error) {
			if email == stored.Email {
				copied := *stored
				return &copied, nil
			}
			return nil, e.ErrNotFound
		},
	}
	ctx := context.Background()

	t.Run("match", func(t *testing.T) {
		mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
		mockProducer.wg.Add(1)
		service := newTestService(t, mockRepo, mockProducer)

		worker, err := service.LoginWorker(ctx, "test.test@test.at", "securePassword")
		require.NoError(t, err)
		require.NotNil(t, worker)
		assert.Equal(t, int64(8), worker.ID)

		mockProducer.wg.Wait()
		assert.Equal(t, []events.EventType{events.WorkerLoggedIn}, mockProducer.types())
	})

	t.Run("wrong password", func(t *testing.T) {
		service := newTestService(t, mockRepo, &MockProducer{})
		worker, err := service.LoginWorker(ctx, "test.test@test.at", "SecurePassword")
		assert.NoError(t, err)
		assert.Nil(t, worker)
	})

	t.Run("unknown email", func(t *testing.T) {
		hasher := &countingHasher{PasswordHasher: auth.BcryptHasher{Cost: 4}}
		service := NewTrackerService(mockRepo, &MockProducer{}, hasher, 0, zaptest.NewLogger(t))

		for i := 0; i < 2; i++ {
			worker, err := service.LoginWorker(ctx, "other@test.at", "securePassword")
			assert.NoError(t, err)
			assert.Nil(t, worker)
		}
		assert.Equal(t, 1, hasher.hashes, "the dummy hash is computed once")
		assert.Equal(t, 2, hasher.matches, "every unknown email still costs a comparison")
	})

	t.Run("hasher failure", func(t *testing.T) {
		service := NewTrackerService(mockRepo, &MockProducer{}, auth.BcryptHasher{Cost: 4}, 0, zaptest.NewLogger(t))
		_, err := service.LoginWorker(ctx, "test.test@test.at", "securePassword")
		assert.Error(t, err, "a plaintext value is not a valid bcrypt hash")
	})
}

func TestTrackerService_SaveTracking(t *testing.T) {
	start := time.Date(2021, 11, 3, 8, 0, 0, 500, time.UTC)
	valid := func() *models.Tracking {
		return &models.Tracking{
			Name:           "TEST",
			OwnerID:        1,
			StartTime:      start,
			EndTime:        start.Add(time.Hour),
			Description:    "desc",
			ConnectionType: models.Bluetooth,
		}
	}

	t.Run("success", func(t *testing.T) {
		var saved *models.Tracking
		mockRepo := &MockRepository{
			saveTracking: func(_ context.Context, tr *models.Tracking) (int64, error) {
				saved = tr
				return 2, nil
			},
		}
		mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
		mockProducer.wg.Add(1)
		service := newTestService(t, mockRepo, mockProducer)

		id, err := service.SaveTracking(context.Background(), valid())
		require.NoError(t, err)
		mockProducer.wg.Wait()
		assert.Equal(t, int64(2), id)
		assert.Equal(t, start.Truncate(time.Second), saved.StartTime)
	})

	invalid := []struct {
		name   string
		mutate func(*models.Tracking)
	}{
		{name: "missing name", mutate: func(tr *models.Tracking) { tr.Name = "" }},
		{name: "missing connection type", mutate: func(tr *models.Tracking) { tr.ConnectionType = "" }},
		{name: "missing start", mutate: func(tr *models.Tracking) { tr.StartTime = time.Time{} }},
		{name: "end before start", mutate: func(tr *models.Tracking) { tr.EndTime = start.Add(-time.Minute) }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, &MockRepository{}, &MockProducer{})
			tr := valid()
			tt.mutate(tr)
			_, err := service.SaveTracking(context.Background(), tr)
			assert.ErrorIs(t, err, e.ErrInvalidInput)
		})
	}

	t.Run("unknown owner", func(t *testing.T) {
		mockRepo := &MockRepository{
			exists: func(_ context.Context, kind db.Kind, _ int64) (bool, error) {
				assert.Equal(t, db.KindWorker, kind)
				return false, nil
			},
		}
		service := newTestService(t, mockRepo, &MockProducer{})
		_, err := service.SaveTracking(context.Background(), valid())
		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})
}

func TestTrackerService_AddWorkerToCompany(t *testing.T) {
	t.Run("rejects non-positive ids without touching the store", func(t *testing.T) {
		service := newTestService(t, &MockRepository{}, &MockProducer{})
		_, err := service.AddWorkerToCompany(context.Background(), -1, 1, "pos")
		assert.ErrorIs(t, err, e.ErrInvalidInput)
		_, err = service.AddWorkerToCompany(context.Background(), 1, 0, "pos")
		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})

	t.Run("passes invalid input through", func(t *testing.T) {
		mockRepo := &MockRepository{
			addWorkerToCompany: func(context.Context, int64, int64, string) (bool, error) {
				return false, e.ErrInvalidInput
			},
		}
		service := newTestService(t, mockRepo, &MockProducer{})
		_, err := service.AddWorkerToCompany(context.Background(), 1, 99, "pos")
		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})

	t.Run("success", func(t *testing.T) {
		mockRepo := &MockRepository{
			addWorkerToCompany: func(context.Context, int64, int64, string) (bool, error) {
				return true, nil
			},
		}
		mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
		mockProducer.wg.Add(1)
		service := newTestService(t, mockRepo, mockProducer)

		ok, err := service.AddWorkerToCompany(context.Background(), 1, 2, "pos")
		require.NoError(t, err)
		assert.True(t, ok)
		mockProducer.wg.Wait()
		assert.Equal(t, []events.EventType{events.WorkerJoinedCompany}, mockProducer.types())
	})

	t.Run("existing pair sends no event", func(t *testing.T) {
		var calls int
		mockRepo := &MockRepository{
			addWorkerToCompany: func(context.Context, int64, int64, string) (bool, error) {
				calls++
				return calls == 1, nil
			},
		}
		// One event in total; a second Done would panic the wait group.
		mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
		mockProducer.wg.Add(1)
		service := newTestService(t, mockRepo, mockProducer)

		ok, err := service.AddWorkerToCompany(context.Background(), 1, 2, "dev")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = service.AddWorkerToCompany(context.Background(), 1, 2, "lead")
		require.NoError(t, err)
		assert.True(t, ok, "adding an existing pair again still succeeds")

		mockProducer.wg.Wait()
		require.Len(t, mockProducer.producedEvents, 1)
		membership, ok := mockProducer.producedEvents[0].Payload.(*models.WorkerCompany)
		require.True(t, ok)
		assert.Equal(t, "dev", membership.Position)
	})
}

func TestTrackerService_RegisterBluetoothDevice(t *testing.T) {
	var saved *models.BluetoothDevice
	mockRepo := &MockRepository{
		saveDevice: func(_ context.Context, d *models.BluetoothDevice) (int64, error) {
			saved = d
			return 4, nil
		},
	}

	mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
	mockProducer.wg.Add(1)
	service := newTestService(t, mockRepo, mockProducer)

	id, err := service.RegisterBluetoothDevice(context.Background(), &models.BluetoothDevice{
		WorkerID: 1,
		Name:     "Headset",
		MAC:      "AA-BB-CC-DD-EE-FF",
	})
	require.NoError(t, err)
	mockProducer.wg.Wait()
	assert.Equal(t, int64(4), id)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", saved.MAC)

	for _, mac := range []string{"", "not-a-mac", "00:00:5e:00:53:01:02:03"} {
		_, err := service.RegisterBluetoothDevice(context.Background(), &models.BluetoothDevice{
			WorkerID: 1,
			Name:     "Headset",
			MAC:      mac,
		})
		assert.ErrorIs(t, err, e.ErrInvalidInput, "mac %q", mac)
	}

	_, err = service.RegisterBluetoothDevice(context.Background(), &models.BluetoothDevice{WorkerID: 1, MAC: "aa:bb:cc:dd:ee:ff"})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "name is required")
}

func TestTrackerService_ExecuteScript(t *testing.T) {
	mockRepo := &MockRepository{
		execScript: func(_ context.Context, r io.Reader) (int, error) {
			body, _ := io.ReadAll(r)
			if strings.Contains(string(body), "BROKEN") {
				return 0, errors.New("syntax error")
			}
			return 2, nil
		},
	}
	service := newTestService(t, mockRepo, &MockProducer{})

	n, err := service.ExecuteScript(context.Background(), strings.NewReader("SELECT 1; SELECT 2;"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = service.ExecuteScript(context.Background(), strings.NewReader("BROKEN"))
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.True(t, validEmail("a@b.at"))
	assert.False(t, validEmail("@b.at"))
	assert.False(t, validEmail("a@"))
	assert.False(t, validEmail("a b@c.at"))

	assert.True(t, truncateToDate(time.Time{}).IsZero())
	assert.Equal(t, "worker:7", cacheKey("worker", 7))
}
