// file: internal/services/fakes_test.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"wishlink/internal/cache"
	"wishlink/internal/config"
	"wishlink/internal/models"
	"wishlink/internal/repositories"

	"go.uber.org/zap"
)

// In-memory fakes implementing the repository interfaces. Mutating methods
// ignore the transaction handle; ordering mirrors the SQL implementations.

type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	return fn(nil)
}

// ===============================
// USERS
// ===============================

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := r.GetByEmail(ctx, email)
	return u != nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %d not found", user.ID)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetProfiles(ctx context.Context, ids []int64) (map[int64]*models.UserProfile, error) {
	profiles := make(map[int64]*models.UserProfile)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			profiles[id] = u.PublicProfile()
		}
	}
	return profiles, nil
}

// ===============================
// WISHES
// ===============================

type fakeWishRepo struct {
	wishes []*models.Wish
	users  *fakeUserRepo
	nextID int64
}

func newFakeWishRepo(users *fakeUserRepo) *fakeWishRepo {
	return &fakeWishRepo{users: users, nextID: 1}
}

func (r *fakeWishRepo) Create(ctx context.Context, tx *sql.Tx, wish *models.Wish) error {
	wish.ID = r.nextID
	r.nextID++
	wish.CreatedAt = time.Now().Add(time.Duration(wish.ID) * time.Millisecond)
	if creator, ok := r.users.users[wish.CreatedBy]; ok {
		wish.Creator = creator.PublicProfile()
	}
	r.wishes = append(r.wishes, wish)
	return nil
}

func (r *fakeWishRepo) GetByID(ctx context.Context, id int64) (*models.Wish, error) {
	for _, w := range r.wishes {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (r *fakeWishRepo) Exists(ctx context.Context, id int64) (bool, error) {
	w, _ := r.GetByID(ctx, id)
	return w != nil, nil
}

func (r *fakeWishRepo) List(ctx context.Context) ([]*models.Wish, error) {
	out := make([]*models.Wish, 0, len(r.wishes))
	for i := len(r.wishes) - 1; i >= 0; i-- {
		out = append(out, r.wishes[i])
	}
	return out, nil
}

func (r *fakeWishRepo) ListByCategory(ctx context.Context, category string) ([]*models.Wish, error) {
	out := make([]*models.Wish, 0)
	for _, w := range r.wishes {
		if w.Category != nil && strings.EqualFold(*w.Category, category) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWishRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Wish, error) {
	out := make([]*models.Wish, 0)
	for i := len(r.wishes) - 1; i >= 0; i-- {
		if r.wishes[i].CreatedBy == userID {
			out = append(out, r.wishes[i])
		}
	}
	return out, nil
}

func (r *fakeWishRepo) ListWithCoordinates(ctx context.Context) ([]*models.Wish, error) {
	out := make([]*models.Wish, 0)
	for i := len(r.wishes) - 1; i >= 0; i-- {
		if r.wishes[i].Latitude != nil && r.wishes[i].Longitude != nil {
			out = append(out, r.wishes[i])
		}
	}
	return out, nil
}

func (r *fakeWishRepo) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, w := range r.wishes {
		if w.Category == nil || *w.Category == "" {
			continue
		}
		if _, ok := seen[*w.Category]; ok {
			continue
		}
		seen[*w.Category] = struct{}{}
		out = append(out, *w.Category)
	}
	return out, nil
}

func (r *fakeWishRepo) SetPicked(ctx context.Context, tx *sql.Tx, id int64, picked bool) error {
	w, _ := r.GetByID(ctx, id)
	if w == nil {
		return fmt.Errorf("wish %d not found", id)
	}
	w.IsPicked = picked
	return nil
}

func (r *fakeWishRepo) SetSelectedFulfillment(ctx context.Context, tx *sql.Tx, id, fulfillmentID int64) error {
	w, _ := r.GetByID(ctx, id)
	if w == nil {
		return fmt.Errorf("wish %d not found", id)
	}
	w.SelectedFulfillment = &fulfillmentID
	return nil
}

// ===============================
// SPEECHES
// ===============================

type fakeSpeechRepo struct {
	speeches []*models.Speech
	users    *fakeUserRepo
	nextID   int64
}

func newFakeSpeechRepo(users *fakeUserRepo) *fakeSpeechRepo {
	return &fakeSpeechRepo{users: users, nextID: 1}
}

func (r *fakeSpeechRepo) Create(ctx context.Context, tx *sql.Tx, speech *models.Speech) error {
	speech.ID = r.nextID
	r.nextID++
	speech.CreatedAt = time.Now().Add(time.Duration(speech.ID) * time.Millisecond)
	if creator, ok := r.users.users[speech.CreatedBy]; ok {
		speech.Creator = creator.PublicProfile()
	}
	r.speeches = append(r.speeches, speech)
	return nil
}

func (r *fakeSpeechRepo) GetByID(ctx context.Context, id int64) (*models.Speech, error) {
	for _, sp := range r.speeches {
		if sp.ID == id {
			return sp, nil
		}
	}
	return nil, nil
}

func (r *fakeSpeechRepo) Exists(ctx context.Context, id int64) (bool, error) {
	sp, _ := r.GetByID(ctx, id)
	return sp != nil, nil
}

func (r *fakeSpeechRepo) List(ctx context.Context) ([]*models.Speech, error) {
	out := make([]*models.Speech, 0, len(r.speeches))
	for i := len(r.speeches) - 1; i >= 0; i-- {
		out = append(out, r.speeches[i])
	}
	return out, nil
}

func (r *fakeSpeechRepo) ListByCategory(ctx context.Context, category string) ([]*models.Speech, error) {
	out := make([]*models.Speech, 0)
	for _, sp := range r.speeches {
		if sp.Category != nil && strings.EqualFold(*sp.Category, category) {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (r *fakeSpeechRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Speech, error) {
	out := make([]*models.Speech, 0)
	for i := len(r.speeches) - 1; i >= 0; i-- {
		if r.speeches[i].CreatedBy == userID {
			out = append(out, r.speeches[i])
		}
	}
	return out, nil
}

func (r *fakeSpeechRepo) ListWithCoordinates(ctx context.Context) ([]*models.Speech, error) {
	out := make([]*models.Speech, 0)
	for i := len(r.speeches) - 1; i >= 0; i-- {
		if r.speeches[i].Latitude != nil && r.speeches[i].Longitude != nil {
			out = append(out, r.speeches[i])
		}
	}
	return out, nil
}

func (r *fakeSpeechRepo) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, sp := range r.speeches {
		if sp.Category == nil || *sp.Category == "" {
			continue
		}
		if _, ok := seen[*sp.Category]; ok {
			continue
		}
		seen[*sp.Category] = struct{}{}
		out = append(out, *sp.Category)
	}
	return out, nil
}

func (r *fakeSpeechRepo) SetPicked(ctx context.Context, tx *sql.Tx, id int64, picked bool) error {
	sp, _ := r.GetByID(ctx, id)
	if sp == nil {
		return fmt.Errorf("speech %d not found", id)
	}
	sp.IsPicked = picked
	return nil
}

func (r *fakeSpeechRepo) SetSelectedFulfillment(ctx context.Context, tx *sql.Tx, id, fulfillmentID int64) error {
	sp, _ := r.GetByID(ctx, id)
	if sp == nil {
		return fmt.Errorf("speech %d not found", id)
	}
	sp.SelectedFulfillment = &fulfillmentID
	return nil
}

// ===============================
// STATUS
// ===============================

type statusKey struct {
	kind models.RequestKind
	id   int64
}

type fakeStatusRepo struct {
	records map[statusKey]*models.StatusRecord
	picks   map[int64][]int64
	users   *fakeUserRepo
	nextID  int64
}

func newFakeStatusRepo(users *fakeUserRepo) *fakeStatusRepo {
	return &fakeStatusRepo{
		records: make(map[statusKey]*models.StatusRecord),
		picks:   make(map[int64][]int64),
		users:   users,
		nextID:  1,
	}
}

func (r *fakeStatusRepo) GetByRequest(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	return r.records[statusKey{kind, requestID}], nil
}

func (r *fakeStatusRepo) GetOrCreate(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	key := statusKey{kind, requestID}
	if record, ok := r.records[key]; ok {
		return record, nil
	}
	record := &models.StatusRecord{
		ID:        r.nextID,
		RequestID: requestID,
		Status:    models.StatusCreated,
		CreatedAt: time.Now(),
		Kind:      kind,
	}
	r.nextID++
	r.records[key] = record
	return record, nil
}

func (r *fakeStatusRepo) GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	return r.GetOrCreate(ctx, kind, requestID)
}

func (r *fakeStatusRepo) HasPicked(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID, userID int64) (bool, error) {
	for _, id := range r.picks[statusID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStatusRepo) AddPick(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID, userID int64) error {
	r.picks[statusID] = append(r.picks[statusID], userID)
	return nil
}

func (r *fakeStatusRepo) SetStatus(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID int64, status models.Status) error {
	for _, record := range r.records {
		if record.ID == statusID {
			record.Status = status
			return nil
		}
	}
	return fmt.Errorf("status record %d not found", statusID)
}

func (r *fakeStatusRepo) ListPickers(ctx context.Context, kind models.RequestKind, requestID int64) ([]*models.UserProfile, error) {
	record := r.records[statusKey{kind, requestID}]
	if record == nil {
		return []*models.UserProfile{}, nil
	}
	pickers := make([]*models.UserProfile, 0)
	for _, userID := range r.picks[record.ID] {
		if u, ok := r.users.users[userID]; ok {
			pickers = append(pickers, u.PublicProfile())
		}
	}
	return pickers, nil
}

func (r *fakeStatusRepo) GetByRequestIDs(ctx context.Context, kind models.RequestKind, requestIDs []int64) (map[int64]*models.StatusRecord, error) {
	out := make(map[int64]*models.StatusRecord)
	for _, id := range requestIDs {
		if record, ok := r.records[statusKey{kind, id}]; ok {
			out[id] = record
		}
	}
	return out, nil
}

// ===============================
// FULFILLMENTS
// ===============================

type fakeFulfillmentRepo struct {
	fulfillments []*models.Fulfillment
	users        *fakeUserRepo
	nextID       int64
}

func newFakeFulfillmentRepo(users *fakeUserRepo) *fakeFulfillmentRepo {
	return &fakeFulfillmentRepo{users: users, nextID: 1}
}

func (r *fakeFulfillmentRepo) Create(ctx context.Context, fulfillment *models.Fulfillment) error {
	fulfillment.ID = r.nextID
	r.nextID++
	fulfillment.CreatedAt = time.Now().Add(time.Duration(fulfillment.ID) * time.Millisecond)
	if u, ok := r.users.users[fulfillment.UserID]; ok {
		fulfillment.Submitter = u.PublicProfile()
	}
	r.fulfillments = append(r.fulfillments, fulfillment)
	return nil
}

func (r *fakeFulfillmentRepo) GetByID(ctx context.Context, id int64) (*models.Fulfillment, error) {
	for _, f := range r.fulfillments {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFulfillmentRepo) ListByRequest(ctx context.Context, kind models.RequestKind, requestID int64) ([]*models.Fulfillment, error) {
	out := make([]*models.Fulfillment, 0)
	for _, f := range r.fulfillments {
		if f.References(kind, requestID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFulfillmentRepo) FirstForRequest(ctx context.Context, kind models.RequestKind, requestID int64) (*models.Fulfillment, error) {
	for _, f := range r.fulfillments {
		if f.References(kind, requestID) {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFulfillmentRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Fulfillment, error) {
	out := make([]*models.Fulfillment, 0)
	for i := len(r.fulfillments) - 1; i >= 0; i-- {
		if r.fulfillments[i].UserID == userID {
			out = append(out, r.fulfillments[i])
		}
	}
	return out, nil
}

func (r *fakeFulfillmentRepo) ListAll(ctx context.Context) ([]*models.Fulfillment, error) {
	out := make([]*models.Fulfillment, 0, len(r.fulfillments))
	for i := len(r.fulfillments) - 1; i >= 0; i-- {
		out = append(out, r.fulfillments[i])
	}
	return out, nil
}

// ===============================
// TEST ENVIRONMENT
// ===============================

type testEnv struct {
	users        *fakeUserRepo
	wishes       *fakeWishRepo
	speeches     *fakeSpeechRepo
	statuses     *fakeStatusRepo
	fulfillments *fakeFulfillmentRepo

	userService        UserService
	authService        AuthService
	wishService        WishService
	speechService      SpeechService
	statusService      StatusService
	fulfillmentService FulfillmentService
}

func newTestEnv(statusCfg *config.StatusConfig) *testEnv {
	logger := zap.NewNop()
	c := cache.NewMemoryCache(cache.DefaultConfig(), logger)
	tx := fakeTxRunner{}

	users := newFakeUserRepo()
	wishes := newFakeWishRepo(users)
	speeches := newFakeSpeechRepo(users)
	statuses := newFakeStatusRepo(users)
	fulfillments := newFakeFulfillmentRepo(users)

	if statusCfg == nil {
		statusCfg = &config.StatusConfig{}
	}
	geoCfg := &config.GeoConfig{DefaultWishRadiusKm: 10, DefaultSpeechRadiusKm: 20}
	authCfg := &config.AuthConfig{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		JWTIssuer:  "wishlink-test",
		BCryptCost: 4,
	}

	return &testEnv{
		users:              users,
		wishes:             wishes,
		speeches:           speeches,
		statuses:           statuses,
		fulfillments:       fulfillments,
		userService:        NewUserService(users, wishes, speeches, fulfillments, c, logger),
		authService:        NewAuthService(users, authCfg, logger),
		wishService:        NewWishService(wishes, users, statuses, tx, c, geoCfg, logger),
		speechService:      NewSpeechService(speeches, users, statuses, tx, c, geoCfg, logger),
		statusService:      NewStatusService(statuses, wishes, speeches, users, fulfillments, tx, c, statusCfg, logger),
		fulfillmentService: NewFulfillmentService(fulfillments, wishes, speeches, users, statuses, logger),
	}
}

func (e *testEnv) seedUser(email string) *models.User {
	user := &models.User{Email: email, FirstName: "Test"}
	_ = e.users.Create(context.Background(), user)
	return user
}

func (e *testEnv) seedWish(createdBy int64, category string) *models.Wish {
	wish := &models.Wish{
		Title:       "a wish",
		Description: "details",
		CreatedBy:   createdBy,
	}
	if category != "" {
		wish.Category = &category
	}
	_ = e.wishes.Create(context.Background(), nil, wish)
	return wish
}

func (e *testEnv) seedSpeech(createdBy int64) *models.Speech {
	speech := &models.Speech{
		Title:       "a speech",
		Description: "details",
		CreatedBy:   createdBy,
	}
	_ = e.speeches.Create(context.Background(), nil, speech)
	return speech
}

// compile-time interface checks for the fakes
var (
	_ repositories.UserRepository        = (*fakeUserRepo)(nil)
	_ repositories.WishRepository        = (*fakeWishRepo)(nil)
	_ repositories.SpeechRepository      = (*fakeSpeechRepo)(nil)
	_ repositories.StatusRepository      = (*fakeStatusRepo)(nil)
	_ repositories.FulfillmentRepository = (*fakeFulfillmentRepo)(nil)
)
