package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/middleware"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
	"github.com/yourusername/indcric-api/internal/service"
	"github.com/yourusername/indcric-api/internal/service/adcache"
	"github.com/yourusername/indcric-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// fakeAdRepo хранит рекламу в памяти
type fakeAdRepo struct {
	mu        sync.Mutex
	ads       map[string]*entity.Ad
	events    []entity.AdEvent
	slotReads int
}

func newFakeAdRepo(ads ...entity.Ad) *fakeAdRepo {
	r := &fakeAdRepo{ads: map[string]*entity.Ad{}}
	for i := range ads {
		ad := ads[i]
		r.ads[ad.ID] = &ad
	}
	return r
}

func (r *fakeAdRepo) Create(ctx context.Context, ad *entity.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ad.ID == "" {
		ad.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", len(r.ads)+1)
	}
	cp := *ad
	r.ads[ad.ID] = &cp
	return nil
}

func (r *fakeAdRepo) GetByID(ctx context.Context, id string) (*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *ad
	return &cp, nil
}

func (r *fakeAdRepo) List(ctx context.Context) ([]entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Ad, 0, len(r.ads))
	for _, ad := range r.ads {
		out = append(out, *ad)
	}
	return out, nil
}

func (r *fakeAdRepo) ListActive(ctx context.Context) ([]entity.Ad, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, ad := range all {
		if ad.IsActive {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *fakeAdRepo) ListActiveBySlot(ctx context.Context, slot entity.AdSlot) ([]entity.Ad, error) {
	r.mu.Lock()
	r.slotReads++
	r.mu.Unlock()
	active, _ := r.ListActive(ctx)
	var out []entity.Ad
	for _, ad := range active {
		if ad.Slot == slot {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *fakeAdRepo) Update(ctx context.Context, ad *entity.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ads[ad.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *ad
	r.ads[ad.ID] = &cp
	return nil
}

func (r *fakeAdRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	ad.IsActive = active
	return nil
}

func (r *fakeAdRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ads[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.ads, id)
	return nil
}

func (r *fakeAdRepo) RecordEvent(ctx context.Context, event *entity.AdEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeAdRepo) ListEvents(ctx context.Context, adID string, eventType entity.AdEventType) ([]entity.AdEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.AdEvent
	for _, e := range r.events {
		if e.AdID == adID && e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeAdRepo) Analytics(ctx context.Context) (*entity.AdAnalytics, error) {
	return &entity.AdAnalytics{TotalAds: int64(len(r.ads))}, nil
}

const (
	testSecret = "handler-test-secret"
	adID       = "7f1c2d3e-0000-4000-8000-000000000001"
)

type testEnv struct {
	router *gin.Engine
	ads    *fakeAdRepo
	jwt    *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newFakeAdRepo(entity.Ad{
		ID: adID, CompanyName: "Dream11", Slot: entity.SlotQ3Q4, MediaKind: entity.MediaVideo,
		MediaURL: "https://cdn.example.in/d11.mp4", IsActive: true,
	})
	cache := adcache.New(repo, time.Minute)
	adSvc := service.NewAdService(repo, cache, adcache.DefaultInterstitialPolicy(), nil, nil, nil)
	jwt, err := auth.NewJWTService(testSecret, "indcric", time.Hour)
	require.NoError(t, err)

	h := &Handlers{
		Ads:      NewAdHandler(adSvc, 1),
		Users:    &UserHandler{},
		Attempts: &AttemptHandler{},
		Rewards:  &RewardHandler{},
		Payments: &PaymentHandler{},
		AI:       &AIHandler{},
		Reports:  &ReportHandler{},
	}
	r := gin.New()
	h.Register(r, RouterOptions{Auth: middleware.NewAuthMiddleware(jwt)})
	return &testEnv{router: r, ads: repo, jwt: jwt}
}

func (e *testEnv) do(t *testing.T, method, path, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := e.jwt.GenerateToken("uid-"+role, role+"@example.in", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrap: %w", apperrors.ErrValidation), http.StatusBadRequest},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrNotFound, http.StatusNotFound},
		{service.ErrAlreadyAttempted, http.StatusConflict},
		{apperrors.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

func TestAds_RequiresToken(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/ads/Q3_Q4", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAds_GetBySlot(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/ads/Q3_Q4", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Dream11", items[0].(map[string]interface{})["company_name"])

	w = env.do(t, http.MethodGet, "/api/ads/T20", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"])
}

func TestAds_UnknownSlotIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/ads/t20", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/ads/t20/single", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ad":null}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/ads/nope/interstitial", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"interstitial":null}`, w.Body.String())

	assert.Zero(t, env.ads.slotReads, "неизвестный слот не читает хранилище")
}

func TestAds_Interstitial(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/ads/Q3_Q4/interstitial", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cfg := decode(t, w)["interstitial"].(map[string]interface{})
	assert.Equal(t, float64(40), cfg["duration_seconds"])
	assert.Equal(t, float64(20), cfg["skippable_after_seconds"])
}

func TestAds_SingleEmptySlotIsNull(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/ads/IPL/single", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp, "ad")
	assert.Nil(t, resp["ad"])
}

func TestAds_LogView(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/ads/"+adID+"/view", entity.RoleUser, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	events, _ := env.ads.ListEvents(context.Background(), adID, entity.AdEventView)
	require.Len(t, events, 1)
	assert.Equal(t, "uid-user", events[0].UserID)
}

func TestAdmin_ForbiddenForUser(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/admin/ads", entity.RoleUser, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdmin_CreateAdInvalidatesSlot(t *testing.T) {
	env := newTestEnv(t)

	// прогреваем кэш пустым слотом
	w := env.do(t, http.MethodGet, "/api/ads/T20", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/ads", entity.RoleAdmin, map[string]interface{}{
		"company_name": "Nike",
		"ad_slot":      "T20",
		"media_url":    "https://cdn.example.in/nike.png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "image", decode(t, w)["ad_type"])

	w = env.do(t, http.MethodGet, "/api/ads/T20", entity.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)
}

func TestAdmin_CreateAdValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/ads", entity.RoleAdmin, map[string]interface{}{
		"ad_slot":   "T20",
		"media_url": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]interface{})
	assert.Equal(t, "required", fields["company_name"])
	assert.Equal(t, "url", fields["media_url"])

	w = env.do(t, http.MethodPost, "/api/admin/ads", entity.RoleAdmin, map[string]interface{}{
		"company_name": "Nike",
		"ad_slot":      "Q9_Q10",
		"media_url":    "https://cdn.example.in/nike.png",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_ToggleUnknownAd(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/admin/ads/7f1c2d3e-0000-4000-8000-0000000000ff/toggle", entity.RoleAdmin,
		map[string]bool{"is_active": false})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_ToggleRequiresFlag(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/admin/ads/"+adID+"/toggle", entity.RoleAdmin, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfile_ValidationTags(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPut, "/api/users/me", entity.RoleUser, map[string]string{
		"phone": "12345",
		"upi":   "not-upi",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]interface{})
	assert.Equal(t, "phone10", fields["phone"])
	assert.Equal(t, "upi", fields["upi"])
}

func TestSubmitAttempt_RequiresSlot(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/attempts", entity.RoleUser, map[string]interface{}{"score": 5, "total_questions": 5})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "required", decode(t, w)["fields"].(map[string]interface{})["slot_id"])
}

func TestFailPayment_RequiresReason(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/admin/payments/"+adID+"/fail", entity.RoleAdmin, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
