package generation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/core/domain"
	"github.com/craftly/craftd/internal/infra/provider"
	"github.com/craftly/craftd/internal/infra/storage/memory"
	"github.com/craftly/craftd/internal/resilience/apperr"
	"github.com/craftly/craftd/internal/resilience/cache"
	"github.com/craftly/craftd/internal/resilience/executor"
)

type fakeCaptioner struct {
	calls int32
	delay time.Duration
	err   error
}

func (f *fakeCaptioner) Name() string { return "openai" }

func (f *fakeCaptioner) GenerateCaption(ctx context.Context, req provider.CaptionRequest) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", f.err
	}
	return "caption for " + req.Prompt, nil
}

type fakeRenderer struct {
	calls int32
}

func (f *fakeRenderer) Name() string { return "render" }

func (f *fakeRenderer) RenderImage(ctx context.Context, req provider.ImageRequest) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	return "https://cdn.example.com/img.png", nil
}

func testPolicy() executor.Policy {
	return executor.Policy{MaxRetries: 1, InitialDelay: time.Millisecond, Timeout: time.Second}
}

func newTestService(t *testing.T, captions *fakeCaptioner, images *fakeRenderer) (*Service, uuid.UUID) {
	t.Helper()
	store := memory.NewStorage()

	ws := &domain.Workspace{ID: uuid.New(), Name: "acme", Tier: "standard"}
	if err := store.Create(context.Background(), ws); err != nil {
		t.Fatalf("Failed to seed workspace: %v", err)
	}
	camp := &domain.Campaign{ID: uuid.New(), WorkspaceID: ws.ID, Name: "launch", Status: domain.CampaignActive}
	if err := store.Campaigns().Create(context.Background(), camp); err != nil {
		t.Fatalf("Failed to seed campaign: %v", err)
	}
	kit := &domain.BrandKit{ID: uuid.New(), WorkspaceID: ws.ID, Voice: "playful", Palette: "#fff"}
	if err := store.BrandKits().Upsert(context.Background(), kit); err != nil {
		t.Fatalf("Failed to seed brand kit: %v", err)
	}

	svc := NewService(
		Config{CaptionPolicy: testPolicy(), ImagePolicy: testPolicy(), CacheTTL: time.Minute},
		captions, images,
		store.BrandKits(), store.Campaigns(), store.Assets(),
		cache.NewMemory(), nil,
	)
	return svc, camp.ID
}

func TestGenerateCaption_PersistsAsset(t *testing.T) {
	capt := &fakeCaptioner{}
	svc, campID := newTestService(t, capt, &fakeRenderer{})

	asset, err := svc.GenerateCaption(context.Background(), CaptionInput{CampaignID: campID, Prompt: "new shoes"})
	if err != nil {
		t.Fatalf("GenerateCaption failed: %v", err)
	}
	if asset.Kind != domain.AssetCaption {
		t.Errorf("Expected caption asset, got %s", asset.Kind)
	}
	if asset.Content != "caption for new shoes" {
		t.Errorf("Unexpected content: %q", asset.Content)
	}
	if asset.LicenseState != domain.LicenseUnchecked {
		t.Errorf("New assets start unchecked, got %s", asset.LicenseState)
	}
}

func TestGenerateCaption_CacheHitSkipsProvider(t *testing.T) {
	capt := &fakeCaptioner{}
	svc, campID := newTestService(t, capt, &fakeRenderer{})
	in := CaptionInput{CampaignID: campID, Prompt: "same prompt"}

	first, err := svc.GenerateCaption(context.Background(), in)
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	second, err := svc.GenerateCaption(context.Background(), in)
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}

	if capt.calls != 1 {
		t.Errorf("Expected 1 provider call, got %d", capt.calls)
	}
	if first.Content != second.Content {
		t.Error("Cached result must match the original")
	}
	if first.ID == second.ID {
		t.Error("Each request must still produce its own asset")
	}
}

func TestGenerateCaption_ConcurrentColdCacheCoalesces(t *testing.T) {
	capt := &fakeCaptioner{delay: 50 * time.Millisecond}
	svc, campID := newTestService(t, capt, &fakeRenderer{})
	in := CaptionInput{CampaignID: campID, Prompt: "race"}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.GenerateCaption(context.Background(), in); err != nil {
				t.Errorf("Concurrent call failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&capt.calls); got != 1 {
		t.Errorf("Expected racing requests to coalesce into 1 provider call, got %d", got)
	}
}

func TestGenerateCaption_ValidationAndNotFound(t *testing.T) {
	svc, campID := newTestService(t, &fakeCaptioner{}, &fakeRenderer{})

	_, err := svc.GenerateCaption(context.Background(), CaptionInput{CampaignID: campID, Prompt: "  "})
	if apperr.From(err).Code != apperr.CodeValidation {
		t.Errorf("Blank prompt should fail validation, got %v", err)
	}

	_, err = svc.GenerateCaption(context.Background(), CaptionInput{CampaignID: uuid.New(), Prompt: "x"})
	if apperr.From(err).Code != apperr.CodeNotFound {
		t.Errorf("Unknown campaign should be NOT_FOUND, got %v", err)
	}
}

func TestGenerateCaption_ProviderFailurePropagatesAfterRetries(t *testing.T) {
	capt := &fakeCaptioner{err: errors.New("boom")}
	svc, campID := newTestService(t, capt, &fakeRenderer{})

	_, err := svc.GenerateCaption(context.Background(), CaptionInput{CampaignID: campID, Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error")
	}
	ae := apperr.From(err)
	if ae.Code != apperr.CodeExternalAPI {
		t.Errorf("Expected EXTERNAL_API_ERROR, got %s", ae.Code)
	}
	if ae.Message != "boom" {
		t.Errorf("Original message must survive: %q", ae.Message)
	}
	// MaxRetries 1 means two attempts.
	if capt.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", capt.calls)
	}
}

func TestGenerateImage_UsesBrandPaletteAndDefaults(t *testing.T) {
	img := &fakeRenderer{}
	svc, campID := newTestService(t, &fakeCaptioner{}, img)

	asset, err := svc.GenerateImage(context.Background(), ImageInput{CampaignID: campID, Prompt: "hero shot"})
	if err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}
	if asset.Kind != domain.AssetImage {
		t.Errorf("Expected image asset, got %s", asset.Kind)
	}
	if asset.Content != "https://cdn.example.com/img.png" {
		t.Errorf("Unexpected content: %q", asset.Content)
	}

	_, err = svc.GenerateImage(context.Background(), ImageInput{CampaignID: campID, Prompt: "x", Width: -1})
	if apperr.From(err).Code != apperr.CodeValidation {
		t.Errorf("Negative dimensions should fail validation, got %v", err)
	}
}
