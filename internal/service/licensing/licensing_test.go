package licensing

import (
	"context"
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

type fakeVerifier struct {
	calls  int32
	result provider.LicenseResult
	err    error
}

func (f *fakeVerifier) Name() string { return "licensing" }

func (f *fakeVerifier) Verify(ctx context.Context, assetID, content string) (provider.LicenseResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return provider.LicenseResult{}, f.err
	}
	return f.result, nil
}

func seedAsset(t *testing.T, store *memory.Storage, content string) *domain.Asset {
	t.Helper()
	asset := &domain.Asset{
		ID:           uuid.New(),
		CampaignID:   uuid.New(),
		Kind:         domain.AssetCaption,
		Content:      content,
		Provider:     "openai",
		LicenseState: domain.LicenseUnchecked,
	}
	if err := store.Assets().Create(context.Background(), asset); err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}
	return asset
}

func newTestService(verifier *fakeVerifier, store *memory.Storage) *Service {
	cfg := Config{
		Policy:   executor.Policy{MaxRetries: 1, InitialDelay: time.Millisecond, Timeout: time.Second},
		CacheTTL: time.Minute,
	}
	return NewService(cfg, verifier, store.Assets(), cache.NewMemory(), nil)
}

func TestVerifyAsset_ClearedPersisted(t *testing.T) {
	store := memory.NewStorage()
	asset := seedAsset(t, store, "great caption")
	svc := newTestService(&fakeVerifier{result: provider.LicenseResult{Cleared: true}}, store)

	got, err := svc.VerifyAsset(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("VerifyAsset failed: %v", err)
	}
	if got.LicenseState != domain.LicenseCleared {
		t.Errorf("Expected cleared, got %s", got.LicenseState)
	}

	stored, _ := store.Assets().GetByID(context.Background(), asset.ID)
	if stored.LicenseState != domain.LicenseCleared {
		t.Errorf("Verdict must be persisted, got %s", stored.LicenseState)
	}
}

func TestVerifyAsset_FlaggedPersisted(t *testing.T) {
	store := memory.NewStorage()
	asset := seedAsset(t, store, "suspicious content")
	svc := newTestService(&fakeVerifier{result: provider.LicenseResult{Cleared: false, Reason: "trademark"}}, store)

	got, err := svc.VerifyAsset(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("VerifyAsset failed: %v", err)
	}
	if got.LicenseState != domain.LicenseFlagged {
		t.Errorf("Expected flagged, got %s", got.LicenseState)
	}
}

func TestVerifyAsset_VerdictCachedByContent(t *testing.T) {
	store := memory.NewStorage()
	// Two distinct assets carrying identical content.
	a := seedAsset(t, store, "same words")
	b := seedAsset(t, store, "same words")
	verifier := &fakeVerifier{result: provider.LicenseResult{Cleared: true}}
	svc := newTestService(verifier, store)

	if _, err := svc.VerifyAsset(context.Background(), a.ID); err != nil {
		t.Fatalf("First verify failed: %v", err)
	}
	if _, err := svc.VerifyAsset(context.Background(), b.ID); err != nil {
		t.Fatalf("Second verify failed: %v", err)
	}

	if verifier.calls != 1 {
		t.Errorf("Identical content should reuse the cached verdict, got %d calls", verifier.calls)
	}

	stored, _ := store.Assets().GetByID(context.Background(), b.ID)
	if stored.LicenseState != domain.LicenseCleared {
		t.Errorf("Cached verdict must still be persisted, got %s", stored.LicenseState)
	}
}

func TestVerifyAsset_UnknownAsset(t *testing.T) {
	store := memory.NewStorage()
	svc := newTestService(&fakeVerifier{}, store)

	_, err := svc.VerifyAsset(context.Background(), uuid.New())
	if apperr.From(err).Code != apperr.CodeNotFound {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
}

func TestVerifyAsset_VerifierFailureLeavesStateUnchecked(t *testing.T) {
	store := memory.NewStorage()
	asset := seedAsset(t, store, "content")
	svc := newTestService(&fakeVerifier{err: apperr.Unavailable("licensing", nil)}, store)

	_, err := svc.VerifyAsset(context.Background(), asset.ID)
	if apperr.From(err).Code != apperr.CodeServiceUnavailable {
		t.Errorf("Expected SERVICE_UNAVAILABLE, got %v", err)
	}

	stored, _ := store.Assets().GetByID(context.Background(), asset.ID)
	if stored.LicenseState != domain.LicenseUnchecked {
		t.Errorf("Failed verification must not change state, got %s", stored.LicenseState)
	}
}
