package workspace

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/core/domain"
	"github.com/craftly/craftd/internal/infra/storage/memory"
	"github.com/craftly/craftd/internal/resilience/admission"
	"github.com/craftly/craftd/internal/resilience/apperr"
)

func newTestService() *Service {
	store := memory.NewStorage()
	return NewService(store, store.BrandKits(), store.Campaigns(), store.Assets())
}

func TestCreateWorkspace_DefaultsToBasicTier(t *testing.T) {
	svc := newTestService()

	ws, err := svc.CreateWorkspace(context.Background(), "acme", "")
	if err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}
	if ws.Tier != string(admission.TierBasic) {
		t.Errorf("Expected basic tier default, got %q", ws.Tier)
	}

	if svc.Tier(context.Background(), ws.ID) != admission.TierBasic {
		t.Error("Tier lookup should resolve the stored tier")
	}
}

func TestCreateWorkspace_RejectsInvalid(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateWorkspace(context.Background(), "", "basic")
	if apperr.From(err).Code != apperr.CodeValidation {
		t.Errorf("Empty name should fail validation, got %v", err)
	}

	_, err = svc.CreateWorkspace(context.Background(), "acme", "platinum")
	if apperr.From(err).Code != apperr.CodeValidation {
		t.Errorf("Unknown tier should fail validation, got %v", err)
	}
}

func TestTier_UnknownWorkspaceFallsBackToBasic(t *testing.T) {
	svc := newTestService()
	if svc.Tier(context.Background(), uuid.New()) != admission.TierBasic {
		t.Error("Unknown workspaces ride on the basic tier")
	}
}

func TestCreateCampaign_UnderWorkspace(t *testing.T) {
	svc := newTestService()
	ws, err := svc.CreateWorkspace(context.Background(), "acme", "premium")
	if err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}

	c, err := svc.CreateCampaign(context.Background(), &domain.Campaign{WorkspaceID: ws.ID, Name: "launch"})
	if err != nil {
		t.Fatalf("CreateCampaign failed: %v", err)
	}
	if c.Status != domain.CampaignDraft {
		t.Errorf("New campaigns start as drafts, got %s", c.Status)
	}

	list, err := svc.ListCampaigns(context.Background(), ws.ID)
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 campaign, got %d", len(list))
	}

	_, err = svc.CreateCampaign(context.Background(), &domain.Campaign{WorkspaceID: uuid.New(), Name: "orphan"})
	if apperr.From(err).Code != apperr.CodeNotFound {
		t.Errorf("Campaign under unknown workspace should be NOT_FOUND, got %v", err)
	}
}

func TestSetBrandKit(t *testing.T) {
	svc := newTestService()
	ws, err := svc.CreateWorkspace(context.Background(), "acme", "standard")
	if err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}

	kit, err := svc.SetBrandKit(context.Background(), &domain.BrandKit{WorkspaceID: ws.ID, Voice: "playful"})
	if err != nil {
		t.Fatalf("SetBrandKit failed: %v", err)
	}
	if kit.ID == uuid.Nil {
		t.Error("Brand kit should be assigned an ID")
	}

	_, err = svc.SetBrandKit(context.Background(), &domain.BrandKit{WorkspaceID: uuid.New()})
	if apperr.From(err).Code != apperr.CodeNotFound {
		t.Errorf("Brand kit for unknown workspace should be NOT_FOUND, got %v", err)
	}
}
