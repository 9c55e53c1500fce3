package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/core/domain"
	"github.com/craftly/craftd/internal/resilience/apperr"
	"github.com/craftly/craftd/internal/service/generation"
)

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("id: must be a valid UUID")
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("body: " + err.Error())
	}
	return nil
}

func (s *Server) handleGenerateCaption(w http.ResponseWriter, r *http.Request) {
	var in generation.CaptionInput
	if err := decodeBody(r, &in); err != nil {
		s.translator.Write(w, r, err)
		return
	}
	asset, err := s.generation.GenerateCaption(r.Context(), in)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, asset)
}

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var in generation.ImageInput
	if err := decodeBody(r, &in); err != nil {
		s.translator.Write(w, r, err)
		return
	}
	asset, err := s.generation.GenerateImage(r.Context(), in)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, asset)
}

func (s *Server) handleVerifyLicense(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	asset, err := s.licensing.VerifyAsset(r.Context(), id)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, asset)
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
		Tier string `json:"tier"`
	}
	if err := decodeBody(r, &in); err != nil {
		s.translator.Write(w, r, err)
		return
	}
	ws, err := s.workspaces.CreateWorkspace(r.Context(), in.Name, in.Tier)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ws)
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	out, err := s.workspaces.ListWorkspaces(r.Context())
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	ws, err := s.workspaces.GetWorkspace(r.Context(), id)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ws)
}

func (s *Server) handleSetBrandKit(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	var kit domain.BrandKit
	if err := decodeBody(r, &kit); err != nil {
		s.translator.Write(w, r, err)
		return
	}
	kit.WorkspaceID = id
	out, err := s.workspaces.SetBrandKit(r.Context(), &kit)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	var c domain.Campaign
	if err := decodeBody(r, &c); err != nil {
		s.translator.Write(w, r, err)
		return
	}
	c.WorkspaceID = id
	out, err := s.workspaces.CreateCampaign(r.Context(), &c)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, out)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	out, err := s.workspaces.ListCampaigns(r.Context(), id)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	out, err := s.workspaces.ListAssets(r.Context(), id)
	if err != nil {
		s.translator.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}
