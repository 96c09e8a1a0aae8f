package handlers

import (
	"net/http"

	"neuraldiscourse-backend/internal/providers"
	"neuraldiscourse-backend/internal/services"
	"neuraldiscourse-backend/pkg/httputil"
)

// ModelHandlers exposes the provider and model catalog endpoints.
type ModelHandlers struct {
	modelService *services.ModelService
}

func NewModelHandlers(modelService *services.ModelService) *ModelHandlers {
	return &ModelHandlers{
		modelService: modelService,
	}
}

// HandleListProviders handles GET /api/models/providers.
func (h *ModelHandlers) HandleListProviders(w http.ResponseWriter, r *http.Request) {
	creds := providers.CredentialsFromHeader(r.Header)
	httputil.RespondJSON(w, http.StatusOK, h.modelService.ProviderStatuses(creds))
}

// HandleListAllModels handles GET /api/models/all.
func (h *ModelHandlers) HandleListAllModels(w http.ResponseWriter, r *http.Request) {
	creds := providers.CredentialsFromHeader(r.Header)
	httputil.RespondJSON(w, http.StatusOK, h.modelService.AllModels(creds))
}
