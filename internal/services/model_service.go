package services

import (
	"neuraldiscourse-backend/internal/models"
	"neuraldiscourse-backend/internal/providers"
)

// ModelService exposes the provider/model catalog. Catalogs are static per
// provider; only the configured flag depends on the caller's credentials.
type ModelService struct {
	registry *providers.Registry
}

func NewModelService(registry *providers.Registry) *ModelService {
	return &ModelService{registry: registry}
}

// ProviderStatuses reports every known provider with its configuration
// state and model catalog.
func (s *ModelService) ProviderStatuses(creds providers.Credentials) []models.ProviderStatusResponse {
	all := s.registry.All(creds)
	statuses := make([]models.ProviderStatusResponse, 0, len(all))
	for _, p := range all {
		statuses = append(statuses, models.ProviderStatusResponse{
			Name:       p.Name(),
			Configured: p.Configured(),
			Models:     mapModels(p.AvailableModels()),
		})
	}
	return statuses
}

// AllModels returns the flat catalog of models from configured providers.
func (s *ModelService) AllModels(creds providers.Credentials) []models.ModelResponse {
	catalog := []models.ModelResponse{}
	for _, p := range s.registry.All(creds) {
		if !p.Configured() {
			continue
		}
		catalog = append(catalog, mapModels(p.AvailableModels())...)
	}
	return catalog
}

func mapModels(infos []providers.ModelInfo) []models.ModelResponse {
	out := make([]models.ModelResponse, 0, len(infos))
	for _, m := range infos {
		out = append(out, models.ModelResponse{
			ID:          m.ID,
			Name:        m.Name,
			Provider:    m.Provider,
			Description: m.Description,
		})
	}
	return out
}
