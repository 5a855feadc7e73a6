package badges

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the badges feature.
func NewFeature(service *Service, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(service, logger)}
}

func (f *Feature) Name() string {
	return "badges"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
