package integrity

import (
	"testing"

	"route-publisher/core/storage"
	"route-publisher/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestLoader(t *testing.T) {
	// Nil db and logger are fine as long as no route is hit.
	svc := NewService(new(mocks.Client), storage.Config{Bucket: "test-bucket"}, nil, "memory", nil, nil)
	feature := NewFeature(svc)

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}
