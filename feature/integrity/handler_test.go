package integrity

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"natsumin/core/storage"
	"natsumin/core/storage/mocks"
	"natsumin/feature/contracts/models"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T, client storage.Client, migrate bool) (*fiber.App, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	if migrate {
		require.NoError(t, models.Migrate(db))
	}

	svc := NewService(db, client, "natsumin", "us-east-1", zap.NewNop())

	app := fiber.New()
	require.NoError(t, NewFeature(svc).Load(app))
	return app, db
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestFeature(t *testing.T) {
	feature := NewFeature(NewService(nil, nil, "", "", zap.NewNop()))
	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
}

func TestHandleIntegrityCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		app, _ := setupApp(t, nil, true)
		status, body := get(t, app, "/integrity")
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["healthy"])
	})

	t.Run("Bucket Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "natsumin").Return(false, nil)
		app, _ := setupApp(t, client, true)

		status, body := get(t, app, "/integrity")
		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["healthy"])
		report := body["report"].(map[string]any)
		assert.Equal(t, false, report["storage"].(map[string]any)["exists"])
	})

	t.Run("Missing Tables", func(t *testing.T) {
		app, _ := setupApp(t, nil, false)
		status, body := get(t, app, "/integrity")
		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["healthy"])
		report := body["report"].(map[string]any)
		assert.Contains(t, report["errors"], "data")
	})
}

func TestHandleSchemaCheck(t *testing.T) {
	app, db := setupApp(t, nil, false)

	status, body := get(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, false, body["matched"])

	status, body = get(t, app, "/integrity/schema?fix=true")
	assert.Equal(t, 200, status)
	assert.Equal(t, "fixed", body["status"])
	assert.True(t, db.Migrator().HasTable(&models.SeasonContract{}))

	_, body = get(t, app, "/integrity/schema")
	assert.Equal(t, true, body["matched"])
}

func TestHandleStorageCheck(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app, _ := setupApp(t, nil, true)
		status, body := get(t, app, "/integrity/storage")
		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["enabled"])
	})

	t.Run("Fix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "natsumin").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "natsumin", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
		app, _ := setupApp(t, client, true)

		status, body := get(t, app, "/integrity/storage?fix=true")
		assert.Equal(t, 200, status)
		assert.Equal(t, "fixed", body["status"])
		client.AssertNumberOfCalls(t, "MakeBucket", 1)
	})
}

func TestHandleDataCheck(t *testing.T) {
	app, db := setupApp(t, nil, true)
	require.NoError(t, db.Create(&models.Season{ID: "season_old", Name: "Old", Layout: "retired"}).Error)

	status, body := get(t, app, "/integrity/data")
	assert.Equal(t, 200, status)
	assert.Equal(t, []any{"season_old"}, body["unknown_layouts"])
}
