package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestMigrate_Tables(t *testing.T) {
	db := setupDB(t)

	for _, table := range []string{
		"user", "user_alias", "season", "season_user", "season_contract",
		"badge", "user_badge", "media", "media_anilist", "media_steam", "media_no_match", "bot_config",
		"sync_lease",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&SeasonContract{}, "idx_season_contract_slot"))
}

func TestSeasonContract_SlotIsUnique(t *testing.T) {
	db := setupDB(t)

	first := SeasonContract{SeasonID: "season_x", ContracteeID: "u1", Type: "Base Contract", Name: "Frieren"}
	require.NoError(t, db.Create(&first).Error)

	dup := SeasonContract{SeasonID: "season_x", ContracteeID: "u1", Type: "Base Contract", Name: "Other"}
	assert.Error(t, db.Create(&dup).Error)

	otherSeason := SeasonContract{SeasonID: "season_y", ContracteeID: "u1", Type: "Base Contract", Name: "Frieren"}
	assert.NoError(t, db.Create(&otherSeason).Error)
}

func TestUser_UsernameIsUnique(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, db.Create(&User{ID: "a", Username: "alice"}).Error)
	assert.Error(t, db.Create(&User{ID: "b", Username: "alice"}).Error)
}

func TestEnums(t *testing.T) {
	assert.Equal(t, "LATE_PASS", UserLatePass.String())
	assert.Equal(t, "UNVERIFIED", ContractUnverified.String())
	assert.Equal(t, "UNKNOWN", ContractStatus(42).String())
	assert.Equal(t, "AID", KindAid.String())

	text, err := UserIncomplete.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "INCOMPLETE", string(text))
}
