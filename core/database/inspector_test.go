package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func columnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"name", "type", "nullable", "column_key"})
}

type inspectedItem struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description"`
}

func (inspectedItem) TableName() string {
	return "test_items"
}

type absentItem struct {
	ID uint `gorm:"column:id;primaryKey"`
}

func (absentItem) TableName() string {
	return "absent_items"
}

func TestTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT NOT NULL, description TEXT)").Error
	require.NoError(t, err)

	columns, err := TableColumns(db, "test_items")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	byName := make(map[string]Column)
	for _, c := range columns {
		byName[c.Name] = c
	}
	assert.Equal(t, "integer", byName["id"].Type)
	assert.True(t, byName["id"].PrimaryKey)
	assert.False(t, byName["name"].Nullable)
	assert.True(t, byName["description"].Nullable)

	// PRAGMA table_info returns no rows for a missing table.
	columns, err = TableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, columns)
}

func TestCheckSchema(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT)").Error)

	drifts, err := CheckSchema(db, &inspectedItem{}, &absentItem{})
	require.NoError(t, err)
	assert.Equal(t, []Drift{
		{Table: "test_items", MissingColumns: []string{"description"}},
		{Table: "absent_items", MissingTable: true},
	}, drifts)

	require.NoError(t, db.AutoMigrate(&inspectedItem{}, &absentItem{}))
	drifts, err = CheckSchema(db, &inspectedItem{}, &absentItem{})
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("test_items").
		WillReturnRows(columnRows().
			AddRow("id", "INT(10) UNSIGNED", "NO", "PRI").
			AddRow("Name", "varchar(255)", "NO", "").
			AddRow("description", "text", "YES", ""))

	columns, err := TableColumns(db, "test_items")
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "id", Type: "int(10) unsigned", PrimaryKey: true},
		{Name: "name", Type: "varchar(255)"},
		{Name: "description", Type: "text", Nullable: true},
	}, columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("test_items").
		WillReturnRows(columnRows().
			AddRow("id", "int(10) unsigned", "NO", "PRI").
			AddRow("name", "varchar(255)", "NO", ""))
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("absent_items").
		WillReturnRows(columnRows())

	drifts, err := CheckSchema(db, &inspectedItem{}, &absentItem{})
	require.NoError(t, err)
	assert.Equal(t, []Drift{
		{Table: "test_items", MissingColumns: []string{"description"}},
		{Table: "absent_items", MissingTable: true},
	}, drifts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableColumns_MySQLError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("FROM information_schema.columns").WillReturnError(fmt.Errorf("access denied"))

	_, err := TableColumns(db, "test_items")
	assert.ErrorContains(t, err, "access denied")
}
