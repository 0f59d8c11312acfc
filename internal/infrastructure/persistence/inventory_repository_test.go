package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/pkg/constants"
)

func TestAdjustStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInventoryRepository(db)

	updateQuery := fmt.Sprintf(`
		UPDATE %s SET on_hand = on_hand + ?, %s = ?
		WHERE product_id = ? AND location = ? AND on_hand + ? >= 0`,
		constants.TableStockLevel, constants.FieldModifiedDate)
	selectQuery := fmt.Sprintf("SELECT on_hand FROM %s WHERE product_id = ? AND location = ?", constants.TableStockLevel)

	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs(-3.0, sqlmock.AnyArg(), "prod-1", "main", -3.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("prod-1", "main").
		WillReturnRows(sqlmock.NewRows([]string{"on_hand"}).AddRow(7.0))

	onHand, err := repo.AdjustStock(context.Background(), "prod-1", "main", -3)
	assert.NoError(t, err)
	assert.Equal(t, 7.0, onHand)
}

// A withdrawal larger than the balance leaves the row untouched and
// surfaces ErrInsufficientStock, so on-hand can never go negative the
// way SetStock already forbids.
func TestAdjustStockRejectsOverdraw(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInventoryRepository(db)

	updateQuery := fmt.Sprintf(`
		UPDATE %s SET on_hand = on_hand + ?, %s = ?
		WHERE product_id = ? AND location = ? AND on_hand + ? >= 0`,
		constants.TableStockLevel, constants.FieldModifiedDate)
	selectQuery := fmt.Sprintf("SELECT on_hand FROM %s WHERE product_id = ? AND location = ?", constants.TableStockLevel)

	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs(-10.0, sqlmock.AnyArg(), "prod-1", "main", -10.0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("prod-1", "main").
		WillReturnRows(sqlmock.NewRows([]string{"on_hand"}).AddRow(4.0))

	onHand, err := repo.AdjustStock(context.Background(), "prod-1", "main", -10)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 4.0, onHand)
}

func TestAdjustStockUnknownLocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInventoryRepository(db)

	updateQuery := fmt.Sprintf(`
		UPDATE %s SET on_hand = on_hand + ?, %s = ?
		WHERE product_id = ? AND location = ? AND on_hand + ? >= 0`,
		constants.TableStockLevel, constants.FieldModifiedDate)
	selectQuery := fmt.Sprintf("SELECT on_hand FROM %s WHERE product_id = ? AND location = ?", constants.TableStockLevel)

	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs(5.0, sqlmock.AnyArg(), "prod-1", "nowhere", 5.0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("prod-1", "nowhere").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.AdjustStock(context.Background(), "prod-1", "nowhere", 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTotalOnHand(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInventoryRepository(db)

	query := fmt.Sprintf("SELECT COALESCE(SUM(on_hand), 0) FROM %s WHERE product_id = ?", constants.TableStockLevel)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(42.5))

	total, err := repo.TotalOnHand(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 42.5, total)
}
