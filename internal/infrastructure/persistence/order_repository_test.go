package persistence

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/pkg/constants"
)

// Order numbers continue from the highest suffix on record, so a
// cancelled and deleted order never hands its number back.
func TestNextOrderNumberAfterDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPurchaseOrderRepository(db)

	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(CAST(SUBSTRING_INDEX(number, '-', -1) AS UNSIGNED)), 0) FROM %s",
		constants.TablePurchaseOrder)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows([]string{"max_suffix"}).AddRow(7))

	number, err := repo.NextNumber(context.Background(), "po")
	assert.NoError(t, err)
	assert.Equal(t, "PO-000008", number)
}
