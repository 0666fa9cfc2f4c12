package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("place order: %w", Wrap(ErrInsufficientInventory, errors.New("0 rows")))

	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.NotErrorIs(t, err, ErrNegativeStock)
	assert.Equal(t, KindBusinessRule, KindOf(err))
}

func TestInUseKeepsCode(t *testing.T) {
	err := InUse("Category cannot be deleted; it is in use by one or more products.")

	assert.ErrorIs(t, err, ErrInUse)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestKindOfUntyped(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("Product")))
	assert.Equal(t, "Product not found", NotFound("Product").Error())
}
