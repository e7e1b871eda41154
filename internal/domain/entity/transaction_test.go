package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allothq/allot/internal/domain/entity"
)

func TestValidTxType(t *testing.T) {
	assert.True(t, entity.ValidTxType(entity.TxTypePurchase))
	assert.True(t, entity.ValidTxType(entity.TxTypeSale))
	assert.False(t, entity.ValidTxType("transfer"))
	assert.False(t, entity.ValidTxType(""))
	assert.False(t, entity.ValidTxType("PURCHASE"), "los tipos distinguen mayúsculas")
}

func TestNumberPrefix(t *testing.T) {
	assert.Equal(t, "PUR", entity.NumberPrefix(entity.TxTypePurchase))
	assert.Equal(t, "SAL", entity.NumberPrefix(entity.TxTypeSale))
	assert.Equal(t, "", entity.NumberPrefix("transfer"))
}
