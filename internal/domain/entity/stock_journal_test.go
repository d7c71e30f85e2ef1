package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
)

func TestParseStockAction(t *testing.T) {
	cases := []struct {
		raw       string
		ok        bool
		deduction bool
	}{
		{"ADD", true, false},
		{"RESTOCK", true, false},
		{"SALE", true, true},
		{"sale", false, false},
		{"LOAN", false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			a, ok := entity.ParseStockAction(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.deduction, a.IsDeduction())
		})
	}
}
