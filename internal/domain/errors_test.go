package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
)

func TestInsufficientStockError_EsErrInsufficientStock(t *testing.T) {
	var err error = &domain.InsufficientStockError{Current: 70, Requested: 200}

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "70")
	assert.Contains(t, err.Error(), "200")

	wrapped := fmt.Errorf("venta: %w", err)
	var detail *domain.InsufficientStockError
	assert.True(t, errors.As(wrapped, &detail))
	assert.Equal(t, int64(70), detail.Current)
	assert.Equal(t, int64(200), detail.Requested)
}

func TestIsClientError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", domain.ErrNotFound, true},
		{"forbidden envuelto", fmt.Errorf("x: %w", domain.ErrForbidden), true},
		{"stock insuficiente", &domain.InsufficientStockError{Current: 1, Requested: 2}, true},
		{"duplicado", domain.ErrDuplicate, true},
		{"storage", fmt.Errorf("%w: commit", domain.ErrStorageFailure), false},
		{"storage con causa de cliente", fmt.Errorf("%w: %w", domain.ErrStorageFailure, domain.ErrConflict), false},
		{"error desconocido", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.IsClientError(tc.err))
		})
	}
}
