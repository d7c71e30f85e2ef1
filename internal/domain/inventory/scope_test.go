package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/inventory"
)

func TestScopeFor_SuperAdminSinRestriccion(t *testing.T) {
	s, err := inventory.ScopeFor(entity.RoleSuperAdmin, nil)
	require.NoError(t, err)

	assert.True(t, s.IsUnscoped())
	assert.True(t, s.Allows("cualquier-tienda"))
	ids, restricted := s.StoreIDs()
	assert.False(t, restricted)
	assert.Nil(t, ids)
}

func TestScopeFor_StoreAdminLimitadoASusTiendas(t *testing.T) {
	s, err := inventory.ScopeFor(entity.RoleStoreAdmin, []string{"s2", "s1"})
	require.NoError(t, err)

	assert.False(t, s.IsUnscoped())
	assert.True(t, s.Allows("s1"))
	assert.True(t, s.Allows("s2"))
	assert.False(t, s.Allows("s3"))

	ids, restricted := s.StoreIDs()
	assert.True(t, restricted)
	assert.Equal(t, []string{"s1", "s2"}, ids, "ids ordenados")
}

func TestScopeFor_OtrosRolesDenegados(t *testing.T) {
	for _, role := range []string{entity.RoleUser, "", "admin"} {
		_, err := inventory.ScopeFor(role, []string{"s1"})
		assert.ErrorIs(t, err, domain.ErrForbidden, "rol %q", role)
	}
}

func TestScope_ValorCeroNoPermiteNada(t *testing.T) {
	var s inventory.Scope
	assert.True(t, s.IsEmpty())
	assert.False(t, s.Allows("s1"))
}

func TestScope_StoreAdminSinTiendasEsVacio(t *testing.T) {
	s, err := inventory.ScopeFor(entity.RoleStoreAdmin, nil)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
}

func TestScope_Narrow(t *testing.T) {
	t.Run("super admin puede filtrar por cualquier tienda", func(t *testing.T) {
		s, err := inventory.Unscoped().Narrow("s9")
		require.NoError(t, err)
		assert.False(t, s.IsUnscoped())
		assert.True(t, s.Allows("s9"))
		assert.False(t, s.Allows("s1"))
	})

	t.Run("store admin solo dentro de sus tiendas", func(t *testing.T) {
		base := inventory.ScopedToStores("s1", "s2")
		s, err := base.Narrow("s2")
		require.NoError(t, err)
		ids, _ := s.StoreIDs()
		assert.Equal(t, []string{"s2"}, ids)

		_, err = base.Narrow("s3")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("sin filtro devuelve el mismo alcance", func(t *testing.T) {
		base := inventory.ScopedToStores("s1")
		s, err := base.Narrow("")
		require.NoError(t, err)
		assert.Equal(t, base, s)
	})
}
