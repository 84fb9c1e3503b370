package access

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p, err := DefaultPolicy()
	require.NoError(t, err)

	assert.Equal(t, 500.0, p.Activation.Fee)
	assert.Equal(t, []string{"ROLE_SUPERADMIN", "ROLE_SUPERADMIN_MGR"}, p.SuperadminRoles)
	require.Len(t, p.Menu, 14)
	assert.Equal(t, DashboardKey, p.Menu[0].Key)
	assert.Equal(t, "Communication", p.Menu[13].Label)
}

func TestLoadPolicy_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
activation:
  fee: 0
superadmin_roles: [ROLE_ROOT]
menu:
  - key: Orders
    label: Orders
    route: /business/orders
`), 0o644))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Zero(t, p.Activation.Fee)
	assert.Equal(t, []string{"ROLE_ROOT"}, p.SuperadminRoles)

	empty, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Len(t, empty.Menu, 14)

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParsePolicy_Invalid(t *testing.T) {
	cases := map[string]string{
		"negative fee":  "activation: {fee: -1}\nmenu: [{key: a, label: A}]",
		"empty menu":    "activation: {fee: 1}",
		"duplicate key": "menu: [{key: a, label: A}, {key: a, label: B}]",
		"missing label": "menu: [{key: a}]",
		"not yaml":      "menu: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(doc))
			assert.Error(t, err)
		})
	}
}
