package permissions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGenerateRoleAllChecks(t *testing.T) {
	data, err := GenerateRole(nil)
	require.NoError(t, err)

	var role CustomRole
	require.NoError(t, yaml.Unmarshal(data, &role))

	assert.Equal(t, "Drifthound Read-Only", role.Title)
	assert.Equal(t, "GA", role.Stage)
	assert.Equal(t, []string{
		"dns.managedZones.list",
		"dns.resourceRecordSets.list",
		"resourcemanager.folders.get",
		"resourcemanager.folders.getIamPolicy",
		"resourcemanager.folders.list",
		"resourcemanager.organizations.get",
		"resourcemanager.organizations.getIamPolicy",
	}, role.IncludedPermissions)
}

func TestGenerateRoleSubset(t *testing.T) {
	data, err := GenerateRole([]string{"dns-records"})
	require.NoError(t, err)

	var role CustomRole
	require.NoError(t, yaml.Unmarshal(data, &role))

	assert.Equal(t, []string{
		"dns.managedZones.list",
		"dns.resourceRecordSets.list",
	}, role.IncludedPermissions)
}

func TestGenerateRoleIgnoresUnknownChecks(t *testing.T) {
	data, err := GenerateRole([]string{"dns-records", "not-a-check"})
	require.NoError(t, err)

	var role CustomRole
	require.NoError(t, yaml.Unmarshal(data, &role))
	assert.Len(t, role.IncludedPermissions, 2)
}

func TestGenerateList(t *testing.T) {
	data, err := GenerateList([]string{"folders"})
	require.NoError(t, err)

	var perms []string
	require.NoError(t, json.Unmarshal(data, &perms))
	assert.Equal(t, []string{"resourcemanager.folders.list"}, perms)
}

func TestCheckNamesCoverCatalog(t *testing.T) {
	names := CheckNames()
	assert.Len(t, names, len(Catalog))
	for _, name := range names {
		assert.Contains(t, Catalog, name)
	}
}
