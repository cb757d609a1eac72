package tfstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatSnapshot = `{
  "resources": {
    "google_folder.teams": {
      "type": "google_folder",
      "primary": {
        "id": "folders/100",
        "attributes": {
          "id": "folders/100",
          "name": "folders/100",
          "parent": "organizations/9",
          "display_name": "Teams"
        }
      }
    },
    "google_organization.primary": {
      "type": "google_organization",
      "primary": {
        "id": "organizations/9",
        "attributes": {
          "name": "organizations/9",
          "domain": "example.com"
        }
      }
    }
  }
}`

const moduleSnapshot = `{
  "modules": [
    {
      "resources": {
        "google_folder.teams": {
          "type": "google_folder",
          "primary": {
            "id": "folders/100",
            "attributes": {
              "id": "folders/100",
              "name": "folders/100",
              "parent": "organizations/9",
              "display_name": "Teams"
            }
          }
        }
      }
    },
    {
      "resources": {
        "google_organization.primary": {
          "type": "google_organization",
          "primary": {
            "id": "organizations/9",
            "attributes": {
              "name": "organizations/9",
              "domain": "example.com"
            }
          }
        }
      }
    }
  ]
}`

func TestParseAcceptsBothLayouts(t *testing.T) {
	flat, err := Parse([]byte(flatSnapshot))
	require.NoError(t, err)

	modular, err := Parse([]byte(moduleSnapshot))
	require.NoError(t, err)

	// Both layouts must index to the same catalog.
	flatCat := BuildCatalog(flat)
	modCat := BuildCatalog(modular)
	assert.Equal(t, flatCat.Folders, modCat.Folders)
	assert.Equal(t, flatCat.Organizations, modCat.Organizations)
	assert.Equal(t, 2, flat.Len())
	assert.Equal(t, 2, modular.Len())
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"modules": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse terraform state")
}

func TestUnknownKindYieldsEmptyGroup(t *testing.T) {
	idx, err := Parse([]byte(flatSnapshot))
	require.NoError(t, err)

	assert.Empty(t, idx.Kind("google_compute_instance"))
}

func TestAttrAbsenceIsNotAnError(t *testing.T) {
	idx, err := Parse([]byte(flatSnapshot))
	require.NoError(t, err)

	folders := idx.Kind(KindFolder)
	require.Len(t, folders, 1)

	_, ok := folders[0].Attr("lifecycle_state")
	assert.False(t, ok)

	parent, ok := folders[0].Attr("parent")
	assert.True(t, ok)
	assert.Equal(t, "organizations/9", parent)
}

func TestIndexOrderIsDeterministic(t *testing.T) {
	snapshot := `{
	  "resources": {
	    "google_folder.b": {"type": "google_folder", "primary": {"id": "folders/2", "attributes": {"id": "folders/2", "name": "folders/2"}}},
	    "google_folder.a": {"type": "google_folder", "primary": {"id": "folders/1", "attributes": {"id": "folders/1", "name": "folders/1"}}}
	  }
	}`

	first, err := Parse([]byte(snapshot))
	require.NoError(t, err)
	second, err := Parse([]byte(snapshot))
	require.NoError(t, err)

	assert.Equal(t, first.Kind(KindFolder), second.Kind(KindFolder))
	assert.Equal(t, []string{"google_folder"}, first.Kinds())
}
