package engine

// mockStateJSON is the canned declared snapshot for mock runs. It pairs
// with gcp.MockEnumerator: every entry here matches one live fixture, and
// the live entries with no counterpart below surface as drift.
const mockStateJSON = `{
  "version": 4,
  "terraform_version": "1.7.4",
  "resources": {
    "google_organization.primary": {
      "type": "google_organization",
      "primary": {
        "id": "organizations/123456789012",
        "attributes": {
          "name": "organizations/123456789012",
          "domain": "example.com"
        }
      }
    },
    "google_organization_iam_member.alice_admin": {
      "type": "google_organization_iam_member",
      "primary": {
        "id": "organizations/123456789012 roles/resourcemanager.organizationAdmin user:alice@example.com",
        "attributes": {
          "member": "user:alice@example.com",
          "role": "roles/resourcemanager.organizationAdmin"
        }
      }
    },
    "google_folder.engineering": {
      "type": "google_folder",
      "primary": {
        "id": "folders/100",
        "attributes": {
          "id": "folders/100",
          "name": "folders/100",
          "parent": "organizations/123456789012",
          "display_name": "Engineering"
        }
      }
    },
    "google_folder.operations": {
      "type": "google_folder",
      "primary": {
        "id": "folders/200",
        "attributes": {
          "id": "folders/200",
          "name": "folders/200",
          "parent": "organizations/123456789012",
          "display_name": "Operations"
        }
      }
    },
    "google_folder_iam_member.alice_engineering": {
      "type": "google_folder_iam_member",
      "primary": {
        "id": "folders/100 roles/resourcemanager.folderAdmin user:alice@example.com",
        "attributes": {
          "folder": "folders/100",
          "member": "user:alice@example.com",
          "role": "roles/resourcemanager.folderAdmin"
        }
      }
    },
    "google_folder_iam_member.alice_operations": {
      "type": "google_folder_iam_member",
      "primary": {
        "id": "folders/200 roles/resourcemanager.folderAdmin user:alice@example.com",
        "attributes": {
          "folder": "folders/200",
          "member": "user:alice@example.com",
          "role": "roles/resourcemanager.folderAdmin"
        }
      }
    },
    "google_project.prod": {
      "type": "google_project",
      "primary": {
        "id": "example-prod",
        "attributes": {
          "project_id": "example-prod",
          "name": "Example Production"
        }
      }
    },
    "google_dns_record_set.www": {
      "type": "google_dns_record_set",
      "primary": {
        "id": "example-prod/corp-zone/www.example.com./A",
        "attributes": {
          "project": "example-prod",
          "managed_zone": "corp-zone",
          "name": "www.example.com.",
          "type": "A"
        }
      }
    }
  }
}`
