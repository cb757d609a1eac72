package permissions

// Catalog defines the known mapping of checks to GCP IAM permissions.
var Catalog = map[string][]string{
	"org-iam": {
		"resourcemanager.organizations.get",
		"resourcemanager.organizations.getIamPolicy",
	},
	"folders": {
		"resourcemanager.folders.list",
	},
	"folder-iam": {
		"resourcemanager.folders.get",
		"resourcemanager.folders.getIamPolicy",
	},
	"dns-records": {
		"dns.managedZones.list",
		"dns.resourceRecordSets.list",
	},
}

// CheckNames returns the catalog keys in stable order.
func CheckNames() []string {
	return []string{"org-iam", "folders", "folder-iam", "dns-records"}
}
