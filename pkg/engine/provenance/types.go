package provenance

import "time"

// KindSite points at the .tf file where declarations of a resource kind live.
type KindSite struct {
	Kind      string
	FilePath  string
	Count     int
	StartLine int
}

// Record holds the attribution for a declaration site.
type Record struct {
	Kind       string
	FilePath   string
	Count      int
	Author     string
	CommitHash string
	CommitDate time.Time
	Message    string
	IsLegacy   bool // True if commit is older than 1 year (Statute of Limitations)
}
