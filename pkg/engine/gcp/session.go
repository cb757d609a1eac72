package gcp

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	crmv1 "google.golang.org/api/cloudresourcemanager/v1"
	crmv2 "google.golang.org/api/cloudresourcemanager/v2"
	dns "google.golang.org/api/dns/v1"
	"google.golang.org/api/option"

	"github.com/DrSkyle/drifthound/pkg/version"
)

// Session bundles the three read-only API surfaces the checks consume:
// v1 Resource Manager for the organization policy, v2 for the folder
// tree, and Cloud DNS for zones and record sets.
type Session struct {
	CRM     *crmv1.Service
	Folders *crmv2.Service
	DNS     *dns.Service
}

// NewSession resolves application-default credentials and builds the API
// clients. Endpoint overrides (flag or DRIFTHOUND_GCP_ENDPOINT) skip the
// credential check entirely so tests and emulators work offline.
func NewSession(ctx context.Context, endpoint string) (*Session, error) {
	if endpoint == "" {
		endpoint = os.Getenv("DRIFTHOUND_GCP_ENDPOINT")
	}

	opts := []option.ClientOption{
		option.WithUserAgent(fmt.Sprintf("%s/%s", version.AppName, version.Current)),
	}

	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	} else {
		creds, err := google.FindDefaultCredentials(ctx,
			crmv1.CloudPlatformReadOnlyScope,
			dns.NdevClouddnsReadonlyScope,
		)
		if err != nil {
			return nil, fmt.Errorf("unable to find Google Cloud credentials; run 'gcloud auth application-default login' or set GOOGLE_APPLICATION_CREDENTIALS (error: %v)", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	crm, err := crmv1.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource manager client: %v", err)
	}
	folders, err := crmv2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build folder client: %v", err)
	}
	dnsSvc, err := dns.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build DNS client: %v", err)
	}

	return &Session{CRM: crm, Folders: folders, DNS: dnsSvc}, nil
}
