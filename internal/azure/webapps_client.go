package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
)

// SiteConfig holds the runtime stack fields reported for a site.
type SiteConfig struct {
	PythonVersion       string
	NodeVersion         string
	NetFrameworkVersion string
	JavaVersion         string
	PowerShellVersion   string
	LinuxFxVersion      string
}

// Site is the subset of an App Service site the services read.
type Site struct {
	Name            string
	Kind            string
	Location        string
	ResourceGroup   string
	State           string
	DefaultHostName string
	Config          SiteConfig
}

// WebAppsAPI is the management-plane surface used for function apps.
type WebAppsAPI interface {
	ListByResourceGroup(ctx context.Context, resourceGroup string) ([]Site, error)
	ListFunctions(ctx context.Context, resourceGroup, app string) ([]string, error)
	Get(ctx context.Context, resourceGroup, app string) (Site, error)
	ListApplicationSettings(ctx context.Context, resourceGroup, app string) (map[string]string, error)
}

type armWebApps struct {
	client *armappservice.WebAppsClient
}

// NewWebAppsAPI builds the default management client backed by armappservice.
func NewWebAppsAPI(subscriptionID string, cred azcore.TokenCredential, transport policy.Transporter) (WebAppsAPI, error) {
	var opts *arm.ClientOptions
	if transport != nil {
		opts = &arm.ClientOptions{ClientOptions: policy.ClientOptions{Transport: transport}}
	}
	client, err := armappservice.NewWebAppsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	return &armWebApps{client: client}, nil
}

func (w *armWebApps) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]Site, error) {
	var sites []Site
	pager := w.client.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range page.Value {
			if s != nil {
				sites = append(sites, toSite(s))
			}
		}
	}
	return sites, nil
}

func (w *armWebApps) ListFunctions(ctx context.Context, resourceGroup, app string) ([]string, error) {
	var names []string
	pager := w.client.NewListFunctionsPager(resourceGroup, app, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, fn := range page.Value {
			if fn != nil && fn.Name != nil {
				names = append(names, *fn.Name)
			}
		}
	}
	return names, nil
}

func (w *armWebApps) Get(ctx context.Context, resourceGroup, app string) (Site, error) {
	resp, err := w.client.Get(ctx, resourceGroup, app, nil)
	if err != nil {
		return Site{}, err
	}
	return toSite(&resp.Site), nil
}

func (w *armWebApps) ListApplicationSettings(ctx context.Context, resourceGroup, app string) (map[string]string, error) {
	resp, err := w.client.ListApplicationSettings(ctx, resourceGroup, app, nil)
	if err != nil {
		return nil, err
	}
	settings := make(map[string]string, len(resp.Properties))
	for k, v := range resp.Properties {
		settings[k] = deref(v)
	}
	return settings, nil
}

func toSite(s *armappservice.Site) Site {
	site := Site{
		Name:     deref(s.Name),
		Kind:     deref(s.Kind),
		Location: deref(s.Location),
	}
	if p := s.Properties; p != nil {
		site.ResourceGroup = deref(p.ResourceGroup)
		site.State = deref(p.State)
		site.DefaultHostName = deref(p.DefaultHostName)
		if c := p.SiteConfig; c != nil {
			site.Config = SiteConfig{
				PythonVersion:       deref(c.PythonVersion),
				NodeVersion:         deref(c.NodeVersion),
				NetFrameworkVersion: deref(c.NetFrameworkVersion),
				JavaVersion:         deref(c.JavaVersion),
				PowerShellVersion:   deref(c.PowerShellVersion),
				LinuxFxVersion:      deref(c.LinuxFxVersion),
			}
		}
	}
	return site
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
