// Package client provides a Go SDK for the vRealize Automation (vRA) 7.x REST API.
//
// The SDK wraps the identity, catalog-service, reservation-service and
// event-broker-service endpoints of a vRA appliance. A Session is obtained by
// logging in with a username and password; it holds the bearer token used by
// every subsequent call.
//
// # Quick Start
//
// Log in and list the catalog items the user is entitled to:
//
//	s, err := client.Login(ctx, client.Credentials{
//	    Username:  "cloudadmin@corp.local",
//	    Password:  password,
//	    Host:      "vra-01a.corp.local",
//	    Tenant:    "vsphere.local",
//	    SSLVerify: true,
//	})
//	items, err := s.EntitledCatalogItems(ctx, nil)
//
// Use custom configuration:
//
//	s, err := client.Login(ctx, creds,
//	    client.WithTimeout(30*time.Second),
//	    client.WithPageSize(100),
//	)
//
// # Requesting a Catalog Item
//
// Fetch the request template, adjust it and submit it:
//
//	item, err := s.CatalogItemByName(ctx, "centos")
//	tmpl, err := s.RequestTemplate(ctx, item.ID())
//	tmpl.BusinessGroupID = group.ID
//	tmpl.SetReasons("load test")
//	req, err := s.RequestCatalogItem(ctx, item.ID(), tmpl)
//	done, err := s.WaitForRequest(ctx, req.ID, 5*time.Second, nil)
//
// # Errors
//
// Login failures are reported as *AuthenticationError, failed API calls as
// *RequestError and responses that do not match the expected record shape as
// *ParseError. Lookups by name return ErrNotFound or ErrAmbiguous.
//
//	var reqErr *client.RequestError
//	if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound {
//	    ...
//	}
//
// # Deployments
//
// LoadDeployment walks a provisioned deployment and its children and exposes
// the day-2 operations (power on/off, reboot, scale out) available on them.
package client
