// Package cf defines the public surface of the Cloud Foundry client:
// the Client interface with one typed facade per resource kind, the
// configuration used to construct it, the error model surfaced to callers,
// and the resource types exchanged with the CF V3 API.
//
// Construct clients with the cfclient package:
//
//	client, err := cfclient.New(ctx, &cf.Config{
//	    Account: "my-account",
//	    APIHost: "api.sys.example.com",
//	    User:    "ops",
//	    Secret:  "s3cret",
//	})
//	if err != nil {
//	    return err
//	}
//	orgs, err := client.Organizations().List(ctx, nil)
package cf
