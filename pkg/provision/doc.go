// Package provision prepares a fresh deployment: the database, the four
// storefront collections with their attributes and indexes, the two object
// storage buckets and the site config document.
//
// Every step treats "already exists" as success, so a Provisioner can be run
// again at any time. Attribute and index failures are logged and skipped
// because a collection without one of them still works.
//
// # Usage
//
//	p := provision.New(provision.NewMongoBackend(db),
//		provision.WithStorage(storage),
//		provision.WithSiteConfig(siteconfig.NewMongoRepository(db)),
//		provision.WithCredentialsStore(provision.NewFileCredentialsStore(cfg.CredentialsFile, codec, cfg.EnvCredentials())),
//		provision.WithConfig(cfg),
//		provision.WithLogger(log),
//	)
//
//	res := p.Run(ctx, creds, func(pr provision.Progress) {
//		fmt.Printf("[%3d%%] %s\n", pr.Percent, pr.Message)
//	})
//
// Single actions are available through Do and over HTTP:
//
//	r.Mount("/api/setup", provision.NewHandler(p, log).Handle())
//
// # Progress
//
// Run reports init (0), database (20), collections (60), storage (80) and
// complete (100). The percentage never decreases. A run that stops early
// ends with an error event carrying the last percentage reached.
//
// # Credentials
//
// The first run accepts any project id and API key and saves them once the
// run succeeds. Later calls must present the same pair. PROVISION_PROJECT_ID
// and PROVISION_API_KEY act as the saved pair until a run has saved one.
package provision
