// Package checkout creates hosted payment pages for a single product.
//
// A Request carries the amount in minor currency units, the product name and
// the two redirect URLs. Service validates it, resolves the processor secret
// key and asks a Processor for a session. Every session is a one-item,
// quantity-one payment in the configured currency.
//
// The secret key comes from the site config document when it has one and
// from STRIPE_SECRET_KEY otherwise:
//
//	keys := checkout.NewKeyResolver(sites, cfg.SecretKey, log)
//	svc := checkout.NewService(checkout.NewStripeProcessor(cfg, log), keys,
//		checkout.WithConfig(cfg), checkout.WithLogger(log))
//	r.Mount("/api/create-checkout-session", checkout.NewHandler(svc, log).Handle())
//
// Invalid requests are answered with 400 and an error naming the field.
package checkout
