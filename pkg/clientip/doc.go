// Package clientip resolves the address of the caller behind reverse proxies.
//
// A Resolver checks the configured proxy headers in order and falls back to
// the TCP peer address. X-Forwarded-For style lists use their first valid
// entry. Values that do not parse as an IP address are ignored, so a
// malformed header never shadows a good one further down the list.
//
//	res := clientip.NewFromConfig(cfg)
//	r.Use(res.Middleware)
//	...
//	ip := clientip.FromRequest(r)
//
// Only list headers that your proxy overwrites. A header the proxy passes
// through unchanged lets clients pick their own address.
package clientip
