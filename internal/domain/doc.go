// Package domain contains the core model for fastestraces: ranking queries,
// cleaned performances and the per-race analysis built from them.
//
// The domain is transport- and persistence-agnostic: it does not depend on HTML
// parsing, net/http, or the filesystem. Infra/adapters map into/from these types.
package domain
