package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/paycontrol/pkg/cache"
)

var errCacheMiss = errors.New("cache miss")

// fakeInvoiceCache is an in-memory InvoiceCache keyed like the Redis one,
// recording evictions so tests can assert invalidation.
type fakeInvoiceCache struct {
	entries map[string]*pkgcache.CachedInvoice
	deleted []uuid.UUID // invoice ids, in eviction order
}

func newFakeInvoiceCache() *fakeInvoiceCache {
	return &fakeInvoiceCache{entries: make(map[string]*pkgcache.CachedInvoice)}
}

func cacheKey(ownerID, invoiceID uuid.UUID) string {
	return ownerID.String() + ":" + invoiceID.String()
}

func (f *fakeInvoiceCache) Get(_ context.Context, ownerID, invoiceID uuid.UUID) (*pkgcache.CachedInvoice, error) {
	entry, ok := f.entries[cacheKey(ownerID, invoiceID)]
	if !ok {
		return nil, errCacheMiss
	}
	cp := *entry
	return &cp, nil
}

func (f *fakeInvoiceCache) Set(_ context.Context, inv *pkgcache.CachedInvoice) error {
	cp := *inv
	f.entries[cacheKey(inv.OwnerID, inv.ID)] = &cp
	return nil
}

func (f *fakeInvoiceCache) Delete(_ context.Context, ownerID, invoiceID uuid.UUID) error {
	delete(f.entries, cacheKey(ownerID, invoiceID))
	f.deleted = append(f.deleted, invoiceID)
	return nil
}
