// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"

	"github.com/pdiddy/brand-engine/pkg/types"
)

// Resolver abstracts DNS lookups so tests can supply a fake.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// DomainChecker reports domain availability for candidate names across a
// fixed TLD set via name resolution.
type DomainChecker struct {
	Resolver Resolver
	TLDs     []string
}

// NewDomainChecker builds a checker over the system resolver.
func NewDomainChecker(tlds []string) *DomainChecker {
	if len(tlds) == 0 {
		tlds = types.DefaultTLDs
	}
	return &DomainChecker{Resolver: net.DefaultResolver, TLDs: tlds}
}

// DomainToken compacts a business name into a registrable label: lowercase
// alphanumeric only. An ampersand becomes the word "and" before compacting,
// and only that variant is checked: the naive compaction of "&" to nothing
// produces a different name the user did not ask about.
func DomainToken(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "&", " and ")
	var sb strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Check resolves the candidate's domain under each configured TLD.
// Resolution success means taken; a definitive "no such host" means
// available; every other failure means unknown. Unknown is never collapsed
// into available; an outage must not look like a free domain.
func (d *DomainChecker) Check(ctx context.Context, name string) map[string]types.DomainStatus {
	token := DomainToken(name)
	result := make(map[string]types.DomainStatus, len(d.TLDs))
	if token == "" {
		return result
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, tld := range d.TLDs {
		domain := token + tld
		wg.Add(1)
		go func(domain string) {
			defer wg.Done()
			status := d.lookup(ctx, domain)
			mu.Lock()
			result[domain] = status
			mu.Unlock()
		}(domain)
	}
	wg.Wait()
	return result
}

func (d *DomainChecker) lookup(ctx context.Context, domain string) types.DomainStatus {
	_, err := d.Resolver.LookupHost(ctx, domain)
	if err == nil {
		return types.DomainTaken
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return types.DomainAvailable
	}
	return types.DomainUnknown
}
