package collector

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/privacyscan/internal/browser"
)

// fakeCookies is a CookieStore returning fixed cookies.
type fakeCookies struct {
	cookies []browser.Cookie
	err     error
	hang    <-chan struct{}
}

func (f *fakeCookies) GetAllCookies(context.Context) ([]browser.Cookie, error) {
	if f.hang != nil {
		<-f.hang
	}
	return f.cookies, f.err
}

// fakeTabs is a TabEnumerator returning fixed tabs.
type fakeTabs struct {
	tabs []browser.Tab
	err  error
}

func (f *fakeTabs) QueryTabs(context.Context) ([]browser.Tab, error) {
	return f.tabs, f.err
}

// fakeScripts is a ScriptInjector. Tabs listed in hang never return and
// ignore their context, like a script injected into a detached page.
type fakeScripts struct {
	storage map[int]map[browser.StorageArea][]browser.StorageItem
	hang    map[int]<-chan struct{}
	fail    map[int]error

	mu    sync.Mutex
	calls []int
}

func (f *fakeScripts) ReadStorage(_ context.Context, tabID int, area browser.StorageArea) ([]browser.StorageItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, tabID)
	f.mu.Unlock()

	if ch, ok := f.hang[tabID]; ok {
		<-ch
	}
	if err, ok := f.fail[tabID]; ok {
		return nil, err
	}
	return f.storage[tabID][area], nil
}

func (f *fakeScripts) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// panicProbe is a DatabaseProbe that panics on every call.
type panicProbe struct{}

func (panicProbe) ListDatabases(context.Context, int) ([]browser.DatabaseInfo, error) {
	panic("database API unavailable")
}

func (panicProbe) OpenDatabase(context.Context, int, string) (browser.DatabaseHandle, error) {
	panic("database API unavailable")
}

// failingQuota is a QuotaEstimator that always fails.
type failingQuota struct{}

func (failingQuota) Estimate(context.Context) (browser.Quota, error) {
	return browser.Quota{}, errors.New("estimate unsupported")
}

// slowOpenProbe lists one database per tab and opens it after delay,
// ignoring its context.
type slowOpenProbe struct {
	delay  time.Duration
	closed atomic.Int32
}

func (p *slowOpenProbe) ListDatabases(context.Context, int) ([]browser.DatabaseInfo, error) {
	return []browser.DatabaseInfo{{Name: "cache", Version: 1}}, nil
}

func (p *slowOpenProbe) OpenDatabase(context.Context, int, string) (browser.DatabaseHandle, error) {
	time.Sleep(p.delay)
	return &countingHandle{closed: &p.closed}, nil
}

// countingHandle is a DatabaseHandle that counts Close calls.
type countingHandle struct {
	closed *atomic.Int32
}

func (h *countingHandle) Version() int64                                      { return 1 }
func (h *countingHandle) ObjectStoreNames() []string                          { return nil }
func (h *countingHandle) CountRecords(context.Context, string) (int64, error) { return 0, nil }
func (h *countingHandle) Close() error {
	h.closed.Add(1)
	return nil
}
