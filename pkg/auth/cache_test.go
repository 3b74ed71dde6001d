package auth

import (
	"testing"
	"time"
)

func TestCredentialCacheValid(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		expiration time.Time
		margin     time.Duration
		want       bool
	}{
		{
			name:       "well before the margin",
			expiration: base.Add(time.Hour),
			margin:     DefaultExpiryMargin,
			want:       true,
		},
		{
			name:       "one millisecond inside the margin",
			expiration: base.Add(DefaultExpiryMargin + time.Millisecond),
			margin:     DefaultExpiryMargin,
			want:       true,
		},
		{
			name:       "exactly at the margin boundary",
			expiration: base.Add(DefaultExpiryMargin),
			margin:     DefaultExpiryMargin,
			want:       false,
		},
		{
			name:       "inside the margin",
			expiration: base.Add(30 * time.Second),
			margin:     DefaultExpiryMargin,
			want:       false,
		},
		{
			name:       "already expired",
			expiration: base.Add(-time.Minute),
			margin:     DefaultExpiryMargin,
			want:       false,
		},
		{
			name:       "custom margin",
			expiration: base.Add(10 * time.Second),
			margin:     5 * time.Second,
			want:       true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cache := NewCredentialCache(
				WithExpiryMargin(tc.margin),
				withClock(func() time.Time { return base }),
			)
			cache.Store(Credentials{
				AccessKeyID: "AKIA_TEST",
				Expiration:  tc.expiration,
			})

			if got := cache.Valid(); got != tc.want {
				t.Fatalf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCredentialCacheEmptyIsInvalid(t *testing.T) {
	t.Parallel()

	cache := NewCredentialCache()
	if cache.Valid() {
		t.Fatal("empty cache reported valid credentials")
	}
	if cache.Cleared() {
		t.Fatal("empty cache reported cleared state")
	}
	if _, ok := cache.Credentials(); ok {
		t.Fatal("empty cache returned credentials")
	}
}

func TestCredentialCacheClear(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCredentialCache(withClock(func() time.Time { return base }))
	cache.Store(Credentials{
		AccessKeyID: "AKIA_TEST",
		Expiration:  base.Add(time.Hour),
	})

	if !cache.Valid() {
		t.Fatal("stored credentials should be valid")
	}

	cache.Clear()

	if cache.Valid() {
		t.Fatal("cleared cache reported valid credentials")
	}
	if !cache.Cleared() {
		t.Fatal("cleared cache did not report cleared state")
	}
}

func TestCredentialCacheStoreReplaces(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCredentialCache(withClock(func() time.Time { return base }))

	cache.Store(Credentials{AccessKeyID: "AKIA_OLD", Expiration: base.Add(-time.Minute)})
	cache.Store(Credentials{AccessKeyID: "AKIA_NEW", Expiration: base.Add(time.Hour)})

	creds, ok := cache.Credentials()
	if !ok {
		t.Fatal("expected valid credentials after replacement")
	}
	if creds.AccessKeyID != "AKIA_NEW" {
		t.Fatalf("unexpected access key: %q", creds.AccessKeyID)
	}
}
