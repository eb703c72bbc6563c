package services

import (
	"testing"

	"github.com/newsloom/newsloom-backend/internal/types"
)

func TestResolvePricing(t *testing.T) {
	cases := []struct {
		tierType  string
		basePrice float64
		want      float64
	}{
		{types.SubscriptionFree, 10, 0},
		{types.SubscriptionPaid, 10, 10},
		{types.SubscriptionStudent, 10, 5},
		{types.SubscriptionCorporate, 10, 50},
		{"unknown-tier", 10, 0},
		{"", 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.tierType, func(t *testing.T) {
			price, _ := ResolvePricing(tc.tierType)
			if got := price(tc.basePrice); got != tc.want {
				t.Fatalf("ResolvePricing(%q)(%v) = %v, want %v", tc.tierType, tc.basePrice, got, tc.want)
			}
		})
	}
}

func TestResolvePricingFeatures(t *testing.T) {
	_, free := ResolvePricing(types.SubscriptionFree)
	if !free.Ads {
		t.Fatalf("free tier should include ads")
	}
	if free.ExclusiveArticles {
		t.Fatalf("free tier should not include exclusive articles")
	}

	_, paid := ResolvePricing(types.SubscriptionPaid)
	if paid.Ads {
		t.Fatalf("paid tier should not include ads")
	}
	if !paid.ExclusiveArticles || !paid.OfflineReading {
		t.Fatalf("paid tier missing premium features: %+v", paid)
	}
	if paid.MultipleUsers {
		t.Fatalf("paid tier should not include multiple users")
	}

	_, corporate := ResolvePricing(types.SubscriptionCorporate)
	if !corporate.MultipleUsers {
		t.Fatalf("corporate tier should include multiple users")
	}

	_, unknown := ResolvePricing("mystery")
	if unknown != free {
		t.Fatalf("unknown tier should fall back to free features: %+v", unknown)
	}
}
