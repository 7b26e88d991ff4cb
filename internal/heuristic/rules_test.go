package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApexDomain(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
	}{
		{"plain domain", []string{"example", "com"}, "example.com"},
		{"subdomains ignored", []string{"a", "b", "example", "com"}, "example.com"},
		{"single label", []string{"localhost"}, "localhost"},
		{"naive on multi-part suffixes", []string{"example", "co", "uk"}, "co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apexDomain(tt.labels))
		})
	}
}

func TestHostLabels(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "com"}, hostLabels("a.b.com"))
	assert.Equal(t, []string{"example", "com"}, hostLabels("example.com."))
	assert.Empty(t, hostLabels(""))
}

func TestBrandSubdomainReason(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
		hit  bool
	}{
		{
			name: "brand label with unrelated apex",
			host: "paypal.com.evil.example.com",
			want: "Brand appears in subdomain but apex is 'example.com' (subdomain trick)",
			hit:  true,
		},
		{
			name: "genuine brand subdomain",
			host: "accounts.paypal.com",
			hit:  false,
		},
		{
			name: "brand embedded in longer label",
			host: "secure-paypal-login.verify.example.net",
			want: "Brand appears in subdomain but apex is 'example.net' (subdomain trick)",
			hit:  true,
		},
		{
			name: "brand only in apex",
			host: "www.google.com",
			hit:  false,
		},
		{
			name: "two labels only",
			host: "paypal.com",
			hit:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := hostLabels(tt.host)
			reason, hit := brandSubdomainReason(labels, apexDomain(labels))
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.Equal(t, tt.want, reason)
			}
		})
	}
}

func TestLeetspeakReason(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
		hit  bool
	}{
		{
			name: "digit-substituted paypal",
			host: "paypa1-secure.com",
			want: "Possible PayPal lookalike detected (character substitution)",
			hit:  true,
		},
		{
			name: "digit-substituted google",
			host: "g00gle-docs.net",
			want: "Possible Google lookalike detected (character substitution)",
			hit:  true,
		},
		{
			name: "digit-substituted amazon",
			host: "amaz0n-orders.com",
			want: "Possible Amazon lookalike detected (character substitution)",
			hit:  true,
		},
		{
			name: "genuine spelling never matches",
			host: "accounts.paypal.com",
			hit:  false,
		},
		{
			name: "unrelated host",
			host: "example.org",
			hit:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, hit := leetspeakReason(tt.host)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.Equal(t, tt.want, reason)
			}
		})
	}
}

func TestLeetspeakFirstMatchWins(t *testing.T) {
	// Host matches both the PayPal and Google patterns; pattern order decides.
	reason, hit := leetspeakReason("paypa1-g00gle.com")
	assert.True(t, hit)
	assert.Equal(t, "Possible PayPal lookalike detected (character substitution)", reason)
}

func TestHasSuspiciousTLD(t *testing.T) {
	assert.True(t, hasSuspiciousTLD("login.example.tk"))
	assert.True(t, hasSuspiciousTLD("example.ph"))
	assert.True(t, hasSuspiciousTLD("example.cc"))
	assert.False(t, hasSuspiciousTLD("example.com"))
	assert.False(t, hasSuspiciousTLD("tk.example.com"))
}

func TestIsLinkShortener(t *testing.T) {
	assert.True(t, isLinkShortener("bit.ly"))
	assert.True(t, isLinkShortener("www.tinyurl.com"))
	assert.False(t, isLinkShortener("bitly.example.com"))
	assert.False(t, isLinkShortener("example.com"))
}

func TestHomographReason(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
		hit  bool
	}{
		{
			name: "ascii host passes",
			host: "example.com",
			hit:  false,
		},
		{
			name: "accented lookalike folds to target",
			host: "pàypal.com",
			want: "Hostname uses accented lookalike characters (resembles 'paypal.com')",
			hit:  true,
		},
		{
			name: "non-foldable script gets generic reason",
			host: "pаypal.com", // Cyrillic а
			want: "Hostname contains non-ASCII characters (homograph risk)",
			hit:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, hit := homographReason(tt.host)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.Equal(t, tt.want, reason)
			}
		})
	}
}

func TestIsKnownSafeDomain(t *testing.T) {
	assert.True(t, IsKnownSafeDomain("github.com"))
	assert.True(t, IsKnownSafeDomain("docs.github.com"))
	assert.False(t, IsKnownSafeDomain("github.com.evil.net"))
	assert.False(t, IsKnownSafeDomain("example.com"))
}
