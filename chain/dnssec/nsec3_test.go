package dnssec

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestNSEC3Hash_IsDeterministicAndUppercase(t *testing.T) {
	h1 := NSEC3Hash("child.example.com.", "AABBCCDD", 10, dns.SHA1)
	h2 := NSEC3Hash("child.example.com.", "AABBCCDD", 10, dns.SHA1)

	assert.Equal(t, h1, h2)
	assert.Equal(t, h1, toUpperASCII(h1))
	assert.NotEmpty(t, h1)
}

func TestNSEC3Hash_DiffersBySalt(t *testing.T) {
	h1 := NSEC3Hash("child.example.com.", "AABBCCDD", 10, dns.SHA1)
	h2 := NSEC3Hash("child.example.com.", "11223344", 10, dns.SHA1)
	assert.NotEqual(t, h1, h2)
}
