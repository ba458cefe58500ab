package chain

import (
	"context"
	"time"

	"github.com/miekg/dns"
)

// fakeDNSClient answers ExchangeContext from a caller-supplied function,
// grounded on the teacher's dnsClientFactory/dnsClient test seam
// (nameserver_test.go in the teacher used the same interface for mocks).
type fakeDNSClient struct {
	answer func(m *dns.Msg) (*dns.Msg, error)
}

func (f *fakeDNSClient) ExchangeContext(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
	resp, err := f.answer(m)
	return resp, time.Millisecond, err
}

// newTestContext builds a ValidatorContext wired to a fake transport that
// dispatches purely on question (name, qtype), ignoring server address and
// protocol. answers maps "name|TYPE" to a response-building function.
func newTestContext(answers map[string]func(q dns.Question) *dns.Msg) *ValidatorContext {
	cfg, _ := NewConfig()
	vc := NewValidatorContext(cfg, nil)
	vc.newClient = func(string) dnsClient {
		return &fakeDNSClient{
			answer: func(m *dns.Msg) (*dns.Msg, error) {
				q := m.Question[0]
				key := dns.CanonicalName(q.Name) + "|" + TypeToString(q.Qtype)

				resp := new(dns.Msg)
				resp.SetReply(m)

				build, ok := answers[key]
				if !ok {
					resp.Rcode = dns.RcodeNameError
					return resp, nil
				}

				built := build(q)
				resp.Answer = built.Answer
				resp.Ns = built.Ns
				resp.Extra = built.Extra
				if built.Rcode != 0 {
					resp.Rcode = built.Rcode
				}
				resp.Truncated = built.Truncated
				return resp, nil
			},
		}
	}
	return vc
}
