package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/miekg/dns"

	"github.com/agentview/api/internal/workerscript"
)

const probeUserAgent = "Mozilla/5.0 (compatible; GPTBot/1.0; +https://openai.com/gptbot)"

// Probe performs a post-provision reachability check against a deployed
// domain: resolve it, fetch the root path with a crawler user agent, and
// confirm the worker's marker header is present. Outcomes are recorded
// as metrics and logs only; a failed probe never fails a provision.
type Probe struct {
	resolver   string
	httpClient *http.Client
	dnsClient  *dns.Client
}

func NewProbe(resolver string) *Probe {
	return &Probe{
		resolver:   resolver,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		dnsClient:  &dns.Client{Timeout: 5 * time.Second},
	}
}

func (p *Probe) Run(ctx context.Context, domain string) {
	outcome := p.run(ctx, domain)
	probesTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		slog.InfoContext(ctx, "Deployment probe passed", "domain", domain)
	} else {
		slog.WarnContext(ctx, "Deployment probe failed", "domain", domain, "outcome", outcome)
	}
}

func (p *Probe) run(ctx context.Context, domain string) string {
	if err := p.resolve(ctx, domain); err != nil {
		slog.DebugContext(ctx, "Probe DNS lookup failed", "domain", domain, "error", err)
		return "dns_error"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+domain+"/", nil)
	if err != nil {
		return "http_error"
	}
	req.Header.Set("User-Agent", probeUserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "Probe request failed", "domain", domain, "error", err)
		return "http_error"
	}
	defer resp.Body.Close()

	if resp.Header.Get(workerscript.MarkerHeader) == "" {
		return "no_marker"
	}
	return "ok"
}

func (p *Probe) resolve(ctx context.Context, domain string) error {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	msg.RecursionDesired = true

	resp, _, err := p.dnsClient.ExchangeContext(ctx, msg, p.resolver)
	if err != nil {
		return err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("resolver returned %s", dns.RcodeToString[resp.Rcode])
	}
	if len(resp.Answer) == 0 {
		return fmt.Errorf("no records for %s", domain)
	}
	return nil
}
