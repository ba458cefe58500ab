// Command dnssecprobe bulk-validates the DNSSEC chain of trust for a list
// of domains and emits one JSON report per domain.
//
// Grounded on original_source/.../probing/main.py's CLI shape (a CSV of
// domains, a --test debug mode, streamed JSON-Lines output) reimplemented
// with spf13/cobra following 0xERR0R-blocky's cmd package (the teacher has
// no cmd/ package of its own), and on golang.org/x/sync/errgroup for the bounded worker
// pool in place of the original's multiprocessing.dummy.ThreadPool.
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jakobod/dnssecprobe/chain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		chain.Warn(err.Error())
		os.Exit(1)
	}
}

var (
	inputPath   string
	outputPath  string
	testDomains []string
	concurrency int
	metricsAddr string
	verbose     bool
)

func newRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "dnssecprobe",
		Short: "Bulk DNSSEC chain-of-trust prober",
		Long: `dnssecprobe validates the DNSSEC chain of trust for a large list of
domains: for each domain it discovers the zone cuts down to the root,
authenticates DS/DNSKEY/RRSIG material at every cut, and emits a single
JSON report per domain summarizing the outcome.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	c.Flags().StringVarP(&inputPath, "input", "i", "",
		"path to a CSV file whose last column (e.g. rank,domain rows) holds one domain per row")
	c.Flags().StringVarP(&outputPath, "output", "o", "",
		"path to write JSON-Lines reports to (default: stdout)")
	c.Flags().StringSliceVar(&testDomains, "test", nil,
		"validate the given domain(s) directly, printed to stdout, ignoring --input/--output")
	c.Flags().IntVarP(&concurrency, "concurrency", "c", 0,
		"number of domains validated concurrently (default: config value)")
	c.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"if set, serve Prometheus metrics at this address (e.g. :9100)")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return c
}

func run(cmd *cobra.Command, _ []string) error {
	if verbose {
		chain.SetLogLevel(logrus.DebugLevel)
	}

	cfg, err := chain.NewConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		serveMetrics(reg, metricsAddr)
	}

	vc := chain.NewValidatorContext(cfg, reg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := vc.ValidateRootZone(ctx); err != nil {
		return fmt.Errorf("bootstrapping root zone: %w", err)
	}

	if len(testDomains) > 0 {
		return runTest(ctx, vc, testDomains)
	}

	return runBatch(ctx, vc, cfg.Concurrency)
}

// runTest mirrors the original program's --test debug mode: validate a
// handful of domains sequentially and pretty-print each report.
func runTest(ctx context.Context, vc *chain.ValidatorContext, domains []string) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, domain := range domains {
		fmt.Fprintln(os.Stderr, "checking:", domain)
		report := vc.ValidateChain(ctx, domain)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding report for %s: %w", domain, err)
		}
	}
	return nil
}

// runBatch streams every domain named in the CSV at inputPath through a
// bounded worker pool and writes one JSON object per line to outputPath
// (or stdout), grounded on the original's tqdm-wrapped csv.reader loop.
func runBatch(ctx context.Context, vc *chain.ValidatorContext, concurrency int) error {
	if inputPath == "" {
		return fmt.Errorf("--input is required unless --test is given")
	}

	domains, err := readDomainsCSV(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	results := make(chan *chain.ChainReport, concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	writeDone := make(chan error, 1)
	go func() {
		writeDone <- writeReports(out, results)
	}()

	for _, domain := range domains {
		domain := domain
		g.Go(func() error {
			results <- vc.ValidateChain(gctx, domain)
			return nil
		})
	}

	err = g.Wait()
	close(results)

	if writeErr := <-writeDone; writeErr != nil && err == nil {
		err = writeErr
	}
	return err
}

func writeReports(w io.Writer, results <-chan *chain.ChainReport) error {
	enc := json.NewEncoder(w)
	for report := range results {
		if err := enc.Encode(report); err != nil {
			return err
		}
		if f, ok := w.(flusher); ok {
			f.Flush()
		}
	}
	return nil
}

type flusher interface {
	Flush() error
}

func readDomainsCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var domains []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		domain := lastField(record)
		if domain == "" {
			continue
		}
		domains = append(domains, domain)
	}
	return domains, nil
}

// lastField mirrors the original's domain[1] indexing (rank,domain rows)
// while tolerating a bare single-column domain list too.
func lastField(record []string) string {
	if len(record) == 0 {
		return ""
	}
	return strings.TrimSpace(record[len(record)-1])
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		w := bufio.NewWriter(os.Stdout)
		return w, func() { w.Flush() }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	w := bufio.NewWriter(f)
	return w, func() { w.Flush(); f.Close() }, nil
}

func serveMetrics(reg *prometheus.Registry, addr string) {
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	reg.MustRegister(prometheus.NewGoCollector())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			chain.Warn(fmt.Sprintf("metrics server stopped: %v", err))
		}
	}()
}
