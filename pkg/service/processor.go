package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/extratos/pkg/config"
	"github.com/yurifrl/extratos/pkg/extract"
	"github.com/yurifrl/extratos/pkg/metrics"
	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/parser"
	"github.com/yurifrl/extratos/pkg/report"
)

// Processor runs extraction and parsing over a bank's statement directory.
type Processor struct {
	config    *config.Config
	logger    *log.Logger
	extractor extract.Extractor
	parser    *parser.Parser
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(*Processor)

func WithExtractor(e extract.Extractor) Option {
	return func(p *Processor) {
		p.extractor = e
	}
}

func WithParser(ps *parser.Parser) Option {
	return func(p *Processor) {
		p.parser = ps
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// WithClock sets the clock used for report timestamps and for DD/MM dates.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

func NewProcessor(cfg *config.Config, logger *log.Logger, opts ...Option) *Processor {
	p := &Processor{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = extract.NewPDF(logger)
	}
	if p.parser == nil {
		p.parser = parser.New(logger, parser.WithClock(p.now))
	}
	return p
}

// Config returns the configuration the processor was built with.
func (p *Processor) Config() *config.Config {
	return p.config
}

// ProcessExtracts extracts and parses every PDF in the bank's directory.
// Per-file failures are recorded in the result's Error field and never stop
// the batch. Results follow directory listing order.
func (p *Processor) ProcessExtracts(ctx context.Context, bankID string) ([]models.FileResult, error) {
	bank, err := models.ParseBank(bankID)
	if err != nil {
		return nil, err
	}

	logger := p.logger.With("run", uuid.NewString(), "bank", bank)
	dir := p.config.BankDir(bank)

	files, err := ListFiles(string(bank), dir)
	if err != nil {
		p.metrics.ObserveRun(string(bank), runResult(err))
		return nil, err
	}
	logger.Info("processing statements", "dir", dir, "files", len(files))

	results := make([]models.FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.config.Workers, 1))
	for i, path := range files {
		g.Go(func() error {
			results[i] = p.processFile(gctx, logger, bank, path)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		p.metrics.ObserveRun(string(bank), runResult(err))
		return nil, fmt.Errorf("processing %s statements: %w", bank, err)
	}

	p.metrics.ObserveRun(string(bank), runResult(nil))
	logger.Info("processed statements", "files", len(results))
	return results, nil
}

// BuildReport runs ProcessExtracts and aggregates the results.
func (p *Processor) BuildReport(ctx context.Context, bankID string, opts ...report.Option) (models.Report, error) {
	results, err := p.ProcessExtracts(ctx, bankID)
	if err != nil {
		return models.Report{}, err
	}
	bank, _ := models.ParseBank(bankID)
	return report.Build(bank, results, p.now(), opts...), nil
}

// ListFiles returns the PDF files directly inside dir, sorted by name.
func ListFiles(bank, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DirectoryNotFoundError{Bank: bank, Dir: dir}
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

func (p *Processor) processFile(ctx context.Context, logger *log.Logger, bank models.Bank, path string) (res models.FileResult) {
	start := time.Now()
	res = models.FileResult{
		File:         filepath.Base(path),
		Transactions: []models.RawTransaction{},
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic recovered", "file", res.File, "panic", rec)
			res.Transactions = []models.RawTransaction{}
			res.Error = fmt.Sprintf("panic: %v", rec)
		}
		p.metrics.ObserveFile(string(bank), fileStatus(res), len(res.Transactions), time.Since(start))
	}()

	text, err := p.extractWithRetry(ctx, path)
	if err != nil {
		err = &ExtractionError{File: res.File, Err: err}
		logger.Warn("failed to process file", "file", res.File, "err", err)
		res.Error = err.Error()
		return res
	}

	txs, err := p.parser.ParseText(bank, text)
	if err != nil {
		logger.Warn("failed to parse file", "file", res.File, "err", err)
		res.Error = err.Error()
		return res
	}

	if p.config.IncludeText {
		res.Text = text
	}
	res.Transactions = txs
	if len(txs) == 0 {
		logger.Warn(report.NoTransactionsHint, "file", res.File)
	} else {
		logger.Debug("processed file", "file", res.File, "transactions", len(txs))
	}
	return res
}

func (p *Processor) extractWithRetry(ctx context.Context, path string) (string, error) {
	var text string
	backoff := retry.WithMaxRetries(uint64(max(p.config.Retries, 0)), retry.NewConstant(max(p.config.RetryBackoff, time.Millisecond)))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		t, err := p.extractOnce(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			p.logger.Debug("extraction attempt failed", "file", filepath.Base(path), "err", err)
			return retry.RetryableError(err)
		}
		text = t
		return nil
	})
	return text, err
}

// extractOnce runs one extraction under the per-file timeout. Extractors
// that ignore the context are abandoned when the deadline passes.
func (p *Processor) extractOnce(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.FileTimeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("extractor panic: %v", rec)}
			}
		}()
		text, err := p.extractor.ExtractText(ctx, path)
		done <- outcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		return out.text, out.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func fileStatus(res models.FileResult) string {
	switch {
	case res.Failed():
		return metrics.StatusFailed
	case len(res.Transactions) == 0:
		return metrics.StatusEmpty
	default:
		return metrics.StatusOK
	}
}

func runResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDirectoryNotFound):
		return "dir_not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
