// Package analyze runs a complete scan: discovery, per-file extraction and
// scoring on a bounded worker pool, then ranking.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/cxscan/internal/config"
	"github.com/phobologic/cxscan/internal/discover"
	"github.com/phobologic/cxscan/internal/extract"
	"github.com/phobologic/cxscan/internal/lang"
	"github.com/phobologic/cxscan/internal/metrics"
	"github.com/phobologic/cxscan/internal/model"
	"github.com/phobologic/cxscan/internal/ranking"
	"github.com/phobologic/cxscan/internal/telemetry"
)

var (
	// ErrInvalidRoot is returned when the scan root is missing, is not a
	// directory or cannot be read.
	ErrInvalidRoot = errors.New("invalid root")
	// ErrFileTooLarge marks a file skipped for exceeding scan.max_file_size.
	ErrFileTooLarge = errors.New("file too large")
)

// cacheKey identifies one version of one file.
type cacheKey struct {
	path string
	sum  uint64
}

// Analyzer scans directory trees. It is safe for concurrent use; the result
// cache is shared between scans.
type Analyzer struct {
	cfg         *config.Config
	logger      *slog.Logger
	inst        *telemetry.Instruments
	cache       *lru.Cache[cacheKey, []model.RankedRecord]
	extractOpts extract.Options
	metricOpts  metrics.Options
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithInstruments sets the metric instruments. The default records nothing.
func WithInstruments(inst *telemetry.Instruments) Option {
	return func(a *Analyzer) { a.inst = inst }
}

// New creates an Analyzer. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := metrics.ParseCognitiveMode(cfg.Metrics.CognitiveMode)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:         cfg,
		logger:      slog.New(slog.DiscardHandler),
		extractOpts: extract.Options{IndentBodies: cfg.Scan.IndentBodies},
		metricOpts:  metrics.Options{Cognitive: mode},
	}
	for _, opt := range opts {
		opt(a)
	}

	if cfg.Scan.CacheSize > 0 {
		cache, err := lru.New[cacheKey, []model.RankedRecord](cfg.Scan.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating result cache: %w", err)
		}
		a.cache = cache
	}
	return a, nil
}

// Analyze scans root and returns the ranked report. baseURL prefixes the
// permalink of every record and may be empty. Per-file failures are reported
// in the result; only an invalid root or cancellation of ctx fail the scan.
func (a *Analyzer) Analyze(ctx context.Context, root, baseURL string) (*model.Report, error) {
	start := time.Now()

	abs, err := checkRoot(root)
	if err != nil {
		return nil, err
	}

	files, err := discover.Files(abs, discover.Options{
		Languages: a.cfg.Scan.Languages,
		Exclude:   a.cfg.Scan.Exclude,
		Gitignore: a.cfg.Scan.Gitignore,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	a.logger.Debug("discovered files", "root", abs, "count", len(files))

	results := make([]model.FileResult, len(files))

	workers := a.cfg.Scan.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			results[i] = a.analyzeFile(ctx, abs, f, baseURL)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	report := a.merge(ctx, abs, results)

	elapsed := time.Since(start)
	a.inst.ScanFinished(ctx, elapsed)
	a.logger.Info("scan complete",
		"root", abs,
		"files", report.FilesScanned,
		"analyzed", report.FilesAnalyzed,
		"failed", len(report.Failures),
		"functions", report.UnitsFound,
		"languages", strings.Join(report.Languages, ","),
		"duration", elapsed,
	)
	return report, nil
}

// merge folds per-file results, in discovery order, into a ranked report.
func (a *Analyzer) merge(ctx context.Context, root string, results []model.FileResult) *model.Report {
	report := &model.Report{Root: root, FilesScanned: len(results)}

	var all []model.RankedRecord
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Err != nil {
			a.logger.Warn("skipping file", "path", r.Path, "error", r.Err)
			a.inst.FileFailed(ctx, r.Language, failureReason(r.Err))
			report.Failures = append(report.Failures, model.Failure{Path: r.Path, Reason: r.Err.Error()})
			continue
		}
		a.inst.FileScanned(ctx, r.Language, len(r.Records))
		report.FilesAnalyzed++
		report.UnitsFound += len(r.Records)
		seen[r.Language] = struct{}{}
		all = append(all, r.Records...)
	}

	report.Languages = make([]string, 0, len(seen))
	for name := range seen {
		report.Languages = append(report.Languages, name)
	}
	slices.Sort(report.Languages)

	report.Functions = ranking.Rank(all, a.cfg.Scan.Limit)
	if report.Functions == nil {
		report.Functions = []model.RankedRecord{}
	}
	return report
}

// analyzeFile reads, extracts and scores one file within its time budget.
func (a *Analyzer) analyzeFile(ctx context.Context, root string, f discover.FileEntry, baseURL string) model.FileResult {
	res := model.FileResult{Path: filepath.ToSlash(f.Path), Language: f.Language}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Scan.FileTimeout)
	defer cancel()

	records, err := a.scoreFile(ctx, filepath.Join(root, f.Path), f.Language)
	if err != nil {
		res.Err = err
		return res
	}

	res.Records = make([]model.RankedRecord, len(records))
	for i, r := range records {
		ranking.Decorate(&r, root, f.Path, baseURL)
		res.Records[i] = r
	}
	return res
}

// scoreFile returns the undecorated records for the file at path, from the
// cache when its content is unchanged.
func (a *Analyzer) scoreFile(ctx context.Context, path, language string) ([]model.RankedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if info.Size() > a.cfg.Scan.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), a.cfg.Scan.MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}

	key := cacheKey{path: path, sum: xxhash.Sum64(data)}
	if a.cache != nil {
		if cached, ok := a.cache.Get(key); ok {
			a.logger.Debug("cache hit", "path", path)
			return cached, nil
		}
	}

	p, ok := lang.Get(language)
	if !ok {
		return nil, fmt.Errorf("no profile for language %q", language)
	}

	content := strings.ToValidUTF8(string(data), "\uFFFD")
	var records []model.RankedRecord
	for u := range extract.Functions(content, p, a.extractOpts) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, model.RankedRecord{
			FunctionName: u.Name,
			StartLine:    u.StartLine,
			EndLine:      u.EndLine,
			Language:     language,
			RuleAnalysis: metrics.Calculate(u, p, a.metricOpts),
			ClassName:    u.Class,
			Fingerprint:  Fingerprint(u),
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if a.cache != nil {
		a.cache.Add(key, records)
	}
	return records, nil
}

// Fingerprint hashes a unit's language, name and body. It is stable when the
// unit moves within or between files.
func Fingerprint(u model.FunctionUnit) string {
	d := xxhash.New()
	_, _ = d.WriteString(u.Language)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(u.Name)
	for _, line := range u.Lines {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(line)
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func checkRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s: not a directory", ErrInvalidRoot, abs)
	}
	d, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	defer d.Close()
	if _, err := d.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, abs, err)
	}
	return abs, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "io"
	}
}
