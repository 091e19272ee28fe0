// Package session ties the pipeline together over one budget
// directory: parse, merge, categorize, persist, aggregate.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/budgetdash-dev/budgetdash/internal/auditlog"
	"github.com/budgetdash-dev/budgetdash/internal/config"
	"github.com/budgetdash-dev/budgetdash/internal/dataset"
	"github.com/budgetdash-dev/budgetdash/internal/gitops"
	"github.com/budgetdash-dev/budgetdash/internal/importer"
	"github.com/budgetdash-dev/budgetdash/internal/model"
	"github.com/budgetdash-dev/budgetdash/internal/report"
	"github.com/budgetdash-dev/budgetdash/internal/rules"
	"github.com/budgetdash-dev/budgetdash/internal/snapshot"
)

// Service owns the in-memory dataset for one budget directory. All
// pipeline passes are synchronous; the dataset is only ever touched by
// the call that owns the Service.
type Service struct {
	root     string
	cfg      *config.Config
	table    *rules.Table
	registry *importer.Registry
	ds       *dataset.Dataset
}

// Open loads a budget directory: its configuration, rule table, and
// current snapshot (an absent snapshot starts an empty dataset). The
// rule table is loaded once; it stays fixed for the life of the
// Service.
func Open(root string) (*Service, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a budget directory (missing %s)", root, config.FileName)
		}
		return nil, err
	}

	table, err := rules.Load(filepath.Join(root, cfg.Categorizer.RulesFile))
	if errors.Is(err, fs.ErrNotExist) {
		table = rules.Default()
	} else if err != nil {
		return nil, err
	}
	if cfg.Categorizer.Fallback != "" && cfg.Categorizer.Fallback != table.Fallback() {
		table = rules.NewTable(table.Rules(), cfg.Categorizer.Fallback)
	}

	txns, _, err := snapshot.LoadFile(filepath.Join(root, cfg.Snapshot.File))
	if err != nil {
		return nil, err
	}
	ds, err := dataset.FromTransactions(txns)
	if err != nil {
		return nil, &snapshot.Error{Reason: "inconsistent snapshot", Err: err}
	}

	return &Service{
		root:     root,
		cfg:      cfg,
		table:    table,
		registry: importer.DefaultRegistry(),
		ds:       ds,
	}, nil
}

// Config returns the loaded configuration.
func (s *Service) Config() *config.Config { return s.cfg }

// Rules returns the active rule table.
func (s *Service) Rules() *rules.Table { return s.table }

// Registry returns the parser registry used by ingest passes.
func (s *Service) Registry() *importer.Registry { return s.registry }

// Transactions returns the dataset in chronological order.
func (s *Service) Transactions() []model.Transaction { return s.ds.All() }

// Len returns the dataset size.
func (s *Service) Len() int { return s.ds.Len() }

// FileIngest is the per-file outcome of an ingest pass.
type FileIngest struct {
	Name     string
	Format   string
	Stats    dataset.MergeStats
	Rejected []error
}

// IngestResult reports an ingest pass: which files merged, which
// failed, and what changed.
type IngestResult struct {
	Files       []FileIngest
	ParseErrors []*importer.ParseError
}

// Ingest parses the batch and merges every successfully parsed file
// into the dataset. Files are isolated: parse failures are reported in
// the result, never abort the pass, and never touch the dataset.
func (s *Service) Ingest(files []importer.File) (*IngestResult, error) {
	parsed, perrs := s.registry.Ingest(files)

	res := &IngestResult{ParseErrors: perrs}
	var entries []auditlog.Entry
	now := time.Now().UTC()

	for _, p := range parsed {
		stats := s.ds.Merge(p.Statement, s.table)
		res.Files = append(res.Files, FileIngest{
			Name:     p.Name,
			Format:   p.Format,
			Stats:    stats,
			Rejected: p.Statement.Rejected,
		})
		entries = append(entries, auditlog.Entry{
			Timestamp: now,
			Action:    auditlog.ActionIngest,
			File:      p.Name,
			Details: fmt.Sprintf("%d added, %d refreshed, %d kept, %d rejected",
				stats.Added, stats.Refreshed, stats.Kept, len(p.Statement.Rejected)),
		})
	}

	if len(entries) > 0 {
		if err := auditlog.Append(s.root, entries); err != nil {
			return res, err
		}
	}
	return res, nil
}

// SetCategory records a manual category override.
func (s *Service) SetCategory(id, category string) error {
	if err := s.ds.SetCategory(id, category); err != nil {
		return err
	}
	return auditlog.Append(s.root, []auditlog.Entry{{
		Timestamp: time.Now().UTC(),
		Action:    auditlog.ActionSetCategory,
		TxnID:     id,
		Details:   category,
	}})
}

// Get returns one transaction by ID.
func (s *Service) Get(id string) (model.Transaction, bool) {
	return s.ds.Get(id)
}

// Save persists the dataset to the configured snapshot file and, when
// git auto-commit is on and the directory is a repository, commits the
// change. Returns the commit hash ("" when no commit was made).
func (s *Service) Save() (string, error) {
	path := filepath.Join(s.root, s.cfg.Snapshot.File)
	if err := snapshot.SaveFile(path, s.ds.All()); err != nil {
		return "", err
	}

	hash := ""
	if s.cfg.Git.AutoCommit && gitops.IsRepo(s.root) {
		var err error
		hash, err = gitops.Commit(s.root,
			fmt.Sprintf("snapshot: %d transactions", s.ds.Len()),
			gitops.Author{Name: s.cfg.Git.AuthorName, Email: s.cfg.Git.AuthorEmail})
		if err != nil {
			return "", fmt.Errorf("committing snapshot: %w", err)
		}
	}

	if err := auditlog.Append(s.root, []auditlog.Entry{{
		Timestamp:  time.Now().UTC(),
		Action:     auditlog.ActionSnapshot,
		File:       s.cfg.Snapshot.File,
		Details:    fmt.Sprintf("%d transactions", s.ds.Len()),
		CommitHash: hash,
	}}); err != nil {
		return hash, err
	}
	return hash, nil
}

// Aggregate computes the summary for a date range.
func (s *Service) Aggregate(rng report.Range) report.Summary {
	return report.Build(s.ds.All(), rng)
}
