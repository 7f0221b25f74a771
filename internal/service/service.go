package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ghulammurtaza27/debugmaster/internal/assembler"
	"github.com/ghulammurtaza27/debugmaster/internal/github"
	"github.com/ghulammurtaza27/debugmaster/internal/graph"
	"github.com/ghulammurtaza27/debugmaster/internal/ingestion"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// IssueResolver fetches a defect report by number
type IssueResolver interface {
	FetchIssue(ctx context.Context, ref github.RepositoryRef, number int) (*models.Issue, error)
}

// Service is the facade exposed to external callers: repository analysis,
// graph snapshots, and per-defect context assembly. Analysis is
// single-flight per process; a second invocation while one is running is
// rejected rather than queued.
type Service struct {
	analyzer    *ingestion.Analyzer
	graph       *graph.Service
	assembler   *assembler.Assembler
	issues      IssueResolver
	logger      *logrus.Logger
	isAnalyzing atomic.Bool
}

// New creates the service facade
func New(analyzer *ingestion.Analyzer, graphSvc *graph.Service, asm *assembler.Assembler, issues IssueResolver, logger *logrus.Logger) *Service {
	return &Service{
		analyzer:  analyzer,
		graph:     graphSvc,
		assembler: asm,
		issues:    issues,
		logger:    logger,
	}
}

// AnalyzeRepository runs a full repository analysis
func (s *Service) AnalyzeRepository(ctx context.Context, ref github.RepositoryRef) (*models.AnalysisResult, error) {
	if !s.isAnalyzing.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("analysis already in progress")
	}
	defer s.isAnalyzing.Store(false)

	return s.analyzer.AnalyzeRepository(ctx, ref)
}

// GraphSnapshot returns the read-only projection of current graph state
func (s *Service) GraphSnapshot(ctx context.Context) (*models.GraphSnapshot, error) {
	return s.graph.Snapshot(ctx, s.isAnalyzing.Load())
}

// BuildContext resolves a defect report by issue number and assembles its
// context bundle. Issue resolution failure still produces a fallback
// bundle; this method never returns a nil bundle.
func (s *Service) BuildContext(ctx context.Context, ref github.RepositoryRef, issueNumber int) *models.ContextBundle {
	issue, err := s.issues.FetchIssue(ctx, ref, issueNumber)
	if err != nil {
		s.logger.WithError(err).WithField("issue", issueNumber).Warn("issue resolution failed")
		return assembler.BuildFallback(&models.Issue{
			Number: issueNumber,
			Owner:  ref.Owner,
			Repo:   ref.Name,
			Title:  fmt.Sprintf("Issue #%d", issueNumber),
		}, err)
	}

	return s.assembler.BuildContext(ctx, ref, issue)
}

// Degraded reports whether the graph index is unavailable
func (s *Service) Degraded() bool {
	return s.graph.Degraded()
}
