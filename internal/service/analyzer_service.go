package service

import (
	"context"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/study/analyzer"
)

type IAnalyzerService interface {
	AnalyzePage(ctx context.Context, req *dto.AnalyzePageRequest) (*dto.AnalyzePageResponse, error)
	SuggestRewrite(ctx context.Context, req *dto.RewriteRequest) (*dto.RewriteResponse, error)
}

type analyzerService struct {
	analyzer *analyzer.Analyzer
	logger   logger.ILogger
}

func NewAnalyzerService(a *analyzer.Analyzer, log logger.ILogger) IAnalyzerService {
	return &analyzerService{analyzer: a, logger: log}
}

func (s *analyzerService) AnalyzePage(ctx context.Context, req *dto.AnalyzePageRequest) (*dto.AnalyzePageResponse, error) {
	analysis := s.analyzer.AnalyzePage(ctx, req.Text)
	return &dto.AnalyzePageResponse{
		HasRedFlags: analysis.HasRedFlags,
		Questions:   analysis.Questions,
	}, nil
}

func (s *analyzerService) SuggestRewrite(ctx context.Context, req *dto.RewriteRequest) (*dto.RewriteResponse, error) {
	suggestion := s.analyzer.SuggestRewrite(ctx, req.Text)
	return &dto.RewriteResponse{Suggestion: suggestion}, nil
}
