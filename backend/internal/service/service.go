// Package service orchestrates the LLM gateway, the relationship extractor
// and the graph repository behind the HTTP surface.
package service

import (
	"context"
	"errors"
	"fmt"

	"preference-graph/backend/internal/adapter"
	"preference-graph/backend/internal/conversation"
	"preference-graph/backend/internal/extractor"
	"preference-graph/backend/internal/graph"
	"preference-graph/backend/internal/prompt"
	"preference-graph/backend/internal/store"
	apperrors "preference-graph/backend/pkg/errors"
	"preference-graph/backend/pkg/logger"
	"go.uber.org/zap"
)

const (
	extractionMaxTokens = 500
	questionMaxTokens   = 64
	summaryMaxTokens    = 256
)

// LLMGateway is the completion surface the service depends on.
type LLMGateway interface {
	Chat(ctx context.Context, system, user string, opts adapter.Options) (string, error)
}

// FactRepository is the graph surface the service depends on.
type FactRepository interface {
	EnsureUser(ctx context.Context, uid string) error
	UpsertFacts(ctx context.Context, uid string, facts []extractor.Fact) error
	TopPreferences(ctx context.Context, uid string, k int) ([]string, error)
}

// Service implements the ingestion and read-side operations.
type Service struct {
	gateway LLMGateway
	repo    FactRepository
	store   store.ConversationStore
	logger  *zap.Logger
}

// New creates a service. The conversation store backend is chosen by the
// caller at startup.
func New(gateway LLMGateway, repo FactRepository, convStore store.ConversationStore) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		store:   convStore,
		logger:  logger.Get(),
	}
}

// IngestConversation extracts facts from the conversation, merges them into
// the graph and stores the verbatim conversation. Returns the episode id.
//
// An LLM transport failure propagates; unparseable model output degrades to
// zero facts and the conversation is still stored. A storage failure partway
// through the fact list leaves the facts written so far in place.
func (s *Service) IngestConversation(ctx context.Context, uid string, turns []conversation.Turn) (string, error) {
	system, user := prompt.Extraction(turns)
	raw, err := s.gateway.Chat(ctx, system, user, adapter.Deterministic(extractionMaxTokens))
	if err != nil {
		return "", apperrors.NewLLMUnavailable(err)
	}

	facts := extractor.Extract(raw)
	s.logger.Info("Conversation extracted",
		zap.String("uid", uid),
		zap.Int("turns", len(turns)),
		zap.Int("facts", len(facts)),
	)

	if err := s.repo.EnsureUser(ctx, uid); err != nil {
		return "", err
	}
	if err := s.repo.UpsertFacts(ctx, uid, facts); err != nil {
		return "", apperrors.NewGraphWriteFailed(err)
	}

	episodeID, err := s.store.Append(ctx, uid, turns)
	if err != nil {
		return "", apperrors.NewStoreFailed(err)
	}
	return episodeID, nil
}

// NextQuestion generates a follow-up question from the user's stored
// preferences.
func (s *Service) NextQuestion(ctx context.Context, uid string, numPreferences int) (string, error) {
	prefs, err := s.repo.TopPreferences(ctx, uid, numPreferences)
	if err != nil {
		return "", apperrors.NewGraphReadFailed(err)
	}

	system, user := prompt.NextQuestion(prefs)
	return s.gateway.Chat(ctx, system, user, adapter.Options{MaxTokens: questionMaxTokens})
}

// SummarizeRecent produces a concise summary of the user's last n
// conversations. With no stored conversations it returns an explanatory
// message rather than an error.
func (s *Service) SummarizeRecent(ctx context.Context, uid string, n int) (string, error) {
	convs, err := s.recentOrNil(ctx, uid, n)
	if err != nil {
		return "", err
	}
	if len(convs) == 0 {
		return fmt.Sprintf("No conversations found for user %s.", uid), nil
	}

	system, user := prompt.Summary(convs)
	return s.gateway.Chat(ctx, system, user, adapter.Options{MaxTokens: summaryMaxTokens})
}

// ContentSummary produces a publication-style summary over the user's last n
// conversations.
func (s *Service) ContentSummary(ctx context.Context, uid string, n int) (string, error) {
	convs, err := s.recentOrNil(ctx, uid, n)
	if err != nil {
		return "", err
	}
	if len(convs) == 0 {
		return fmt.Sprintf("No conversations found for user %s.", uid), nil
	}

	system, user := prompt.ContentSummary(convs)
	return s.gateway.Chat(ctx, system, user, adapter.Options{})
}

// RecentPreferences re-derives preferences by re-running extraction over the
// user's last n stored conversations. This is deliberately a different path
// from NextQuestion's graph read: results may differ from previously
// persisted edges if prompts changed since ingestion.
func (s *Service) RecentPreferences(ctx context.Context, uid string, n int) ([]string, error) {
	convs, err := s.recentOrNil(ctx, uid, n)
	if err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return []string{}, nil
	}

	system, user := prompt.Preferences(convs)
	raw, err := s.gateway.Chat(ctx, system, user, adapter.Deterministic(0))
	if err != nil {
		return nil, apperrors.NewLLMUnavailable(err)
	}

	prefs := extractor.ParseStringArray(raw)
	if prefs == nil {
		prefs = []string{}
	}
	return prefs, nil
}

// RecentConversations returns the user's last n verbatim conversations,
// newest first. Zero stored conversations is graph.ErrNoConversations.
func (s *Service) RecentConversations(ctx context.Context, uid string, n int) ([]conversation.Conversation, error) {
	return s.store.Recent(ctx, uid, n)
}

// recentOrNil fetches recent conversations, mapping the not-found case to an
// empty slice for operations that treat missing data as a message, not an
// error.
func (s *Service) recentOrNil(ctx context.Context, uid string, n int) ([]conversation.Conversation, error) {
	convs, err := s.store.Recent(ctx, uid, n)
	if err != nil {
		var notFound graph.ErrNoConversations
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return convs, nil
}
