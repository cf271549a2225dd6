package service

import (
	"errors"
	"strings"

	"chatforge/pkg/auth"
	"chatforge/pkg/config"

	"go.uber.org/zap"
)

var ErrUnauthorized = errors.New("unauthorized")

// CallerKind classifies who is allowed to start a chat turn.
type CallerKind string

const (
	CallerDashboard CallerKind = "dashboard"
	CallerWidget    CallerKind = "widget"
	CallerChannel   CallerKind = "channel"
)

// AccessRequest carries the raw trust signals of an inbound request.
type AccessRequest struct {
	Authorization string
	APIKey        string
	ClientInfo    string
	Origin        string
	Referer       string
	Source        string
}

// AccessService decides whether a request may run the chat pipeline.
// Authorize has no side effects; it only inspects the request.
type AccessService struct {
	jwtManager    *auth.JWTManager
	publicAnonKey string
	widgetMarkers []string
	channelTags   []string
	logger        *zap.Logger
}

func NewAccessService(jwtManager *auth.JWTManager, cfg *config.AccessConfig, logger *zap.Logger) *AccessService {
	return &AccessService{
		jwtManager:    jwtManager,
		publicAnonKey: cfg.PublicAnonKey,
		widgetMarkers: cfg.WidgetMarkers,
		channelTags:   cfg.ChannelTags,
		logger:        logger,
	}
}

// Authorize applies three sufficient rules in order: a valid bearer token
// (dashboard), a recognized widget marker or the public anonymous key
// (widget), or a trusted channel source tag (channel). Anything else is
// rejected before retrieval, completion, or persistence can run.
func (s *AccessService) Authorize(req AccessRequest) (CallerKind, error) {
	if token := bearerToken(req.Authorization); token != "" {
		if _, err := s.jwtManager.ValidateToken(token); err == nil {
			return CallerDashboard, nil
		}
	}

	if s.isWidgetCall(req) {
		return CallerWidget, nil
	}

	for _, tag := range s.channelTags {
		if req.Source == tag {
			return CallerChannel, nil
		}
	}

	s.logger.Warn("Rejected unauthorized chat request", zap.String("source", req.Source))
	return "", ErrUnauthorized
}

func (s *AccessService) isWidgetCall(req AccessRequest) bool {
	if s.publicAnonKey != "" && req.APIKey == s.publicAnonKey {
		return true
	}
	for _, marker := range s.widgetMarkers {
		if strings.Contains(req.ClientInfo, marker) ||
			strings.Contains(req.Origin, marker) ||
			strings.Contains(req.Referer, marker) {
			return true
		}
	}
	return false
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
