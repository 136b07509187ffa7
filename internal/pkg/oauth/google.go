package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/metrics"
)

const (
	DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	breakerName         = "google-tokeninfo"
)

var (
	ErrInvalidIDToken    = errors.New("invalid google token")
	ErrAudienceMismatch  = errors.New("google token was issued for another client")
	ErrEmailUnverified   = errors.New("google email is not verified")
	ErrGoogleUnavailable = errors.New("google verification is temporarily unavailable")
)

// GoogleUser id_token 中解析出的用户信息
type GoogleUser struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
	GivenName     string
	FamilyName    string
	Picture       string
}

// tokenInfo tokeninfo 接口返回，数值与布尔值均为字符串
type tokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Exp           string `json:"exp"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

type GoogleOAuth struct {
	config       *oauth2.Config
	clientIDs    []string
	tokenInfoURL string
	httpClient   *http.Client
	cb           *gobreaker.CircuitBreaker[*tokenInfo]
}

// NewGoogleOAuth clientIDs 的第一个用于授权码流程，全部用于校验 aud
func NewGoogleOAuth(clientIDs []string, clientSecret, redirectURI, tokenInfoURL string) *GoogleOAuth {
	if tokenInfoURL == "" {
		tokenInfoURL = DefaultTokenInfoURL
	}
	var primary string
	if len(clientIDs) > 0 {
		primary = clientIDs[0]
	}

	metrics.RecordBreakerState(breakerName, 0)

	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     primary,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		clientIDs:    clientIDs,
		tokenInfoURL: tokenInfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		cb: gobreaker.NewCircuitBreaker[*tokenInfo](gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: 2,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// 令牌本身无效不算故障，只有上游异常才计入
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrInvalidIDToken)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
					Msg("circuit breaker state changed")
				metrics.RecordBreakerState(name, float64(to))
			},
		}),
	}
}

// Configured 是否配置了 Google 登录
func (g *GoogleOAuth) Configured() bool {
	return len(g.clientIDs) > 0
}

// GetAuthURL 获取 Google 授权 URL
func (g *GoogleOAuth) GetAuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ExchangeIDToken 用授权码换取 token，并返回其中的 id_token
func (g *GoogleOAuth) ExchangeIDToken(ctx context.Context, code string) (string, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", ErrInvalidIDToken
	}
	return idToken, nil
}

// VerifyIDToken 通过 tokeninfo 接口校验 id_token
func (g *GoogleOAuth) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUser, error) {
	if idToken == "" {
		return nil, ErrInvalidIDToken
	}

	info, err := g.cb.Execute(func() (*tokenInfo, error) {
		return g.fetchTokenInfo(ctx, idToken)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerRequest(breakerName, "rejected")
			return nil, ErrGoogleUnavailable
		}
		metrics.RecordBreakerRequest(breakerName, "failure")
		return nil, err
	}
	metrics.RecordBreakerRequest(breakerName, "success")

	if !g.audienceAllowed(info.Aud) {
		return nil, ErrAudienceMismatch
	}
	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err == nil && time.Unix(exp, 0).Before(time.Now()) {
		return nil, ErrInvalidIDToken
	}
	if info.Email == "" {
		return nil, ErrInvalidIDToken
	}
	if info.EmailVerified != "true" {
		return nil, ErrEmailUnverified
	}

	return &GoogleUser{
		Sub:           info.Sub,
		Email:         info.Email,
		EmailVerified: true,
		Name:          info.Name,
		GivenName:     info.GivenName,
		FamilyName:    info.FamilyName,
		Picture:       info.Picture,
	}, nil
}

func (g *GoogleOAuth) fetchTokenInfo(ctx context.Context, idToken string) (*tokenInfo, error) {
	reqURL := g.tokenInfoURL + "?" + url.Values{"id_token": {idToken}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrInvalidIDToken
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tokeninfo error %d: %s", resp.StatusCode, string(body))
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo: %w", err)
	}
	return &info, nil
}

func (g *GoogleOAuth) audienceAllowed(aud string) bool {
	for _, id := range g.clientIDs {
		if id == aud {
			return true
		}
	}
	return false
}
