// Package auth はOAuth認証フロー、セッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/minuteman/internal/model"
	"github.com/hitoshi/minuteman/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
	Provider       string // "google", "github" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
// セッションの発行・解決・失効はすべてこのサービスを経由し、
// 生トークンがリポジトリ層へ渡ることはない。
type Service struct {
	oauth       OAuthProvider
	userRepo    repository.UserRepository
	identRepo   repository.IdentityRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	userRepo repository.UserRepository,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		userRepo:    userRepo,
		identRepo:   identRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
// 未登録ユーザーの場合はusersレコードとidentitiesレコードを同時に自動作成する。
// 登録済みユーザーの場合はidentitiesテーブルで既存ユーザーを特定しログインする。
// 戻り値の生トークンはこの呼び出しでのみ取得でき、以降は復元できない。
func (s *Service) HandleCallback(ctx context.Context, code string) (string, *model.Session, error) {
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	identity, err := s.identRepo.FindByProviderAndProviderUserID(ctx, userInfo.Provider, userInfo.ProviderUserID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find identity: %w", err)
	}

	var userID string

	if identity != nil {
		userID = identity.UserID
		slog.Info("existing user logged in",
			slog.String("user_id", userID),
			slog.String("provider", userInfo.Provider),
		)
	} else {
		newUserID := uuid.New().String()
		newIdentityID := uuid.New().String()
		now := time.Now()

		newUser := &model.User{
			ID:        newUserID,
			Email:     userInfo.Email,
			Name:      userInfo.Name,
			AvatarURL: userInfo.AvatarURL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		newIdentity := &model.Identity{
			ID:             newIdentityID,
			UserID:         newUserID,
			Provider:       userInfo.Provider,
			ProviderUserID: userInfo.ProviderUserID,
			CreatedAt:      now,
		}

		if err := s.userRepo.CreateWithIdentity(ctx, newUser, newIdentity); err != nil {
			return "", nil, fmt.Errorf("failed to create user and identity: %w", err)
		}

		userID = newUserID
		slog.Info("new user created",
			slog.String("user_id", userID),
			slog.String("email", userInfo.Email),
			slog.String("provider", userInfo.Provider),
		)
	}

	rawToken, session, err := s.IssueSession(ctx, userID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return rawToken, session, nil
}

// IssueSession は新しいセッションを発行する。
// 生トークンを生成し、そのSHA-256ハッシュのみを永続化する。
// 生トークンは戻り値として一度だけ返され、ストレージから復元することはできない。
// 同一ユーザーへの並行発行は互いに独立した個別に失効可能なセッションを生む。
func (s *Service) IssueSession(ctx context.Context, userID string) (string, *model.Session, error) {
	rawToken, err := generateToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}

	return rawToken, session, nil
}

// ResolveSession は提示されたトークンをセッションに解決する。
// 未発行・期限切れ・失効済みのいずれの場合も同一のUNAUTHORIZEDを返し、
// トークン総当たりの助けになる情報を漏らさない。
// リポジトリ障害は分類済みエラーにせず、そのまま上位へ伝播する。
func (s *Service) ResolveSession(ctx context.Context, rawToken string) (*model.Session, error) {
	if rawToken == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	// リポジトリは読み取り時に期限を検査するが、スイープや実装差に
	// 依存しないよう、ここでも期限を検査する。
	if !time.Now().Before(session.ExpiresAt) {
		return nil, model.NewUnauthorizedError()
	}

	return session, nil
}

// RevokeSession はセッションを失効させる。
// 既に存在しないセッションIDに対しても正常終了する（冪等）。
func (s *Service) RevokeSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("session revoked", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はトークンから現在のユーザーを取得する。
// セッションが有効でもユーザーが存在しない場合はUNAUTHORIZEDを返す。
func (s *Service) GetCurrentUser(ctx context.Context, rawToken string) (*model.User, error) {
	session, err := s.ResolveSession(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// Withdraw はユーザーを退会させる。
// 全セッションを失効させた上でユーザーを削除し、
// identities・notes・action_itemsはCASCADE削除される。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user withdrawn", slog.String("user_id", userID))
	return nil
}
