package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidRole        = errors.New("invalid role")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// パスワードの最低文字数
const minPasswordLength = 6

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 会員登録の入力。Roleは省略可（省略時はUSER）。
type RegisterUserInput struct {
	Email    string
	Password string
	Role     string
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	idGen    IDGenerator
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	idGen IDGenerator,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		idGen:    idGen,
		clock:    clock,
	}
}

// 会員登録実行。作成したユーザーを返す（パスワードは落とす）。
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	// emailの形式チェック
	if !isValidEmailFormat(in.Email) {
		return nil, ErrInvalidEmailFormat
	}

	// passwordの長さチェック
	if len(in.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// role（省略時はUSER）
	role := model.RoleUser
	if in.Role != "" {
		role = model.Role(in.Role)
		if !role.IsValid() {
			return nil, ErrInvalidRole
		}
	}

	// email重複チェック（保存時の一意制約でも拾う）
	existing, err := u.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	user := &model.User{
		ID:        u.idGen.NewID(),
		Email:     in.Email,
		Password:  hashed, // ハッシュを保存（平文は保存しない）
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// DBへ保存。事前チェックをすり抜けた同時登録は一意制約で弾かれる。
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	// 返すときはpasswordを空にして漏洩防止
	safeUser := *user
	safeUser.Password = ""
	return &safeUser, nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}
