package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/jwt"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/oauth"
	"github.com/qs3c/gym_go_server/internal/pkg/oss"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrEmailExists         = errors.New("A user with this email already exists")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrNotGymOwner         = errors.New("User is not a gym owner")
	ErrGymInactive         = errors.New("Gym account is inactive")
	ErrUserNotFound        = errors.New("User not found")
	ErrWrongPassword       = errors.New("Current password is incorrect")
	ErrGoogleNotConfigured = errors.New("Google login is not configured")
	ErrGoogleTokenInvalid  = errors.New("Invalid Google token")
	ErrGoogleUnavailable   = errors.New("Google verification is temporarily unavailable")
	ErrInvalidOAuthState   = errors.New("Invalid or expired OAuth state")
)

const qrCheckInPath = "/api/v1/attendance/qr-checkin/"

type AuthService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	gymRepo     *repository.GymOwnerRepository
	cfg         *config.Config
	googleOAuth *oauth.GoogleOAuth
	states      *oauth.StateStore
	pictures    *pictureStore
}

func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	gymRepo *repository.GymOwnerRepository,
	cfg *config.Config,
	states *oauth.StateStore,
	uploader oss.Uploader,
) *AuthService {
	return &AuthService{
		db:       db,
		userRepo: userRepo,
		gymRepo:  gymRepo,
		cfg:      cfg,
		googleOAuth: oauth.NewGoogleOAuth(
			cfg.OAuth.Google.ClientIDs,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.RedirectURI,
			cfg.OAuth.Google.TokenInfoURL,
		),
		states:   states,
		pictures: newPictureStore(uploader, cfg.Upload),
	}
}

// Register 注册账号并创建健身房
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	established, err := parseOptionalDate(req.GymEstablishedDate)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	passwordStr := string(hashedPassword)

	plan := req.SubscriptionPlan
	if plan == "" {
		plan = "basic"
	}

	var owner *model.GymOwner
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		exists, err := users.ExistsByEmail(email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}

		user := &model.User{
			Email:        email,
			PasswordHash: &passwordStr,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		}
		if err := users.Create(user); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrEmailExists
			}
			return err
		}

		owner = &model.GymOwner{
			UserID:             user.ID,
			GymName:            req.GymName,
			GymAddress:         req.GymAddress,
			GymDescription:     req.GymDescription,
			PhoneNumber:        req.PhoneNumber,
			GymEstablishedDate: established,
			SubscriptionPlan:   plan,
			IsActive:           true,
			QRCodeToken:        uuid.New().String(),
		}
		if err := s.gymRepo.WithTx(tx).Create(owner); err != nil {
			return err
		}
		owner.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info().Int64("gym_owner_id", owner.ID).Str("gym_name", owner.GymName).Msg("gym owner registered")
	return s.issueToken(owner, false)
}

// Login 邮箱密码登录，只允许健身房账号
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		return nil, notFound(err, ErrInvalidCredentials)
	}

	// 验证密码
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	owner, err := s.gymRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, notFound(err, ErrNotGymOwner)
	}
	if !owner.IsActive {
		return nil, ErrGymInactive
	}

	return s.issueToken(owner, false)
}

// GoogleLogin 使用客户端拿到的 id_token 登录，首次登录自动创建健身房
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*dto.LoginResponse, error) {
	if !s.googleOAuth.Configured() {
		return nil, ErrGoogleNotConfigured
	}

	googleUser, err := s.googleOAuth.VerifyIDToken(ctx, idToken)
	if err != nil {
		switch {
		case errors.Is(err, oauth.ErrGoogleUnavailable):
			return nil, ErrGoogleUnavailable
		case errors.Is(err, oauth.ErrInvalidIDToken),
			errors.Is(err, oauth.ErrAudienceMismatch),
			errors.Is(err, oauth.ErrEmailUnverified):
			return nil, ErrGoogleTokenInvalid
		default:
			logging.Ctx(ctx).Warn().Err(err).Msg("google token verification failed")
			return nil, ErrGoogleUnavailable
		}
	}

	return s.loginGoogleUser(googleUser)
}

// GoogleAuthURL 授权码流程：生成跳转地址，state 存入 Redis
func (s *AuthService) GoogleAuthURL(ctx context.Context) (*dto.GoogleURLResponse, error) {
	if !s.googleOAuth.Configured() || s.states == nil {
		return nil, ErrGoogleNotConfigured
	}

	state, err := s.states.GenerateState(ctx, "google", s.cfg.OAuth.Google.RedirectURI)
	if err != nil {
		return nil, err
	}

	return &dto.GoogleURLResponse{
		URL:   s.googleOAuth.GetAuthURL(state),
		State: state,
	}, nil
}

// GoogleCallback 授权码流程回调
func (s *AuthService) GoogleCallback(ctx context.Context, code, state string) (*dto.LoginResponse, error) {
	if !s.googleOAuth.Configured() || s.states == nil {
		return nil, ErrGoogleNotConfigured
	}

	if _, err := s.states.ValidateState(ctx, state); err != nil {
		if errors.Is(err, oauth.ErrEmptyState) || errors.Is(err, oauth.ErrInvalidState) {
			return nil, ErrInvalidOAuthState
		}
		return nil, err
	}

	idToken, err := s.googleOAuth.ExchangeIDToken(ctx, code)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("google code exchange failed")
		return nil, ErrGoogleTokenInvalid
	}

	return s.GoogleLogin(ctx, idToken)
}

func (s *AuthService) loginGoogleUser(googleUser *oauth.GoogleUser) (*dto.LoginResponse, error) {
	email := normalizeEmail(googleUser.Email)
	created := false

	var owner *model.GymOwner
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		gyms := s.gymRepo.WithTx(tx)

		user, err := users.GetByGoogleID(googleUser.Sub)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user, err = users.GetByEmail(email)
			if err == nil {
				// 已有邮箱账号，绑定 Google ID
				googleID := googleUser.Sub
				if err := users.UpdateFields(user.ID, map[string]interface{}{"google_id": googleID}); err != nil {
					return err
				}
				user.GoogleID = &googleID
			}
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			googleID := googleUser.Sub
			firstName, lastName := googleUser.GivenName, googleUser.FamilyName
			if firstName == "" {
				firstName = strings.Split(email, "@")[0]
			}
			user = &model.User{
				Email:     email,
				FirstName: firstName,
				LastName:  lastName,
				GoogleID:  &googleID,
			}
			err = users.Create(user)
		}
		if err != nil {
			return err
		}

		owner, err = gyms.GetByUserID(user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			owner = &model.GymOwner{
				UserID:           user.ID,
				GymName:          user.FirstName + "'s Gym",
				SubscriptionPlan: "basic",
				IsActive:         true,
				QRCodeToken:      uuid.New().String(),
			}
			if err := gyms.Create(owner); err != nil {
				return err
			}
			created = true
		} else if err != nil {
			return err
		}
		owner.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !owner.IsActive {
		return nil, ErrGymInactive
	}
	if created {
		logging.Info().Int64("gym_owner_id", owner.ID).Msg("gym owner created via google login")
	}
	return s.issueToken(owner, created)
}

// GetGymOwnerByUserID 中间件据此解析当前租户
func (s *AuthService) GetGymOwnerByUserID(userID int64) (*model.GymOwner, error) {
	owner, err := s.gymRepo.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, ErrNotGymOwner)
	}
	return owner, nil
}

// GetProfile 获取当前健身房资料
func (s *AuthService) GetProfile(gymOwnerID int64) (*dto.GymOwnerInfo, error) {
	owner, err := s.gymRepo.GetByID(gymOwnerID)
	if err != nil {
		return nil, notFound(err, ErrNotGymOwner)
	}
	return s.buildGymOwnerInfo(owner), nil
}

// UpdateProfile 更新账号与健身房资料
func (s *AuthService) UpdateProfile(gymOwnerID int64, req *dto.UpdateProfileRequest) (*dto.GymOwnerInfo, error) {
	owner, err := s.gymRepo.GetByID(gymOwnerID)
	if err != nil {
		return nil, notFound(err, ErrNotGymOwner)
	}

	fields := map[string]interface{}{}
	if req.GymName != nil {
		fields["gym_name"] = *req.GymName
	}
	if req.GymAddress != nil {
		fields["gym_address"] = *req.GymAddress
	}
	if req.GymDescription != nil {
		fields["gym_description"] = *req.GymDescription
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
	}
	if req.GymEstablishedDate != nil {
		established, err := parseOptionalDate(*req.GymEstablishedDate)
		if err != nil {
			return nil, err
		}
		fields["gym_established_date"] = established
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := updateAccount(tx, owner.User, req.Email, req.FirstName, req.LastName); err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return s.gymRepo.WithTx(tx).UpdateFields(owner.ID, fields)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile(gymOwnerID)
}

// ChangePassword 修改密码
func (s *AuthService) ChangePassword(userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}

	if user.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{"password_hash": string(hashed)})
}

// UploadPicture 更新健身房头像
func (s *AuthService) UploadPicture(gymOwnerID int64, pic *Picture) (*dto.PictureResponse, error) {
	owner, err := s.gymRepo.GetByID(gymOwnerID)
	if err != nil {
		return nil, notFound(err, ErrNotGymOwner)
	}

	fields, err := s.pictures.save("gym_owners", owner.ID, pic, owner.ProfilePictureURL)
	if err != nil {
		return nil, err
	}
	if err := s.gymRepo.UpdateFields(owner.ID, fields); err != nil {
		return nil, err
	}

	owner.ProfilePictureURL = fields["profile_picture_url"].(string)
	owner.ProfilePictureBase64 = fields["profile_picture_base64"].(string)
	owner.ProfilePictureContentType = fields["profile_picture_content_type"].(string)
	return &dto.PictureResponse{ProfilePictureURL: owner.PictureURL()}, nil
}

// GetQRCode 当前签到二维码
func (s *AuthService) GetQRCode(gymOwnerID int64) (*dto.QRCodeResponse, error) {
	owner, err := s.gymRepo.GetByID(gymOwnerID)
	if err != nil {
		return nil, notFound(err, ErrNotGymOwner)
	}
	return &dto.QRCodeResponse{
		GymName:     owner.GymName,
		QRCodeToken: owner.QRCodeToken,
		QRCodeURL:   s.qrCodeURL(owner.QRCodeToken),
	}, nil
}

// RegenerateQR 生成新的签到二维码，旧码立即失效
func (s *AuthService) RegenerateQR(gymOwnerID int64) (*dto.QRCodeResponse, error) {
	owner, err := s.gymRepo.GetByID(gymOwnerID)
	if err != nil {
		return nil, notFound(err, ErrNotGymOwner)
	}

	token := uuid.New().String()
	if err := s.gymRepo.UpdateFields(owner.ID, map[string]interface{}{"qr_code_token": token}); err != nil {
		return nil, err
	}

	logging.Info().Int64("gym_owner_id", owner.ID).Msg("qr code regenerated")
	return &dto.QRCodeResponse{
		GymName:     owner.GymName,
		QRCodeToken: token,
		QRCodeURL:   s.qrCodeURL(token),
	}, nil
}

// VerifyQR 校验二维码，无效时只返回 valid=false
func (s *AuthService) VerifyQR(token string) (*dto.VerifyQRResponse, error) {
	owner, err := s.gymRepo.GetByQRToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.VerifyQRResponse{Valid: false}, nil
	}
	if err != nil {
		return nil, err
	}

	return &dto.VerifyQRResponse{
		Valid:      true,
		GymName:    owner.GymName,
		GymAddress: owner.GymAddress,
		QRCodeURL:  s.qrCodeURL(owner.QRCodeToken),
	}, nil
}

func (s *AuthService) issueToken(owner *model.GymOwner, created bool) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(owner.UserID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:    token,
		User:     buildUserInfo(owner.User),
		GymOwner: s.buildGymOwnerInfo(owner),
		Created:  created,
	}, nil
}

func (s *AuthService) qrCodeURL(token string) string {
	return strings.TrimRight(s.cfg.Server.BaseURL, "/") + qrCheckInPath + token
}

func (s *AuthService) buildGymOwnerInfo(owner *model.GymOwner) *dto.GymOwnerInfo {
	return &dto.GymOwnerInfo{
		ID:                 owner.ID,
		User:               buildUserInfo(owner.User),
		GymName:            owner.GymName,
		GymAddress:         owner.GymAddress,
		GymDescription:     owner.GymDescription,
		PhoneNumber:        owner.PhoneNumber,
		GymEstablishedDate: formatDate(owner.GymEstablishedDate),
		SubscriptionPlan:   owner.SubscriptionPlan,
		IsActive:           owner.IsActive,
		QRCodeToken:        owner.QRCodeToken,
		QRCodeURL:          s.qrCodeURL(owner.QRCodeToken),
		ProfilePictureURL:  owner.PictureURL(),
		CreatedAt:          owner.CreatedAt.Format(time.RFC3339),
	}
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	if user == nil {
		return nil
	}
	return &dto.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
	}
}
