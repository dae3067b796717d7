package service

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/storefront/storefront-service/config"
	"github.com/storefront/storefront-service/internal/domain"
	"github.com/storefront/storefront-service/internal/dto"
	"github.com/storefront/storefront-service/internal/event"
	"github.com/storefront/storefront-service/internal/repository"
	"github.com/storefront/storefront-service/pkg/errs"
	"github.com/storefront/storefront-service/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	mongoDBRepo   repository.MongoDBUserRepository
	config        config.Config
	eventProducer event.Producer
}

func CreateUserService(mongoDBRepo repository.MongoDBUserRepository, config config.Config, eventProducer event.Producer) UserService {
	return &UserServiceImpl{mongoDBRepo: mongoDBRepo, config: config, eventProducer: eventProducer}
}

func toUserResponse(user domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID.Hex(),
		ExternalID: user.ExternalID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, data dto.RegisterRequest) (resp dto.UserResponse, err error) {
	existing, err := s.mongoDBRepo.GetUserByEmail(ctx, data.Email)
	if err != nil {
		return
	}

	if existing.ExternalID != "" {
		return resp, errs.ErrEmailAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return
	}

	user := domain.User{
		ExternalID:     ulid.Make().String(),
		Name:           data.Name,
		Email:          data.Email,
		HashedPassword: string(hash),
		Role:           domain.RoleUser,
	}

	userID, err := s.mongoDBRepo.AddUser(ctx, user)
	if err != nil {
		return
	}

	user.ID = userID

	// Welcome mail never blocks registration.
	if s.config.SMTPConfig.Host != "" {
		smtp := s.config.SMTPConfig
		msg := utils.BuildWelcomeEmail(smtp.Sender, user.Email, user.Name)
		if err := utils.SendEmail(msg, smtp.Sender, smtp.Password, smtp.Host, smtp.Port); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("component", "Register").Msg("failed to send welcome email")
		}
	}

	return toUserResponse(user), nil
}

func (s *UserServiceImpl) Login(ctx context.Context, data dto.LoginRequest) (resp dto.LoginResponse, err error) {
	user, err := s.mongoDBRepo.GetUserByEmail(ctx, data.Email)
	if err != nil {
		return
	}

	if user.ExternalID == "" {
		return resp, errs.ErrAccountNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(data.Password))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Login").Msg("")
		return resp, errs.ErrInvalidCredentialsEmail
	}

	token, err := utils.CreateJWTToken(user.ID.Hex(), user.Name, user.ExternalID, user.Role, s.config.JWTSecret)
	if err != nil {
		return
	}

	resp.Token = token
	resp.User = toUserResponse(user)
	return
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, externalID string) (resp dto.UserResponse, err error) {
	user, err := s.mongoDBRepo.GetUserByExternalID(ctx, externalID)
	if err != nil {
		return
	}

	return toUserResponse(user), nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, data dto.UpdateProfileRequest) (resp dto.UserResponse, err error) {
	user, err := s.mongoDBRepo.GetUserByExternalID(ctx, data.ExternalID)
	if err != nil {
		return
	}

	if data.Email != user.Email {
		var other domain.User
		other, err = s.mongoDBRepo.GetUserByEmail(ctx, data.Email)
		if err != nil {
			return
		}
		if other.ExternalID != "" && other.ExternalID != user.ExternalID {
			return resp, errs.ErrEmailAlreadyUsed
		}
	}

	user.Name = data.Name
	user.Email = data.Email

	if data.Password != "" {
		var hash []byte
		hash, err = bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
		if err != nil {
			return
		}
		user.HashedPassword = string(hash)
	}

	err = s.mongoDBRepo.UpdateUser(ctx, user)
	if err != nil {
		return
	}

	err = s.eventProducer.Publish(ctx, dto.EventUserUpdate, toUserResponse(user))
	if err != nil {
		return
	}

	return toUserResponse(user), nil
}

func (s *UserServiceImpl) GetUsers(ctx context.Context, page int) (resp dto.UserListResponse, err error) {
	if page < 1 {
		page = 1
	}

	pageSize := int64(s.config.PageSize)

	count, err := s.mongoDBRepo.CountUsers(ctx)
	if err != nil {
		return
	}

	users, err := s.mongoDBRepo.GetUsers(ctx, pageSize*int64(page-1), pageSize)
	if err != nil {
		return
	}

	resp.Users = make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		resp.Users = append(resp.Users, toUserResponse(user))
	}

	resp.Page = page
	resp.Pages = int((count + pageSize - 1) / pageSize)
	return
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id string) (resp dto.UserResponse, err error) {
	user, err := s.mongoDBRepo.GetUserByID(ctx, id)
	if err != nil {
		return
	}

	return toUserResponse(user), nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, data dto.UpdateUserRequest) (resp dto.UserResponse, err error) {
	user, err := s.mongoDBRepo.GetUserByID(ctx, data.ID)
	if err != nil {
		return
	}

	if data.Email != user.Email {
		var other domain.User
		other, err = s.mongoDBRepo.GetUserByEmail(ctx, data.Email)
		if err != nil {
			return
		}
		if other.ExternalID != "" && other.ExternalID != user.ExternalID {
			return resp, errs.ErrEmailAlreadyUsed
		}
	}

	user.Name = data.Name
	user.Email = data.Email
	user.Role = data.Role

	err = s.mongoDBRepo.UpdateUser(ctx, user)
	if err != nil {
		return
	}

	err = s.eventProducer.Publish(ctx, dto.EventUserUpdate, toUserResponse(user))
	if err != nil {
		return
	}

	return toUserResponse(user), nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) (err error) {
	return s.mongoDBRepo.DeleteUser(ctx, id)
}
