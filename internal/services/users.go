package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"archiwum-zwojow/internal/auth"
	"archiwum-zwojow/internal/database"
	"archiwum-zwojow/internal/models"
)

var (
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	emailRegexp    = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,6}$`)
	phoneRegexp    = regexp.MustCompile(`^[0-9]{10}$`)
)

type UserService struct {
	store *database.Store
}

func NewUserService(store *database.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

func (s *UserService) Exists(ctx context.Context, username string) (bool, error) {
	return s.store.UserExists(ctx, username)
}

type RegisterParams struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Emoji     string
}

func (s *UserService) Register(ctx context.Context, arg RegisterParams) (*models.User, error) {
	if arg.Username == "" || arg.Password == "" {
		return nil, ErrCredentialsEmpty
	}
	if err := validateUsername(arg.Username); err != nil {
		return nil, err
	}
	if len(arg.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if err := validateContact(arg.Email, arg.Phone); err != nil {
		return nil, err
	}

	emoji := arg.Emoji
	if emoji == "" {
		emoji = models.DefaultEmoji
	}
	if err := validateEmoji(emoji); err != nil {
		return nil, err
	}

	exists, err := s.store.UserExists(ctx, arg.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(arg.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, database.CreateUserParams{
		Username:     arg.Username,
		PasswordHash: hash,
		Email:        arg.Email,
		FirstName:    arg.FirstName,
		LastName:     arg.LastName,
		Phone:        arg.Phone,
		Emoji:        emoji,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

type UpdateProfileParams struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Emoji     string
	// Password == "" oznacza: zostaw stare hasło.
	Password string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, arg UpdateProfileParams) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// Cała walidacja przed pierwszym zapisem: odrzucona edycja
	// nie zostawia po sobie częściowo zmienionego profilu.
	if err := validateContact(arg.Email, arg.Phone); err != nil {
		return nil, err
	}
	if arg.Password != "" && len(arg.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	emoji := arg.Emoji
	if emoji == "" {
		emoji = user.Emoji
	}
	if err := validateEmoji(emoji); err != nil {
		return nil, err
	}

	if _, err := s.store.UpdateUserProfile(ctx, database.UpdateProfileParams{
		ID:        userID,
		Email:     arg.Email,
		FirstName: arg.FirstName,
		LastName:  arg.LastName,
		Phone:     arg.Phone,
		Emoji:     emoji,
	}); err != nil {
		return nil, err
	}

	if arg.Password != "" {
		hash, err := auth.HashPassword(arg.Password)
		if err != nil {
			return nil, err
		}
		if err := s.store.UpdateUserPassword(ctx, userID, hash); err != nil {
			return nil, err
		}
	}

	return s.store.GetUserByID(ctx, userID)
}

type AddUserParams struct {
	Username string
	Password string
	Email    string
	IsAdmin  bool
}

// AddUser tworzy konto z panelu admina. Błędy wracają do wołającego,
// zamiast znikać po drodze.
func (s *UserService) AddUser(ctx context.Context, arg AddUserParams) (*models.User, error) {
	if arg.Username == "" || arg.Password == "" {
		return nil, ErrCredentialsEmpty
	}
	if err := validateUsername(arg.Username); err != nil {
		return nil, err
	}
	if arg.Email != "" && !emailRegexp.MatchString(arg.Email) {
		return nil, ErrEmailInvalid
	}

	exists, err := s.store.UserExists(ctx, arg.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(arg.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, database.CreateUserParams{
		Username:     arg.Username,
		PasswordHash: hash,
		Email:        arg.Email,
		Emoji:        models.DefaultEmoji,
		IsAdmin:      arg.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) Promote(ctx context.Context, id int64) error {
	return s.setAdmin(ctx, id, true)
}

func (s *UserService) Demote(ctx context.Context, id int64) error {
	return s.setAdmin(ctx, id, false)
}

func (s *UserService) setAdmin(ctx context.Context, id int64, isAdmin bool) error {
	ok, err := s.store.SetUserAdmin(ctx, id, isAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) ListWithScrollCounts(ctx context.Context) ([]database.UserWithScrollCount, error) {
	return s.store.ListUsersWithScrollCounts(ctx)
}

func (s *UserService) SearchByUsername(ctx context.Context, usernamePart string) ([]database.UserWithScrollCount, error) {
	return s.store.SearchUsersByUsername(ctx, usernamePart)
}

func validateUsername(username string) error {
	if len(username) > 255 {
		return ErrUsernameTooLong
	}
	if !usernameRegexp.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

func validateContact(email, phone string) error {
	if email != "" && !emailRegexp.MatchString(email) {
		return ErrEmailInvalid
	}
	if phone != "" && !phoneRegexp.MatchString(phone) {
		return ErrPhoneInvalid
	}
	return nil
}

func validateEmoji(emoji string) error {
	n := utf8.RuneCountInString(emoji)
	if n < 1 || n > 2 || strings.TrimSpace(emoji) == "" {
		return ErrEmojiInvalid
	}
	return nil
}
