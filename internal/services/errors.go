package services

import "errors"

// Błędy walidacji niosą komunikaty pokazywane użytkownikowi wprost.
var (
	ErrNameEmpty = errors.New("Name is empty")
	ErrNameTaken = errors.New("Name already exists")
	ErrFileEmpty = errors.New("File is empty")

	ErrCredentialsEmpty = errors.New("Username or Password is empty")
	ErrUsernameTooLong  = errors.New("Username must be less than 255 characters")
	ErrUsernameInvalid  = errors.New("Username can only contain letters, numbers, and spaces")
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters long")
	ErrEmailInvalid     = errors.New("Invalid email")
	ErrPhoneInvalid     = errors.New("Phone number must be 10 digits")
	ErrEmojiInvalid     = errors.New("Emoji must be 1-2 characters")
	ErrUsernameTaken    = errors.New("Username already exists")
)

var (
	ErrScrollNotFound = errors.New("scroll not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNotOwner       = errors.New("only the owner may modify this scroll")
	ErrWrongPassword  = errors.New("Wrong password")
)

var validationErrors = []error{
	ErrNameEmpty, ErrNameTaken, ErrFileEmpty,
	ErrCredentialsEmpty, ErrUsernameTooLong, ErrUsernameInvalid,
	ErrPasswordTooShort, ErrEmailInvalid, ErrPhoneInvalid,
	ErrEmojiInvalid, ErrUsernameTaken,
}

func IsValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
