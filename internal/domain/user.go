package domain

import (
	"context"
	"time"
)

// UserType is the role attached to a profile. It is set once at creation.
type UserType string

const (
	UserTypePromoter   UserType = "promoter"
	UserTypeCompany    UserType = "company"
	UserTypeSupervisor UserType = "supervisor"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypePromoter, UserTypeCompany, UserTypeSupervisor:
		return true
	}
	return false
}

// Profile is the application-level user record, keyed by the auth identity id.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     *string   `json:"phone,omitempty"`
	UserType  UserType  `json:"userType"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileUpdate lists the self-service editable fields. UserType is absent on purpose.
type ProfileUpdate struct {
	FullName  *string `json:"fullName" validate:"omitempty,min=2,max=100,valid_name"`
	Phone     *string `json:"phone" validate:"omitempty,valid_phone"`
	AvatarURL *string `json:"-"`
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, id string, update ProfileUpdate) (*Profile, error)
	CountByType(ctx context.Context) (map[UserType]int64, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*Profile, error)
	UploadAvatar(ctx context.Context, id string, upload FileUpload) (*Profile, error)
}

// FileUpload is a user-supplied file already read into memory.
type FileUpload struct {
	Filename string
	Data     []byte
}

// FileStorage keeps publicly readable files such as avatars and logos.
type FileStorage interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
}
