package profile

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tadika/core"
)

// Roles
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
)

// Languages
const (
	LanguageEnglish Language = "en"
	LanguageMalay   Language = "bm"

	DefaultLanguage = LanguageEnglish
)

var (
	AllRoles     = []Role{RoleAdmin, RoleTeacher, RoleParent}
	AllLanguages = []Language{LanguageEnglish, LanguageMalay}
)

// Role is the value stored on a Profile. Values outside AllRoles are kept as-is and map to KindUnknown.
type Role string

// RoleKind is the closed set of role variants the application knows how to serve.
type RoleKind int

const (
	KindUnknown RoleKind = iota
	KindAdmin
	KindTeacher
	KindParent
)

func (r Role) Kind() RoleKind {
	switch r {
	case RoleAdmin:
		return KindAdmin
	case RoleTeacher:
		return KindTeacher
	case RoleParent:
		return KindParent
	default:
		return KindUnknown
	}
}

func (r Role) IsValid() bool { return r.Kind() != KindUnknown }

func (r Role) String() string { return string(r) }

// RoleSwitch has one method per RoleKind.
// Adding a kind means adding a method here, which breaks every implementation until it is handled.
type RoleSwitch interface {
	Admin()
	Teacher()
	Parent()
	Unknown(role Role)
}

// Dispatch calls the RoleSwitch method matching role.
func Dispatch(role Role, sw RoleSwitch) {
	switch role.Kind() {
	case KindAdmin:
		sw.Admin()
	case KindTeacher:
		sw.Teacher()
	case KindParent:
		sw.Parent()
	default:
		sw.Unknown(role)
	}
}

type Language string

func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageMalay
}

// ParseLanguage returns the Language matching s and whether it is supported.
func ParseLanguage(s string) (Language, bool) {
	l := Language(core.CleanString(s, true /* lower */))
	return l, l.IsValid()
}

// Identity is the authentication record owned by the auth provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (i Identity) IsZero() bool { return i.ID == "" }

// Profile is one-to-one with an Identity and shares its ID.
type Profile struct {
	ID                 string    `json:"id"`
	FullName           string    `json:"full_name"`
	Role               Role      `json:"role"`
	LanguagePreference Language  `json:"language_preference"`
	Phone              string    `json:"phone,omitempty"`
	CreatedAt          time.Time `json:"created_at"` // UTC
	UpdatedAt          time.Time `json:"updated_at"` // UTC
}

// NewProfile contains information needed to create a new Profile.
type NewProfile struct {
	ID       string `json:"id" validate:"required"`
	FullName string `json:"full_name" validate:"required,notblank"`
	Role     Role   `json:"role" validate:"required,role"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Language string `json:"language_preference" validate:"omitempty,language"`
}

func (np *NewProfile) Validate(validate *validator.Validate) error {
	np.FullName = core.CleanString(np.FullName)
	np.Phone = core.CleanString(np.Phone)
	np.Language = core.CleanString(np.Language, true /* lower */)
	return validate.Struct(np)
}

// QueryFilter narrows CountProfiles / QueryProfiles; empty fields are ignored.
type QueryFilter struct {
	Roles []Role
	IDs   []string
}
