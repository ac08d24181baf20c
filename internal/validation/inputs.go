package validation

import "strings"

// CategoryInput is the fillable field set of a category.
type CategoryInput struct {
	Decoded `json:"-" validate:"-"`

	CategoryName        string  `json:"category_name" validate:"required,max=100"`
	CategoryDescription *string `json:"category_description"`
}

// ProductInput is the fillable field set of a product.
type ProductInput struct {
	Decoded `json:"-" validate:"-"`

	ProductName        string  `json:"product_name" validate:"required,max=255"`
	ProductSKU         string  `json:"product_sku" validate:"required,max=255"`
	CategoryID         uint    `json:"category_id" validate:"required"`
	ProductDescription *string `json:"product_description"`
}

// UserInput is the field set accepted when creating a user.
type UserInput struct {
	Decoded `json:"-" validate:"-"`

	FirstName  string  `json:"first_name" validate:"required,max=255"`
	MiddleName *string `json:"middle_name" validate:"omitnil,max=255"`
	LastName   string  `json:"last_name" validate:"required,max=255"`
	Username   string  `json:"username" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=8,max_bytes=72"`
}

// UserPatch is a partial user update; nil fields are left untouched.
// An empty middle_name clears it. Required fields use min=1 since a present
// blank value must fail after trimming.
type UserPatch struct {
	Decoded `json:"-" validate:"-"`

	FirstName  *string `json:"first_name" validate:"omitnil,min=1,max=255"`
	MiddleName *string `json:"middle_name" validate:"omitnil,max=255"`
	LastName   *string `json:"last_name" validate:"omitnil,min=1,max=255"`
	Username   *string `json:"username" validate:"omitnil,min=1,max=255"`
	Email      *string `json:"email" validate:"omitnil,email,max=255"`
	Password   *string `json:"password" validate:"omitnil,min=8,max_bytes=72"`
}

// LoginInput is the credential pair accepted by the login endpoint.
type LoginInput struct {
	Decoded `json:"-" validate:"-"`

	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenInput carries a refresh token.
type TokenInput struct {
	Decoded `json:"-" validate:"-"`

	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (in *CategoryInput) normalize() {
	in.CategoryName = strings.TrimSpace(in.CategoryName)
	in.CategoryDescription = optional(in.CategoryDescription)
}

func (in *ProductInput) normalize() {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.ProductSKU = strings.TrimSpace(in.ProductSKU)
	in.ProductDescription = optional(in.ProductDescription)
}

func (in *UserInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = optional(in.MiddleName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
}

func (in *LoginInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
}

func (in *TokenInput) normalize() {
	in.RefreshToken = strings.TrimSpace(in.RefreshToken)
}

func (in *UserPatch) normalize() {
	trim(in.FirstName)
	trim(in.MiddleName)
	trim(in.LastName)
	trim(in.Username)
	trim(in.Email)
}

// optional trims a nullable string and maps blank to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
