package validation

import (
	"context"
	"fmt"
)

// CategoryLookup answers the store-backed category rules.
type CategoryLookup interface {
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
}

// CategoryExistence answers whether a category reference resolves.
type CategoryExistence interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// ProductLookup answers the store-backed product rules.
type ProductLookup interface {
	SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error)
}

// UserLookup answers the store-backed user rules.
type UserLookup interface {
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

// Category validates a category field set. excludeID is the record being
// updated, or zero on create. The returned error is either Errors or a
// lookup failure.
func (v *Validator) Category(ctx context.Context, in *CategoryInput, lookup CategoryLookup, excludeID uint) error {
	in.normalize()

	errs, err := v.static(in)
	if err != nil {
		return err
	}

	if !errs.Has("category_name") {
		if err := unique(ctx, errs, "category_name", func(ctx context.Context) (bool, error) {
			return lookup.NameTaken(ctx, in.CategoryName, excludeID)
		}); err != nil {
			return err
		}
	}

	return errs.errOrNil()
}

// Product validates a product field set. excludeID is the record being
// updated, or zero on create.
func (v *Validator) Product(ctx context.Context, in *ProductInput, lookup ProductLookup, categories CategoryExistence, excludeID uint) error {
	in.normalize()

	errs, err := v.static(in)
	if err != nil {
		return err
	}

	if !errs.Has("product_sku") {
		if err := unique(ctx, errs, "product_sku", func(ctx context.Context) (bool, error) {
			return lookup.SKUTaken(ctx, in.ProductSKU, excludeID)
		}); err != nil {
			return err
		}
	}

	if !errs.Has("category_id") {
		exists, err := categories.Exists(ctx, in.CategoryID)
		if err != nil {
			return fmt.Errorf("category_id lookup: %w", err)
		}
		if !exists {
			errs.Add("category_id", Invalid("category_id"))
		}
	}

	return errs.errOrNil()
}

// User validates the field set of a new user.
func (v *Validator) User(ctx context.Context, in *UserInput, lookup UserLookup) error {
	in.normalize()

	errs, err := v.static(in)
	if err != nil {
		return err
	}

	if err := v.userIdentifiers(ctx, errs, lookup, &in.Username, &in.Email, 0); err != nil {
		return err
	}

	return errs.errOrNil()
}

// UserPatch validates the present fields of a partial user update.
func (v *Validator) UserPatch(ctx context.Context, in *UserPatch, lookup UserLookup, userID uint) error {
	in.normalize()

	errs, err := v.static(in)
	if err != nil {
		return err
	}

	if err := v.userIdentifiers(ctx, errs, lookup, in.Username, in.Email, userID); err != nil {
		return err
	}

	return errs.errOrNil()
}

func (v *Validator) userIdentifiers(ctx context.Context, errs Errors, lookup UserLookup, username, email *string, excludeID uint) error {
	if username != nil && !errs.Has("username") {
		if err := unique(ctx, errs, "username", func(ctx context.Context) (bool, error) {
			return lookup.UsernameTaken(ctx, *username, excludeID)
		}); err != nil {
			return err
		}
	}

	if email != nil && !errs.Has("email") {
		if err := unique(ctx, errs, "email", func(ctx context.Context) (bool, error) {
			return lookup.EmailTaken(ctx, *email, excludeID)
		}); err != nil {
			return err
		}
	}

	return nil
}

func unique(ctx context.Context, errs Errors, field string, taken func(context.Context) (bool, error)) error {
	exists, err := taken(ctx)
	if err != nil {
		return fmt.Errorf("%s lookup: %w", field, err)
	}
	if exists {
		errs.Add(field, Taken(field))
	}
	return nil
}

// Login validates a credential pair.
func (v *Validator) Login(in *LoginInput) error {
	in.normalize()

	errs, err := v.static(in)
	if err != nil {
		return err
	}
	return errs.errOrNil()
}

// Token validates a refresh token payload.
func (v *Validator) Token(in *TokenInput) error {
	in.normalize()

	errs, err := v.static(in)
	if err != nil {
		return err
	}
	return errs.errOrNil()
}
