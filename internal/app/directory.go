package app

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"campfind/internal/domain"
)

const emailDomain = "example.com"

type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// Directory holds registered accounts. Usernames are unique and case-sensitive.
type Directory struct {
	mu       sync.RWMutex
	byName   map[string]domain.Account
	validate *validator.Validate
	cost     int
	newID    func() string
}

type DirectoryOption func(*Directory)

// WithHashCost sets the bcrypt cost; tests use bcrypt.MinCost.
func WithHashCost(cost int) DirectoryOption { return func(d *Directory) { d.cost = cost } }

// WithIDFunc overrides id assignment.
func WithIDFunc(f func() string) DirectoryOption { return func(d *Directory) { d.newID = f } }

func NewDirectory(opts ...DirectoryOption) *Directory {
	d := &Directory{
		byName:   map[string]domain.Account{},
		validate: newValidator(),
		cost:     bcrypt.DefaultCost,
		newID:    newUUIDv7,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Register creates an account. A taken username is a conflict whatever the credentials are,
// so the uniqueness check runs before the credential checks.
func (d *Directory) Register(ctx context.Context, in RegisterInput) (domain.Identity, error) {
	if err := d.validate.VarCtx(ctx, in.Username, "required"); err != nil {
		return domain.Identity{}, domain.Validation("username is required",
			domain.FieldError{Field: "username", Message: "is required"})
	}
	if d.exists(in.Username) {
		return domain.Identity{}, domain.Conflict("username already exists")
	}
	if err := d.validate.StructCtx(ctx, in); err != nil {
		return domain.Identity{}, validationErr("password is required", err)
	}
	if in.Password != in.ConfirmPassword {
		return domain.Identity{}, domain.Validation("password confirmation does not match",
			domain.FieldError{Field: "confirmPassword", Message: "must equal password"})
	}

	// hash outside the lock
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), d.cost)
	if err != nil {
		return domain.Identity{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byName[in.Username]; ok {
		return domain.Identity{}, domain.Conflict("username already exists")
	}
	acc := domain.Account{
		Identity: domain.Identity{
			ID:       d.newID(),
			Username: in.Username,
			Email:    in.Username + "@" + emailDomain,
		},
		CredentialHash: hash,
	}
	d.byName[in.Username] = acc
	return acc.Identity, nil
}

func (d *Directory) exists(username string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.byName[username]
	return ok
}

// Authenticate returns the identity whose username and credential both match.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	d.mu.RLock()
	acc, ok := d.byName[username]
	d.mu.RUnlock()
	if !ok {
		return domain.Identity{}, domain.Unauthenticated("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword(acc.CredentialHash, []byte(password)); err != nil {
		return domain.Identity{}, domain.Unauthenticated("invalid username or password")
	}
	return acc.Identity, nil
}

// Seed inserts a fixed account, e.g. the demo user. Existing usernames are left untouched.
func (d *Directory) Seed(id domain.Identity, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byName[id.Username]; ok {
		return nil
	}
	if id.Email == "" {
		id.Email = id.Username + "@" + emailDomain
	}
	d.byName[id.Username] = domain.Account{Identity: id, CredentialHash: hash}
	return nil
}

func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
