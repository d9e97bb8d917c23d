// Package accounts provisions accounts for authenticated users on top of object storage.
package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/ankproject/ank-api/internal/errors"
	"github.com/ankproject/ank-api/pkg/objstore"
)

// Provisioner creates user profiles, accounts and the index entries between them.
// Writes are sequential and never rolled back.
type Provisioner struct {
	storage objstore.Storage
	bucket  string
	now     func() time.Time
	newID   func() string
}

type Option func(*Provisioner)

// Result describes a provisioned account.
type Result struct {
	AccountID      string
	ProfileCreated bool
	CreatedAt      string
}

func NewProvisioner(options ...Option) *Provisioner {
	p := &Provisioner{
		now:   time.Now,
		newID: NewAccountID,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func WithStorage(storage objstore.Storage) Option {
	return func(p *Provisioner) {
		p.storage = storage
	}
}

// WithBucket sets the bucket all records are written to. An empty name fails every request.
func WithBucket(bucket string) Option {
	return func(p *Provisioner) {
		p.bucket = strings.TrimSpace(bucket)
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provisioner) {
		p.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(p *Provisioner) {
		p.newID = newID
	}
}

// Provision creates an account owned by uid. The user profile is written only when it
// does not exist yet; an existing profile is left untouched even if email differs.
func (p *Provisioner) Provision(ctx context.Context, uid, email string, req CreateAccountRequest) (*Result, error) {
	uid = strings.TrimSpace(uid)
	email = strings.TrimSpace(email)
	if uid == "" {
		return nil, ErrNoUID
	}
	if email == "" {
		return nil, ErrNoEmail
	}
	if p.bucket == "" {
		return nil, ErrBucketNotSet
	}
	if p.storage == nil {
		return nil, errors.Err("accounts: storage is not configured")
	}
	bucket := p.storage.Bucket(p.bucket)
	res := &Result{}

	profileKey := ProfileKey(uid)
	exists, err := bucket.Exists(ctx, profileKey)
	if err != nil {
		return nil, errors.Prefix("checking user profile", err)
	}
	if !exists {
		profile := UserProfile{UID: uid, Email: email, CreatedAt: FormatTimestamp(p.now())}
		if err := objstore.PutJSON(ctx, bucket, profileKey, profile); err != nil {
			return nil, errors.Prefix("writing user profile", err)
		}
		res.ProfileCreated = true
	}

	res.AccountID = p.newID()
	res.CreatedAt = FormatTimestamp(p.now())

	index := UserAccountIndex{
		AccountID: res.AccountID,
		Role:      RoleOwner,
		Status:    StatusActive,
		CreatedAt: res.CreatedAt,
	}
	if err := objstore.PutJSON(ctx, bucket, UserAccountKey(uid, res.AccountID), index); err != nil {
		return res, errors.Prefix("writing user account index", err)
	}

	account := Account{
		AccountID: res.AccountID,
		Name:      strings.TrimSpace(req.Name),
		OwnerUID:  uid,
		CreatedAt: res.CreatedAt,
	}
	if err := objstore.PutJSON(ctx, bucket, AccountKey(res.AccountID), account); err != nil {
		return res, errors.Prefix("writing account", err)
	}

	return res, nil
}
