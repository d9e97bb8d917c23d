package accounts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleOwner     = "owner"
	StatusActive  = "active"
	accountPrefix = "acc_"

	// TimestampFormat is ISO-8601 with microseconds and an explicit UTC offset.
	TimestampFormat = "2006-01-02T15:04:05.000000-07:00"
)

// UserProfile is stored once per user under ProfileKey.
type UserProfile struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// UserAccountIndex links a user to one of their accounts.
type UserAccountIndex struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Account is the account record itself.
type Account struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	OwnerUID  string `json:"owner_uid"`
	CreatedAt string `json:"created_at"`
}

func ProfileKey(uid string) string {
	return fmt.Sprintf("users/%s/user.json", uid)
}

func UserAccountKey(uid, accountID string) string {
	return fmt.Sprintf("users/%s/accounts/%s.json", uid, accountID)
}

func AccountKey(accountID string) string {
	return fmt.Sprintf("accounts/%s/account.json", accountID)
}

// NewAccountID returns "acc_" followed by the first 12 hex characters of a random UUID.
func NewAccountID() string {
	return accountPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// FormatTimestamp renders t in UTC with TimestampFormat.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
