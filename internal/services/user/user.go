// Package user manages cookie-credentialed user records.
//
// Users are created implicitly: a request with no credential, an expired
// credential, or a mismatched secret gets a brand new identity with a
// random display name. The secret is a capability token, not a password.
package user

import (
	"time"

	"github.com/louisbranch/what2pick/internal/platform/storage/sqlspec"
)

// NameMaxLen caps display names.
const NameMaxLen = 22

// credentialTTL is how long a credential stays valid without being used.
const credentialTTL = 3 * 24 * time.Hour

var schema = sqlspec.MustSchema("users",
	sqlspec.Field{Name: "uid", Column: sqlspec.PrimaryKey(sqlspec.Resolve(sqlspec.KindText))},
	sqlspec.Field{Name: "pwd", Column: sqlspec.Resolve(sqlspec.KindText)},
	sqlspec.Field{Name: "name", Column: sqlspec.Resolve(sqlspec.KindText)},
	sqlspec.Field{Name: "lastaccess", Column: sqlspec.Resolve(sqlspec.KindTime)},
)

// User is one stored identity.
type User struct {
	UID        string
	Secret     string
	Name       string
	LastAccess time.Time

	record *sqlspec.Record
}

func fromRecord(record *sqlspec.Record) User {
	return User{
		UID:        record.Get("uid").(string),
		Secret:     record.Get("pwd").(string),
		Name:       record.Get("name").(string),
		LastAccess: record.Get("lastaccess").(time.Time),
		record:     record,
	}
}

func (u *User) syncRecord() *sqlspec.Record {
	if u.record == nil {
		u.record = sqlspec.NewRecord(schema)
	}
	u.record.Set("uid", u.UID)
	u.record.Set("pwd", u.Secret)
	u.record.Set("name", u.Name)
	u.record.Set("lastaccess", u.LastAccess)
	return u.record
}

// truncateName enforces the display-name cap in characters, not bytes.
func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= NameMaxLen {
		return name
	}
	return string(runes[:NameMaxLen])
}
