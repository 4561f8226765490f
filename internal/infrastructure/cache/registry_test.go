package cache

import (
	"testing"

	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AdminUsernameIndex(t *testing.T) {
	r := NewRegistry()
	r.PutAdmin(identity.Admin{ID: 1, UID: "adm_1", Username: "root", PasswordHash: "h"})

	uid, ok := r.AdminIDByUsername("root")
	require.True(t, ok)
	assert.Equal(t, "adm_1", uid)

	admin, ok := r.AdminByUsername("root")
	require.True(t, ok)
	assert.Equal(t, "h", admin.PasswordHash)

	_, ok = r.AdminByUsername("nobody")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len(KindAdmin))
}

func TestRegistry_RenamedAdmin(t *testing.T) {
	r := NewRegistry()
	r.PutAdmin(identity.Admin{ID: 1, UID: "adm_1", Username: "alice", PasswordHash: "h1"})
	r.PutAdmin(identity.Admin{ID: 1, UID: "adm_1", Username: "bob", PasswordHash: "h2"})

	_, ok := r.AdminByUsername("alice")
	assert.False(t, ok)
	_, ok = r.AdminIDByUsername("alice")
	assert.False(t, ok)

	admin, ok := r.AdminByUsername("bob")
	require.True(t, ok)
	assert.Equal(t, "h2", admin.PasswordHash)
	assert.Equal(t, 1, r.Len(KindAdmin))
}

func TestRegistry_Config(t *testing.T) {
	r := NewRegistry()

	_, ok := r.SMTP()
	assert.False(t, ok)
	assert.Nil(t, r.SMTPEmails())

	r.PutConfig(settings.Config{SMTP: settings.SMTP{Host: "mail.local", Port: 587}})

	smtp, ok := r.SMTP()
	require.True(t, ok)
	assert.Equal(t, "mail.local", smtp.Host)
	assert.Equal(t, []string{}, r.SMTPEmails())
	assert.True(t, r.Config.Has(settings.KeySMTP))
	assert.True(t, r.Config.Has(settings.KeySMTPEmails))
	assert.Equal(t, 2, r.Len(KindConfig))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, KindAdmin, k)

	for _, kind := range AllKinds {
		got, err := ParseKind(string(kind))
		assert.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err = ParseKind("users")
	assert.Error(t, err)
}
