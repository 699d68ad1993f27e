package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(MigrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file in migrations: %s", name)
		}
	}

	assert.Equal(t, ups, downs)
}

func TestMigrationsDeclareUniqueConstraints(t *testing.T) {
	users, err := fs.ReadFile(MigrationsFS, "migrations/000001_create_users.up.sql")
	require.NoError(t, err)
	favorites, err := fs.ReadFile(MigrationsFS, "migrations/000004_create_favorites.up.sql")
	require.NoError(t, err)

	for _, constraint := range []string{"users_partnership_number_key", "users_email_key", "users_phone_key"} {
		assert.Contains(t, string(users), constraint)
	}
	assert.Contains(t, string(favorites), "favorites_user_business_key")
}
