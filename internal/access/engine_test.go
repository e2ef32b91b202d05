package access_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
)

func doc(tier model.AccessTier, createdBy int64) *model.Document {
	return &model.Document{ID: 1, Access: tier, CreatedBy: createdBy}
}

func TestOperation_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op       access.Operation
		expected string
	}{
		{access.OpRead, "read"},
		{access.OpUpdate, "update"},
		{access.OpDelete, "delete"},
		{access.Operation(42), "unknown"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, tt.op.String())
	}
}

func TestCanRead_PublicAllowsEveryone(t *testing.T) {
	t.Parallel()

	d := doc(model.AccessPublic, 5)
	for id := int64(0); id < 10; id++ {
		for role := 0; role < 4; role++ {
			p := model.Principal{ID: id, RoleID: role}
			require.Equal(t, access.Allow, access.CanRead(d, p, access.Author{}), "id=%d role=%d", id, role)
		}
	}
}

func TestCanRead_Private(t *testing.T) {
	t.Parallel()

	d := doc(model.AccessPrivate, 5)

	tests := []struct {
		name      string
		requester model.Principal
		expected  access.Decision
	}{
		{"author", model.Principal{ID: 5, RoleID: 0}, access.Allow},
		{"stranger", model.Principal{ID: 9, RoleID: 0}, access.Deny},
		{"elevated stranger", model.Principal{ID: 9, RoleID: 1}, access.Allow},
		{"higher elevated stranger", model.Principal{ID: 9, RoleID: 7}, access.Allow},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, access.CanRead(d, tt.requester, access.Author{}))
		})
	}
}

func TestCanRead_PrivateMatchesRule(t *testing.T) {
	t.Parallel()

	d := doc(model.AccessPrivate, 3)
	for id := int64(0); id < 8; id++ {
		for role := 0; role < 4; role++ {
			p := model.Principal{ID: id, RoleID: role}
			want := access.Deny
			if id == d.CreatedBy || role > 0 {
				want = access.Allow
			}
			require.Equal(t, want, access.CanRead(d, p, access.Author{}), "id=%d role=%d", id, role)
		}
	}
}

func TestCanRead_RoleTierRequiresExactRole(t *testing.T) {
	t.Parallel()

	d := doc(model.AccessRole, 5)
	author := access.AuthorOf(&model.User{ID: 5, RoleID: 2})

	tests := []struct {
		name      string
		requester model.Principal
		expected  access.Decision
	}{
		{"same role", model.Principal{ID: 9, RoleID: 2}, access.Allow},
		{"higher role", model.Principal{ID: 9, RoleID: 3}, access.Deny},
		{"lower role", model.Principal{ID: 9, RoleID: 0}, access.Deny},
		{"author with own role", model.Principal{ID: 5, RoleID: 2}, access.Allow},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, access.CanRead(d, tt.requester, author))
		})
	}
}

func TestCanRead_RoleTierMissingAuthorIsUnresolved(t *testing.T) {
	t.Parallel()

	d := doc(model.AccessRole, 5)
	for role := 0; role < 4; role++ {
		got := access.CanRead(d, model.Principal{ID: 5, RoleID: role}, access.AuthorOf(nil))
		require.Equal(t, access.Unresolved, got)
	}
}

func TestCanRead_UnknownTierDenied(t *testing.T) {
	t.Parallel()

	d := doc(model.AccessTier("shared"), 5)
	require.Equal(t, access.Deny, access.CanRead(d, model.Principal{ID: 5, RoleID: 0}, access.Author{}))
	require.Equal(t, access.Deny, access.CanRead(d, model.Principal{ID: 9, RoleID: 3}, access.Author{}))
}

func TestCanUpdate_OwnershipOnly(t *testing.T) {
	t.Parallel()

	tiers := []model.AccessTier{model.AccessPublic, model.AccessPrivate, model.AccessRole}
	for _, tier := range tiers {
		d := doc(tier, 5)
		for id := int64(0); id < 8; id++ {
			for role := 0; role < 4; role++ {
				want := access.Deny
				if id == 5 {
					want = access.Allow
				}
				got := access.CanUpdate(d, model.Principal{ID: id, RoleID: role})
				require.Equal(t, want, got, "tier=%s id=%d role=%d", tier, id, role)
			}
		}
	}
}

func TestCanDelete_OwnerOrElevated(t *testing.T) {
	t.Parallel()

	tiers := []model.AccessTier{model.AccessPublic, model.AccessPrivate, model.AccessRole}
	for _, tier := range tiers {
		d := doc(tier, 5)
		for id := int64(0); id < 8; id++ {
			for role := 0; role < 4; role++ {
				want := access.Deny
				if id == 5 || role > 0 {
					want = access.Allow
				}
				got := access.CanDelete(d, model.Principal{ID: id, RoleID: role})
				require.Equal(t, want, got, "tier=%s id=%d role=%d", tier, id, role)
			}
		}
	}
}

func TestNeedsAuthor(t *testing.T) {
	t.Parallel()

	require.True(t, access.NeedsAuthor(doc(model.AccessRole, 1)))
	require.False(t, access.NeedsAuthor(doc(model.AccessPublic, 1)))
	require.False(t, access.NeedsAuthor(doc(model.AccessPrivate, 1)))
}
