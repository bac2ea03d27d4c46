package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUnset, role)

	role, err = ParseRole("instructor")
	require.NoError(t, err)
	assert.Equal(t, RoleInstructor, role)

	role, err = ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestRoleScanAndValue(t *testing.T) {
	var r Role
	require.NoError(t, r.Scan(nil))
	assert.Equal(t, RoleUnset, r)

	require.NoError(t, r.Scan([]byte("admin")))
	assert.Equal(t, RoleAdmin, r)

	assert.Error(t, r.Scan("teacher"))
	assert.Error(t, r.Scan(42))

	v, err := RoleUnset.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = RoleInstructor.Value()
	require.NoError(t, err)
	assert.Equal(t, "instructor", v)
}

func TestRoleJSON(t *testing.T) {
	out, err := json.Marshal(User{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"role":null`)

	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"email":"b@x.com","role":"instructor"}`), &u))
	assert.Equal(t, RoleInstructor, u.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"owner"}`), &u))
}

func TestClassCapacityAndSelectionPaid(t *testing.T) {
	assert.Equal(t, 5, Class{AvailableSeats: 4, Students: 1}.Capacity())

	assert.False(t, Selection{}.Paid())
	tx := "tx_1"
	assert.True(t, Selection{TransactionID: &tx}.Paid())
}
