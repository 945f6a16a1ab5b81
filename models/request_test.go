package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestKindCollectionName(t *testing.T) {
	assert.Equal(t, "topups", KindTopup.CollectionName())
	assert.Equal(t, "withdraws", KindWithdraw.CollectionName())
	assert.Equal(t, "recharges", KindRecharge.CollectionName())
	assert.Equal(t, "gmailSales", KindGmail.CollectionName())
	assert.Equal(t, "formSubmissions", KindForm.CollectionName())
	assert.Equal(t, "", RequestKind("bogus").CollectionName())
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusSuccess.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestUserIsAdmin(t *testing.T) {
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuperadmin}).IsAdmin())
}
